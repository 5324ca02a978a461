package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/workspace"
)

// confirmResetModel asks before the workflow is reset to its startup state.
// The reset must already be requested on the workspace.
type confirmResetModel struct {
	ws     *workspace.Workspace
	styles Styles
}

type resetConfirmedMsg struct{}
type resetCancelledMsg struct{}

func newConfirmReset(s Styles, ws *workspace.Workspace) confirmResetModel {
	return confirmResetModel{ws: ws, styles: s}
}

func (m confirmResetModel) Update(msg tea.Msg) (confirmResetModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "n":
			m.ws.CancelReset()
			return m, func() tea.Msg { return resetCancelledMsg{} }
		case "y", "enter":
			m.ws.ConfirmReset()
			return m, func() tea.Msg { return resetConfirmedMsg{} }
		}
	}
	return m, nil
}

func (m confirmResetModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Reset Workflow"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Workflow:  %s\n", m.ws.Name()))
	b.WriteString(fmt.Sprintf("  Steps:     %d\n", len(m.ws.Nodes())))
	b.WriteString("\n")
	b.WriteString(m.styles.Error.Render("  " + workspace.ResetPrompt))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("  y/enter: confirm | esc/n: cancel"))

	return b.String()
}

func (m confirmResetModel) View() string {
	return m.styles.Modal.Render(m.ViewContent())
}
