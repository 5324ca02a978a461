package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/team"
	"github.com/simonbystrom/flowview/internal/workspace"
)

type teamModel struct {
	ws     *workspace.Workspace
	styles Styles
	input  textinput.Model
	err    string
	notice string
}

func newTeam(s Styles, ws *workspace.Workspace) teamModel {
	ti := textinput.New()
	ti.Placeholder = "developer@company.com"
	ti.CharLimit = 254
	ti.Width = 40
	return teamModel{ws: ws, styles: s, input: ti}
}

func (m teamModel) capturing() bool {
	return m.input.Focused()
}

func (m teamModel) Update(msg tea.Msg) (teamModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.input.Focused() {
		switch keyMsg.String() {
		case "esc":
			m.input.Blur()
			return m, nil
		case "enter":
			m.invite()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if keyMsg.String() == "i" {
		m.err = ""
		m.notice = ""
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m *teamModel) invite() {
	mem, err := m.ws.Invite(m.input.Value())
	if err != nil {
		m.err = err.Error()
		m.notice = ""
		return
	}
	m.err = ""
	m.notice = fmt.Sprintf("Invited %s.", mem.Name)
	m.input.SetValue("")
}

func (m teamModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("  Team Collaborators"))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("  Manage permissions and project access."))
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %-4s %-22s %-30s %-12s %s", "", "Collaborator", "Handle", "Role", "Status")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")
	for _, mem := range m.ws.Members() {
		b.WriteString(fmt.Sprintf("  %-4s %-22s %-30s %-12s %s\n",
			mem.Avatar,
			truncate(mem.Name, 22),
			truncate(team.Handle(mem), 30),
			mem.Role,
			m.styles.Presence(mem.Presence).Render(presenceDot(mem.Presence)),
		))
	}

	b.WriteString("\n")
	b.WriteString("  Invite: " + m.input.View())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render("  " + m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.input.Focused() {
		b.WriteString(m.styles.Help.Render("  enter: invite │ esc: stop editing"))
	} else {
		b.WriteString(m.styles.Help.Render("  i: invite a developer"))
	}
	return b.String()
}
