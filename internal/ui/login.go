package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/workspace"
)

type loginDoneMsg struct {
	name string
}

// loginModel is shown while signed out.
type loginModel struct {
	ws         *workspace.Workspace
	styles     Styles
	credential textinput.Model
	width      int
}

func newLogin(s Styles, ws *workspace.Workspace) loginModel {
	ti := textinput.New()
	ti.Placeholder = "paste identity token"
	ti.EchoMode = textinput.EchoPassword
	ti.Width = 50
	return loginModel{ws: ws, styles: s, credential: ti}
}

func (m loginModel) capturing() bool {
	return m.credential.Focused()
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.credential.Focused() {
		switch keyMsg.String() {
		case "esc":
			m.credential.Blur()
			m.credential.SetValue("")
			return m, nil
		case "enter":
			id := m.ws.LoginWithCredential(m.credential.Value())
			m.credential.Blur()
			m.credential.SetValue("")
			return m, func() tea.Msg { return loginDoneMsg{name: id.Name} }
		}
		var cmd tea.Cmd
		m.credential, cmd = m.credential.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "g", "enter":
		id := m.ws.LoginGuest()
		return m, func() tea.Msg { return loginDoneMsg{name: id.Name} }
	case "c":
		cmd := m.credential.Focus()
		return m, cmd
	}
	return m, nil
}

func (m loginModel) ViewContent() string {
	var b strings.Builder

	maxWidth := m.width - 8
	if maxWidth < 40 {
		maxWidth = 80
	}
	b.WriteString(m.styles.Logo.Render(renderLogo(maxWidth)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("Visualize, plan and ship your development workflows."))
	b.WriteString("\n\n")

	if m.credential.Focused() {
		b.WriteString("  Credential: " + m.credential.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("  enter: sign in │ esc: back"))
		return b.String()
	}

	b.WriteString("  g  Continue as guest\n")
	b.WriteString("  c  Sign in with an identity credential\n")
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  q: quit"))
	return b.String()
}
