package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/workspace"
)

type settingsModel struct {
	ws     *workspace.Workspace
	styles Styles
	title  textinput.Model
	public bool
}

func newSettings(s Styles, ws *workspace.Workspace) settingsModel {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 40
	return settingsModel{ws: ws, styles: s, title: ti, public: true}
}

func (m settingsModel) capturing() bool {
	return m.title.Focused()
}

func (m settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.title.Focused() {
		switch keyMsg.String() {
		case "esc":
			m.title.Blur()
			return m, nil
		case "enter":
			m.ws.SetName(m.title.Value())
			m.title.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "e", "enter":
		m.title.SetValue(m.ws.Name())
		m.title.CursorEnd()
		cmd := m.title.Focus()
		return m, cmd
	case "s":
		m.ws.ToggleStrict()
	case "v":
		m.public = !m.public
	}
	return m, nil
}

func toggle(on bool) string {
	if on {
		return "[on] "
	}
	return "[off]"
}

func (m settingsModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("  Workspace Settings"))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("  Configure project visibility and pipeline rules."))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Header.Render("  General Configuration"))
	b.WriteString("\n")
	if m.title.Focused() {
		b.WriteString("  Project Title: " + m.title.View())
	} else {
		b.WriteString("  Project Title: " + m.ws.Name())
	}
	b.WriteString("\n\n")

	b.WriteString("  " + toggle(m.public) + " Public Visibility\n")
	b.WriteString(m.styles.Dim.Render("        Collaborators can view and suggest changes."))
	b.WriteString("\n")
	b.WriteString("  " + toggle(m.ws.Strict()) + " Strict Step Enforcement\n")
	b.WriteString(m.styles.Dim.Render("        Require completion of previous steps before starting next ones."))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Header.Render("  Security & Persistence"))
	b.WriteString("\n")
	b.WriteString("  Automatic Backup  " + m.styles.Success.Render("ACTIVE"))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("        A snapshot is recorded on every save (see `flowview history`)."))
	b.WriteString("\n\n")

	if m.title.Focused() {
		b.WriteString(m.styles.Help.Render("  enter: apply │ esc: cancel"))
	} else {
		b.WriteString(m.styles.Help.Render("  e: edit title │ v: toggle visibility │ s: toggle strict enforcement"))
	}
	return b.String()
}
