package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/template"
	"github.com/simonbystrom/flowview/internal/workspace"
)

type templatesModel struct {
	ws        *workspace.Workspace
	styles    Styles
	templates []template.Template
	cursor    int
}

func newTemplates(s Styles, ws *workspace.Workspace) templatesModel {
	return templatesModel{ws: ws, styles: s, templates: template.List()}
}

func (m templatesModel) Update(msg tea.Msg) (templatesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.templates)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.templates) > 0 {
			// The catalog was loaded from the same source, so the id exists.
			_, _ = m.ws.ApplyTemplate(m.templates[m.cursor].ID)
		}
	}
	return m, nil
}

func (m templatesModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("  Workflow Templates"))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("  Accelerate your setup with battle-tested software flows."))
	b.WriteString("\n\n")

	for i, t := range m.templates {
		title := fmt.Sprintf("  %s  (%d steps)", t.Name, len(t.Nodes))
		if i == m.cursor {
			title = m.styles.Selected.Render(title)
		} else {
			title = m.styles.Title.UnsetPadding().Render(title)
		}
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("    " + t.Description))
		b.WriteString("\n")

		initials := make([]string, len(t.Nodes))
		for j, n := range t.Nodes {
			initials[j] = m.styles.Type(n.Type).Render(strings.ToUpper(string(n.Type[:1])))
		}
		b.WriteString("    " + strings.Join(initials, " "))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Help.Render("  j/k: move │ enter: use this template"))
	return b.String()
}
