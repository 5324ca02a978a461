package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/workflow"
	"github.com/simonbystrom/flowview/internal/workspace"
)

type workflowsModel struct {
	ws     *workspace.Workspace
	styles Styles
	cursor int
}

func newWorkflows(s Styles, ws *workspace.Workspace) workflowsModel {
	return workflowsModel{ws: ws, styles: s}
}

var statusKeys = map[string]workflow.Status{
	"t": workflow.StatusTodo,
	"p": workflow.StatusInProgress,
	"c": workflow.StatusCompleted,
	"b": workflow.StatusBlocked,
}

func (m workflowsModel) Update(msg tea.Msg) (workflowsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	nodes := m.ws.Nodes()
	m.clamp(len(nodes))

	switch key := keyMsg.String(); key {
	case "j", "down":
		if m.cursor < len(nodes)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(nodes) > 0 {
			m.cursor = len(nodes) - 1
		}
	case "enter", " ":
		if len(nodes) > 0 {
			n := nodes[m.cursor]
			m.ws.SetStatus(n.ID, n.Status.Next())
		}
	case "a":
		m.ws.AddNode()
		m.cursor = len(nodes)
	default:
		if st, ok := statusKeys[key]; ok && len(nodes) > 0 {
			m.ws.SetStatus(nodes[m.cursor].ID, st)
		}
	}
	return m, nil
}

func (m *workflowsModel) clamp(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m workflowsModel) ViewContent() string {
	var b strings.Builder
	nodes := m.ws.Nodes()
	m.clamp(len(nodes))

	b.WriteString(m.styles.Header.Render(fmt.Sprintf("  Pipeline: %s", m.ws.Name())))
	b.WriteString("\n\n")

	if len(nodes) == 0 {
		b.WriteString(m.styles.Dim.Render("  This workflow has no steps. Press a to add one."))
		b.WriteString("\n")
	}

	for i, n := range nodes {
		if i > 0 {
			b.WriteString(m.styles.Separator.Render("    │"))
			b.WriteString("\n")
		}
		row := fmt.Sprintf("  %2d  %s %s  %s",
			i+1,
			padStyled(m.styles.Type(n.Type).Render(strings.ToUpper(string(n.Type))), 12),
			padStyled(m.styles.Status(n.Status).Render(n.Status.Label()), 12),
			truncate(n.Title, 40),
		)
		if i == m.cursor {
			row = m.styles.Selected.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
		if n.Description != "" {
			b.WriteString(m.styles.Dim.Render("                                " + truncate(n.Description, 60)))
			b.WriteString("\n")
		}
		if n.Owner != "" {
			b.WriteString(m.styles.Dim.Render("                                owner: " + n.Owner))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  j/k: move │ enter: next status │ t/p/c/b: todo/in progress/completed/blocked │ a: add step"))
	return b.String()
}
