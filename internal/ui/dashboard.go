package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/flowview/internal/team"
	"github.com/simonbystrom/flowview/internal/workflow"
	"github.com/simonbystrom/flowview/internal/workspace"
)

type dashboardModel struct {
	ws     *workspace.Workspace
	styles Styles
	bar    progress.Model
	width  int
}

func newDashboard(s Styles, ws *workspace.Workspace) dashboardModel {
	return dashboardModel{
		ws:     ws,
		styles: s,
		bar: progress.New(
			progress.WithSolidFill(s.progressColor),
			progress.WithWidth(40),
		),
	}
}

func (m dashboardModel) ViewContent() string {
	var b strings.Builder
	st := m.ws.Stats()

	b.WriteString(m.styles.Header.Render("  Project Overview"))
	b.WriteString("\n\n")

	cards := []struct {
		label string
		value int
		style lipgloss.Style
	}{
		{"Total Steps", st.Total, m.styles.Header},
		{"Completed", st.Completed, m.styles.Status(workflow.StatusCompleted)},
		{"Active", st.InProgress, m.styles.Status(workflow.StatusInProgress)},
		{"Blocked", st.Blocked, m.styles.Status(workflow.StatusBlocked)},
	}
	for _, c := range cards {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", c.label, c.style.Render(fmt.Sprintf("%d", c.value))))
	}

	b.WriteString("\n")
	pct := st.Progress()
	b.WriteString(fmt.Sprintf("  Progress  %s %d%%\n", m.bar.ViewAs(float64(pct)/100), pct))

	b.WriteString("\n")
	b.WriteString(m.styles.Header.Render("  Recent Steps"))
	b.WriteString("\n")
	nodes := m.ws.Nodes()
	if len(nodes) == 0 {
		b.WriteString(m.styles.Dim.Render("  No steps yet. Apply a template or add one in Workflows."))
		b.WriteString("\n")
	}
	for i, n := range nodes {
		if i == 5 {
			b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  … %d more", len(nodes)-5)))
			b.WriteString("\n")
			break
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			padStyled(m.styles.Status(n.Status).Render(n.Status.Label()), 12),
			truncate(n.Title, 40)))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Header.Render("  Team"))
	b.WriteString("\n")
	for _, mem := range m.ws.Members() {
		b.WriteString(fmt.Sprintf("  %-3s %-20s %s\n",
			mem.Avatar,
			truncate(mem.Name, 20),
			m.styles.Presence(mem.Presence).Render(presenceDot(mem.Presence))))
	}

	return b.String()
}

func presenceDot(p team.Presence) string {
	return "● " + string(p)
}

// padStyled pads s to w visual columns. fmt width verbs count bytes, which
// breaks with ANSI escape codes from lipgloss.
func padStyled(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	if len(r) > max-3 {
		r = r[:max-3]
	}
	return string(r) + "..."
}

func (m *dashboardModel) resize(width int) {
	m.width = width
	bw := width/2 - 20
	if bw < 20 {
		bw = 20
	}
	if bw > 60 {
		bw = 60
	}
	m.bar.Width = bw
}
