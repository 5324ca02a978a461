package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/advisor"
	"github.com/simonbystrom/flowview/internal/workflow"
	"github.com/simonbystrom/flowview/internal/workspace"
)

// Advisor is the part of the advisory client the AI view needs.
type Advisor interface {
	GenerateSuggestion(ctx context.Context, description string) advisor.Suggestion
	AnalyzeWorkflow(ctx context.Context, nodes []workflow.Node) advisor.Analysis
}

// suggestionMsg and analysisMsg carry the sequence number of the request
// that produced them; replies to superseded requests are dropped.
type suggestionMsg struct {
	seq    int
	result advisor.Suggestion
}

type analysisMsg struct {
	seq    int
	result advisor.Analysis
}

type aiModel struct {
	ws      *workspace.Workspace
	advisor Advisor
	styles  Styles

	prompt  textarea.Model
	spinner spinner.Model

	busy   bool
	seq    int
	cancel context.CancelFunc

	output    string
	failed    bool
	suggested []workflow.Node
}

func newAI(s Styles, ws *workspace.Workspace, adv Advisor) aiModel {
	ta := textarea.New()
	ta.Placeholder = "e.g., Build a React app with automated testing and Vercel deployment..."
	ta.ShowLineNumbers = false
	ta.SetWidth(70)
	ta.SetHeight(4)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Header

	return aiModel{
		ws:      ws,
		advisor: adv,
		styles:  s,
		prompt:  ta,
		spinner: sp,
	}
}

// capturing reports whether keystrokes belong to the prompt editor.
func (m aiModel) capturing() bool {
	return m.prompt.Focused()
}

// abandon drops any in-flight request. Its reply will carry a stale
// sequence number and be ignored.
func (m aiModel) abandon() aiModel {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.seq++
	m.busy = false
	m.prompt.Blur()
	return m
}

func (m aiModel) Update(msg tea.Msg) (aiModel, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.finish()
		m.output = msg.result.Text
		m.failed = msg.result.Failed
		m.suggested = msg.result.Nodes
		return m, nil

	case analysisMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.finish()
		m.output = msg.result.Text
		m.failed = msg.result.Failed
		m.suggested = nil
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.prompt.Focused() {
			switch msg.String() {
			case "esc":
				m.prompt.Blur()
				return m, nil
			case "ctrl+g":
				return m.generate()
			}
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "i", "e":
			cmd := m.prompt.Focus()
			return m, cmd
		case "g":
			return m.generate()
		case "a":
			return m.analyze()
		case "enter", "y":
			if !m.busy && len(m.suggested) > 0 {
				nodes := m.suggested
				m.suggested = nil
				m.output = ""
				m.ws.ApplyWorkflow(nodes, "")
			}
		}
	}
	return m, nil
}

func (m *aiModel) finish() {
	m.busy = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *aiModel) start() (context.Context, int) {
	m.seq++
	m.busy = true
	m.failed = false
	m.output = ""
	m.suggested = nil
	m.prompt.Blur()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	return ctx, m.seq
}

func (m aiModel) generate() (aiModel, tea.Cmd) {
	description := strings.TrimSpace(m.prompt.Value())
	if m.busy || description == "" {
		return m, nil
	}
	ctx, seq := m.start()
	adv := m.advisor
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return suggestionMsg{seq: seq, result: adv.GenerateSuggestion(ctx, description)}
	})
}

func (m aiModel) analyze() (aiModel, tea.Cmd) {
	nodes := m.ws.Nodes()
	if m.busy || len(nodes) == 0 {
		return m, nil
	}
	ctx, seq := m.start()
	adv := m.advisor
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return analysisMsg{seq: seq, result: adv.AnalyzeWorkflow(ctx, nodes)}
	})
}

func (m aiModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("  AI Workflow Architect"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Dim.Render("  Describe your project:"))
	b.WriteString("\n")
	for _, line := range strings.Split(m.prompt.View(), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	if m.busy {
		b.WriteString("  " + m.spinner.View() + " Thinking...\n")
	} else if m.output != "" {
		style := m.styles.Success
		if m.failed {
			style = m.styles.Error
		}
		b.WriteString(style.Render("  " + m.output))
		b.WriteString("\n")
	}

	if len(m.suggested) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("  Suggested steps (%d)", len(m.suggested))))
		b.WriteString("\n")
		for i, n := range m.suggested {
			b.WriteString(fmt.Sprintf("  %2d  %s %s\n",
				i+1,
				padStyled(m.styles.Type(n.Type).Render(strings.ToUpper(string(n.Type))), 12),
				truncate(n.Title, 50)))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render("  enter: Apply AI Suggestions"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.prompt.Focused() {
		b.WriteString(m.styles.Help.Render("  ctrl+g: generate │ esc: stop editing"))
	} else {
		b.WriteString(m.styles.Help.Render("  i: edit prompt │ g: generate workflow │ a: analyze current flow"))
	}
	return b.String()
}
