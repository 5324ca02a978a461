package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/advisor"
	"github.com/simonbystrom/flowview/internal/workflow"
	"github.com/simonbystrom/flowview/internal/workspace"
)

// runBatch executes cmd and any batched commands, returning every message.
func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runBatch(c)...)
	}
	return out
}

func suggested() []workflow.Node {
	return []workflow.Node{
		{ID: "s1", Title: "Scaffold", Type: workflow.TypePlanning, Status: workflow.StatusTodo},
		{ID: "s2", Title: "Ship", Type: workflow.TypeDeployment, Status: workflow.StatusTodo},
	}
}

func TestAI_GenerateAndApply(t *testing.T) {
	m, ws, adv := newLoggedInApp(t)
	adv.suggestion = advisor.Suggestion{Text: "Two steps.", Nodes: suggested()}

	m = send(t, m, key("3"), key("i"))
	m = typeText(t, m, "react app")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = updated.(AppModel)

	if !m.ai.busy {
		t.Fatal("expected busy after ctrl+g")
	}
	if !strings.Contains(m.View(), "Thinking...") {
		t.Error("busy indicator not shown")
	}

	var reply tea.Msg
	for _, msg := range runBatch(cmd) {
		if _, ok := msg.(suggestionMsg); ok {
			reply = msg
		}
	}
	if reply == nil {
		t.Fatal("no suggestionMsg produced")
	}
	m = send(t, m, reply)
	if m.ai.busy {
		t.Error("still busy after reply")
	}
	if !strings.Contains(m.View(), "Apply AI Suggestions") {
		t.Error("apply action not offered")
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if ws.Name() != workflow.FallbackName {
		t.Errorf("Name() = %q, want %q", ws.Name(), workflow.FallbackName)
	}
	if len(ws.Nodes()) != 2 || ws.Nodes()[0].ID != "s1" {
		t.Errorf("Nodes() = %+v", ws.Nodes())
	}
	if ws.Tab() != workspace.TabWorkflows {
		t.Errorf("Tab() = %q, want workflows", ws.Tab())
	}
}

func TestAI_EmptyPromptDoesNothing(t *testing.T) {
	m, _, _ := newLoggedInApp(t)
	m = send(t, m, key("3"))

	updated, cmd := m.Update(key("g"))
	m = updated.(AppModel)
	if cmd != nil || m.ai.busy {
		t.Error("generate with an empty prompt should be a no-op")
	}
}

func TestAI_StaleReplyDropped(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	m = send(t, m, key("3"))
	m.ai.prompt.SetValue("anything")
	m = send(t, m, key("g"))
	stale := m.ai.seq

	// Leaving the tab abandons the request.
	m = send(t, m, key("1"))
	if m.ai.busy {
		t.Error("request not abandoned on tab switch")
	}

	m = send(t, m, suggestionMsg{seq: stale, result: advisor.Suggestion{Text: "late", Nodes: suggested()}})
	if len(m.ai.suggested) != 0 || m.ai.output != "" {
		t.Error("stale reply was applied to the view")
	}
	if ws.Name() != workflow.DefaultName {
		t.Error("stale reply changed the workflow")
	}
}

func TestAI_AnalyzeShowsText(t *testing.T) {
	m, _, adv := newLoggedInApp(t)
	adv.analysis = advisor.Analysis{Text: "Add a review step."}

	m = send(t, m, key("3"))
	updated, cmd := m.Update(key("a"))
	m = updated.(AppModel)
	for _, msg := range runBatch(cmd) {
		if _, ok := msg.(analysisMsg); ok {
			m = send(t, m, msg)
		}
	}

	if len(adv.analyzed) != 3 {
		t.Errorf("analyzed %d nodes, want 3", len(adv.analyzed))
	}
	if !strings.Contains(m.ai.ViewContent(), "Add a review step.") {
		t.Error("analysis text not shown")
	}
}

func TestAI_AnalyzeEmptyWorkflowDoesNothing(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	ws.ApplyWorkflow(nil, "empty")
	ws.SetTab(workspace.TabAI)

	_, cmd := m.Update(key("a"))
	if cmd != nil {
		t.Error("analyze of an empty workflow should be a no-op")
	}
}

func TestAI_FailureShownAsError(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	m = send(t, m, key("3"))
	m.ai.prompt.SetValue("x")
	m = send(t, m, key("g"))

	m = send(t, m, suggestionMsg{seq: m.ai.seq, result: advisor.Suggestion{Text: advisor.FailedSuggestion, Failed: true}})
	if !m.ai.failed {
		t.Error("failed flag not set")
	}
	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if ws.Name() != workflow.DefaultName {
		t.Error("failed suggestion was applied")
	}
}
