package ui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/flowview/internal/advisor"
	"github.com/simonbystrom/flowview/internal/config"
	"github.com/simonbystrom/flowview/internal/session"
	"github.com/simonbystrom/flowview/internal/workflow"
	"github.com/simonbystrom/flowview/internal/workspace"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (kv *memKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *memKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.data == nil {
		kv.data = map[string]string{}
	}
	kv.data[key] = value
	return nil
}

func (kv *memKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

type fakeAdvisor struct {
	suggestion advisor.Suggestion
	analysis   advisor.Analysis
	analyzed   []workflow.Node
}

func (f *fakeAdvisor) GenerateSuggestion(ctx context.Context, description string) advisor.Suggestion {
	return f.suggestion
}

func (f *fakeAdvisor) AnalyzeWorkflow(ctx context.Context, nodes []workflow.Node) advisor.Analysis {
	f.analyzed = nodes
	return f.analysis
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m AppModel, s string) AppModel {
	t.Helper()
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(AppModel)
	}
	return m
}

func send(t *testing.T, m AppModel, msgs ...tea.Msg) AppModel {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(AppModel)
	}
	return m
}

func newTestApp(t *testing.T) (AppModel, *workspace.Workspace, *fakeAdvisor) {
	t.Helper()
	ws := workspace.New(session.Restore(&memKV{}), nil)
	adv := &fakeAdvisor{}
	return NewApp(config.Default(), ws, adv), ws, adv
}

func newLoggedInApp(t *testing.T) (AppModel, *workspace.Workspace, *fakeAdvisor) {
	t.Helper()
	m, ws, adv := newTestApp(t)
	ws.LoginGuest()
	return m, ws, adv
}

func TestAppModel_KeyQ_Quits(t *testing.T) {
	m, _, _ := newLoggedInApp(t)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected a command from 'q' key")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestAppModel_LoggedOutShowsLogin(t *testing.T) {
	m, ws, _ := newTestApp(t)

	if !strings.Contains(m.View(), "Continue as guest") {
		t.Error("logged-out view should offer guest login")
	}

	updated, cmd := m.Update(key("g"))
	m = updated.(AppModel)
	if ws.State() != session.LoggedIn {
		t.Fatalf("State() = %v, want LoggedIn", ws.State())
	}
	if cmd == nil {
		t.Fatal("expected loginDoneMsg command")
	}
	m = send(t, m, cmd())
	if !strings.Contains(m.notice, session.Guest.Name) {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestAppModel_NumberKeysSwitchTabs(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)

	for i, tab := range workspace.Tabs {
		m = send(t, m, key(string(rune('1'+i))))
		if ws.Tab() != tab {
			t.Errorf("after %d: Tab() = %q, want %q", i+1, ws.Tab(), tab)
		}
	}
}

func TestAppModel_TabCycles(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if ws.Tab() != workspace.TabSettings {
		t.Errorf("shift+tab from dashboard = %q, want settings", ws.Tab())
	}
	send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if ws.Tab() != workspace.TabDashboard {
		t.Errorf("tab from settings = %q, want dashboard", ws.Tab())
	}
}

func TestAppModel_SaveShowsAcknowledgment(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	before := ws.Nodes()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	want := `Success: "Global Operations API" configurations have been synced to the cloud.`
	if m.notice != want {
		t.Errorf("notice = %q, want %q", m.notice, want)
	}
	if len(ws.Nodes()) != len(before) {
		t.Error("save changed the workflow")
	}
}

func TestAppModel_ResetNeedsConfirmation(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	ws.AddNode()

	m = send(t, m, tea.WindowSizeMsg{Width: 200, Height: 50}, key("R"))
	if !ws.ResetPending() {
		t.Fatal("R should request a reset")
	}
	if len(ws.Nodes()) != 4 {
		t.Fatal("workflow changed before confirmation")
	}
	if !strings.Contains(m.View(), workspace.ResetPrompt) {
		t.Error("confirmation prompt not shown")
	}

	// Global keys are suspended while the prompt is open.
	m = send(t, m, key("2"))
	if ws.Tab() != workspace.TabDashboard {
		t.Errorf("Tab() = %q while confirming", ws.Tab())
	}

	updated, cmd := m.Update(key("y"))
	m = updated.(AppModel)
	if cmd == nil {
		t.Fatal("expected resetConfirmedMsg command")
	}
	if _, ok := cmd().(resetConfirmedMsg); !ok {
		t.Errorf("expected resetConfirmedMsg, got %T", cmd())
	}
	if len(ws.Nodes()) != 3 || ws.ResetPending() {
		t.Errorf("after confirm: %d nodes, pending=%v", len(ws.Nodes()), ws.ResetPending())
	}
}

func TestAppModel_ResetCancelled(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	ws.SetName("Keep me")

	m = send(t, m, key("R"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(resetCancelledMsg); !ok {
		t.Errorf("expected resetCancelledMsg, got %T", cmd())
	}
	if ws.Name() != "Keep me" || ws.ResetPending() {
		t.Errorf("cancel changed state: name=%q pending=%v", ws.Name(), ws.ResetPending())
	}
}

func TestAppModel_LogoutReturnsToLogin(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	m = send(t, m, key("4"))

	m = send(t, m, key("L"))
	if ws.State() != session.LoggedOut {
		t.Fatal("L should log out")
	}
	if ws.Tab() != workspace.TabDashboard {
		t.Errorf("Tab() = %q after logout", ws.Tab())
	}
	if !strings.Contains(m.View(), "Continue as guest") {
		t.Error("login view not shown after logout")
	}
}

func TestAppModel_GlobalKeysSuspendedWhileTyping(t *testing.T) {
	m, ws, _ := newLoggedInApp(t)
	m = send(t, m, key("5"), key("i"))
	if !m.capturing() {
		t.Fatal("invite input should capture keys")
	}

	m = typeText(t, m, "q1")
	if ws.Tab() != workspace.TabTeam {
		t.Errorf("Tab() = %q, typing should not switch tabs", ws.Tab())
	}
	if got := m.team.input.Value(); got != "q1" {
		t.Errorf("input = %q, want %q", got, "q1")
	}
}

func TestAppModel_WindowSizeMsg(t *testing.T) {
	m, _, _ := newLoggedInApp(t)

	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
	if m.login.width != 120 {
		t.Errorf("login width = %d", m.login.width)
	}
}

func TestAppModel_HeaderShowsNameAndIdentity(t *testing.T) {
	m, _, _ := newLoggedInApp(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	v := m.View()

	for _, want := range []string{workflow.DefaultName, session.Guest.Name, session.Guest.Email} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
