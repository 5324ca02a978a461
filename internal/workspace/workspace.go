// Package workspace owns all shared application state: the workflow, the
// roster, the session and the active tab. Views read from it and call its
// mutators; nothing else keeps an authoritative copy.
//
// A Workspace is driven from a single goroutine (the bubbletea event loop or
// a CLI command).
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/simonbystrom/flowview/internal/session"
	"github.com/simonbystrom/flowview/internal/storage"
	"github.com/simonbystrom/flowview/internal/team"
	"github.com/simonbystrom/flowview/internal/template"
	"github.com/simonbystrom/flowview/internal/workflow"
)

type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabWorkflows Tab = "workflows"
	TabAI        Tab = "ai"
	TabTemplates Tab = "templates"
	TabTeam      Tab = "team"
	TabSettings  Tab = "settings"
)

// Tabs lists the tabs in sidebar order.
var Tabs = []Tab{TabDashboard, TabWorkflows, TabAI, TabTemplates, TabTeam, TabSettings}

// ResetPrompt is shown before the workflow is reset.
const ResetPrompt = "Reset current workflow to its initial state? All unsaved changes will be lost."

var ErrUnknownTemplate = errors.New("unknown template")

// SnapshotStore records saved workflows.
type SnapshotStore interface {
	CreateSnapshot(snap *storage.Snapshot) (int64, error)
}

type Workspace struct {
	store     *workflow.Store
	roster    *team.Roster
	session   *session.Session
	snapshots SnapshotStore

	tab          Tab
	resetPending bool
	strict       bool
}

// New builds a workspace with the startup workflow and roster. snapshots may
// be nil, in which case Save only acknowledges.
func New(sess *session.Session, snapshots SnapshotStore) *Workspace {
	return &Workspace{
		store:     workflow.NewStore(),
		roster:    team.NewRoster(),
		session:   sess,
		snapshots: snapshots,
		tab:       TabDashboard,
	}
}

func (w *Workspace) Nodes() []workflow.Node { return w.store.Nodes() }
func (w *Workspace) Name() string           { return w.store.Name() }
func (w *Workspace) Stats() workflow.Stats  { return w.store.Stats() }
func (w *Workspace) Members() []team.Member { return w.roster.Members() }

func (w *Workspace) SetStatus(id string, status workflow.Status) bool {
	return w.store.SetStatus(id, status)
}

func (w *Workspace) AddNode() workflow.Node {
	n := w.store.AddNode()
	slog.Info("node added", "id", n.ID)
	return n
}

func (w *Workspace) SetName(name string) {
	w.store.SetName(name)
}

// ApplyWorkflow replaces the workflow and switches to the workflows tab.
// Templates, AI suggestions and imports all land here.
func (w *Workspace) ApplyWorkflow(nodes []workflow.Node, name string) {
	w.store.ApplyWorkflow(nodes, name)
	w.tab = TabWorkflows
	slog.Info("workflow applied", "name", w.store.Name(), "nodes", len(nodes))
}

func (w *Workspace) ApplyTemplate(id string) (template.Template, error) {
	t, ok := template.Get(id)
	if !ok {
		return template.Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	w.ApplyWorkflow(t.Nodes, t.Name)
	return t, nil
}

// RequestReset arms a reset. Nothing changes until ConfirmReset.
func (w *Workspace) RequestReset() { w.resetPending = true }

func (w *Workspace) ResetPending() bool { return w.resetPending }

func (w *Workspace) CancelReset() { w.resetPending = false }

// ConfirmReset restores the startup workflow if a reset was requested and
// reports whether it did.
func (w *Workspace) ConfirmReset() bool {
	if !w.resetPending {
		return false
	}
	w.resetPending = false
	w.store.Reset()
	slog.Info("workflow reset")
	return true
}

func (w *Workspace) Invite(email string) (team.Member, error) {
	return w.roster.Invite(email)
}

// Save acknowledges the current workflow and records a snapshot of it. A
// failed snapshot is logged; the acknowledgment is returned regardless.
func (w *Workspace) Save() string {
	name := w.store.Name()
	nodes := w.store.Nodes()

	if w.snapshots != nil {
		if err := w.snapshot(name, nodes); err != nil {
			slog.Warn("snapshot failed", "name", name, "error", err)
		}
	}
	return fmt.Sprintf("Success: \"%s\" configurations have been synced to the cloud.", name)
}

func (w *Workspace) snapshot(name string, nodes []workflow.Node) error {
	data, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	snap := &storage.Snapshot{Name: name, NodeCount: len(nodes), Nodes: data}
	if id, ok := w.session.Identity(); ok {
		snap.SavedBy = id.Email
	}
	id, err := w.snapshots.CreateSnapshot(snap)
	if err != nil {
		return err
	}
	slog.Info("snapshot recorded", "id", id, "name", name)
	return nil
}

func (w *Workspace) State() session.State { return w.session.State() }

func (w *Workspace) Identity() (session.Identity, bool) { return w.session.Identity() }

func (w *Workspace) LoginGuest() session.Identity { return w.session.LoginGuest() }

func (w *Workspace) LoginWithCredential(token string) session.Identity {
	return w.session.LoginWithCredential(token)
}

// Logout signs out and returns to the dashboard tab.
func (w *Workspace) Logout() {
	w.session.Logout()
	w.tab = TabDashboard
	w.resetPending = false
}

func (w *Workspace) Tab() Tab { return w.tab }

func (w *Workspace) SetTab(t Tab) { w.tab = t }

// Strict reports the "strict enforcement" preference. It is shown in
// settings only; status changes are never validated against it.
func (w *Workspace) Strict() bool { return w.strict }

func (w *Workspace) ToggleStrict() { w.strict = !w.strict }
