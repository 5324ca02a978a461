package workflow

import (
	"reflect"
	"sync"
	"testing"
)

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore()

	if s.Name() != DefaultName {
		t.Errorf("Name() = %q, want %q", s.Name(), DefaultName)
	}
	nodes := s.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("len(Nodes()) = %d, want 3", len(nodes))
	}
	if nodes[0].Title != "Requirement Analysis" || nodes[0].Status != StatusCompleted {
		t.Errorf("first node = %+v", nodes[0])
	}
	if nodes[1].Status != StatusInProgress {
		t.Errorf("second node status = %q, want %q", nodes[1].Status, StatusInProgress)
	}
}

func TestStore_SetStatus_OnlyTargetChanges(t *testing.T) {
	for _, target := range DefaultNodes() {
		for _, status := range Statuses {
			s := NewStore()
			before := s.Nodes()

			if !s.SetStatus(target.ID, status) {
				t.Fatalf("SetStatus(%q) returned false for existing node", target.ID)
			}

			after := s.Nodes()
			for i := range before {
				want := before[i]
				if want.ID == target.ID {
					want.Status = status
				}
				if after[i] != want {
					t.Errorf("SetStatus(%q, %q): node %d = %+v, want %+v", target.ID, status, i, after[i], want)
				}
			}
			if s.Name() != DefaultName {
				t.Errorf("SetStatus changed name to %q", s.Name())
			}
		}
	}
}

func TestStore_SetStatus_UnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	before := s.Nodes()

	if s.SetStatus("nonexistent", StatusBlocked) {
		t.Error("SetStatus should return false for unknown id")
	}
	if !reflect.DeepEqual(s.Nodes(), before) {
		t.Error("SetStatus with unknown id modified the store")
	}
}

func TestStore_SetStatus_AnyTransitionAllowed(t *testing.T) {
	s := NewStore()
	// "3" is todo; jumping straight to completed ahead of "2" is allowed.
	s.SetStatus("3", StatusCompleted)
	s.SetStatus("3", StatusBlocked)
	s.SetStatus("3", StatusTodo)

	if got := s.Nodes()[2].Status; got != StatusTodo {
		t.Errorf("status = %q, want %q", got, StatusTodo)
	}
}

func TestStore_AddNode(t *testing.T) {
	s := NewStore()
	n := s.AddNode()

	nodes := s.Nodes()
	if len(nodes) != 4 {
		t.Fatalf("len = %d, want 4", len(nodes))
	}
	if nodes[3] != n {
		t.Errorf("appended node = %+v, want %+v", nodes[3], n)
	}
	if n.Title != "New Workflow Step" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Type != TypeDevelopment || n.Status != StatusTodo {
		t.Errorf("type/status = %q/%q", n.Type, n.Status)
	}
	if len(n.ID) != 9 {
		t.Errorf("ID %q has length %d, want 9", n.ID, len(n.ID))
	}

	other := s.AddNode()
	if other.ID == n.ID {
		t.Error("AddNode generated duplicate ids")
	}
}

func TestStore_ApplyWorkflow_Idempotent(t *testing.T) {
	nodes := []Node{
		{ID: "a", Title: "A", Type: TypePlanning, Status: StatusTodo},
		{ID: "b", Title: "B", Type: TypeDeployment, Status: StatusBlocked},
	}

	s := NewStore()
	s.ApplyWorkflow(nodes, "Mine")
	first, firstName := s.Nodes(), s.Name()

	s.ApplyWorkflow(nodes, "Mine")
	if !reflect.DeepEqual(s.Nodes(), first) || s.Name() != firstName {
		t.Error("second ApplyWorkflow with identical arguments changed the state")
	}
	if firstName != "Mine" {
		t.Errorf("Name() = %q, want %q", firstName, "Mine")
	}
}

func TestStore_ApplyWorkflow_FallbackName(t *testing.T) {
	s := NewStore()
	s.SetName("Custom")
	s.ApplyWorkflow(nil, "")

	if s.Name() != FallbackName {
		t.Errorf("Name() = %q, want %q", s.Name(), FallbackName)
	}
	if len(s.Nodes()) != 0 {
		t.Errorf("expected empty workflow, got %d nodes", len(s.Nodes()))
	}
}

func TestStore_ApplyWorkflow_CopiesInput(t *testing.T) {
	nodes := []Node{{ID: "a", Type: TypeTesting, Status: StatusTodo}}
	s := NewStore()
	s.ApplyWorkflow(nodes, "x")

	nodes[0].Status = StatusBlocked
	if s.Nodes()[0].Status != StatusTodo {
		t.Error("store aliases the slice passed to ApplyWorkflow")
	}
}

func TestStore_ResetAfterApply(t *testing.T) {
	s := NewStore()
	s.Reset()
	s.ApplyWorkflow([]Node{{ID: "x", Type: TypeReview, Status: StatusBlocked}}, "X")
	s.AddNode()
	s.SetStatus("x", StatusCompleted)
	s.Reset()

	if !reflect.DeepEqual(s.Nodes(), DefaultNodes()) {
		t.Errorf("Nodes() after reset = %+v", s.Nodes())
	}
	if s.Name() != DefaultName {
		t.Errorf("Name() after reset = %q", s.Name())
	}
}

func TestStore_Stats(t *testing.T) {
	tests := []struct {
		name         string
		nodes        []Node
		wantProgress int
		want         Stats
	}{
		{"empty", nil, 0, Stats{}},
		{"defaults", DefaultNodes(), 33, Stats{Total: 3, Completed: 1, InProgress: 1, Todo: 1}},
		{"two of three", []Node{
			{ID: "1", Status: StatusCompleted},
			{ID: "2", Status: StatusCompleted},
			{ID: "3", Status: StatusBlocked},
		}, 67, Stats{Total: 3, Completed: 2, Blocked: 1}},
	}
	for _, tt := range tests {
		s := NewStore()
		s.ApplyWorkflow(tt.nodes, "t")
		got := s.Stats()
		if got != tt.want {
			t.Errorf("%s: Stats() = %+v, want %+v", tt.name, got, tt.want)
		}
		if got.Progress() != tt.wantProgress {
			t.Errorf("%s: Progress() = %d, want %d", tt.name, got.Progress(), tt.wantProgress)
		}
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := s.AddNode()
			s.SetStatus(n.ID, StatusCompleted)
			s.Nodes()
			s.Stats()
		}()
	}
	wg.Wait()

	if got := s.Stats().Total; got != 53 {
		t.Errorf("Total = %d, want 53", got)
	}
}
