package template

import (
	"testing"

	"github.com/simonbystrom/flowview/internal/workflow"
)

func TestList(t *testing.T) {
	tpls := List()
	if len(tpls) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(tpls))
	}

	wantNames := []string{"SaaS MVP Kickstart", "Mobile App Lifecycle", "Library/SDK Release"}
	for i, tpl := range tpls {
		if tpl.Name != wantNames[i] {
			t.Errorf("template %d name = %q, want %q", i, tpl.Name, wantNames[i])
		}
		if len(tpl.Nodes) != 4 {
			t.Errorf("template %s has %d nodes, want 4", tpl.ID, len(tpl.Nodes))
		}
	}
}

func TestGet(t *testing.T) {
	tpl, ok := Get("t1")
	if !ok {
		t.Fatal("Get(t1) not found")
	}
	first := tpl.Nodes[0]
	if first.Title != "Market Research" || first.Type != workflow.TypePlanning || first.Status != workflow.StatusCompleted {
		t.Errorf("first node = %+v", first)
	}
	if tpl.Nodes[2].Description != "Express.js & MongoDB init." {
		t.Errorf("description = %q", tpl.Nodes[2].Description)
	}

	if _, ok := Get("t9"); ok {
		t.Error("Get(t9) should not be found")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	tpl, _ := Get("t2")
	tpl.Nodes[0].Status = workflow.StatusBlocked

	again, _ := Get("t2")
	if again.Nodes[0].Status != workflow.StatusTodo {
		t.Error("mutating a returned template changed the catalog")
	}
}

func TestParse_RejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "- name: x\n  nodes: []\n"},
		{"duplicate id", "- id: a\n- id: a\n"},
		{"unknown type", "- id: a\n  nodes:\n    - {id: '1', type: design, status: todo}\n"},
		{"unknown status", "- id: a\n  nodes:\n    - {id: '1', type: review, status: done}\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		if _, err := parse([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
