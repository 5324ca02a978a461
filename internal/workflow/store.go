package workflow

import (
	"math"
	"sync"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultName is the workflow name a fresh store starts with.
	DefaultName = "Global Operations API"

	// FallbackName labels a workflow applied without a name of its own.
	FallbackName = "AI Optimized Strategy"

	newNodeTitle       = "New Workflow Step"
	newNodeDescription = "Define the objectives and technical requirements for this step."

	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	nodeIDLen  = 9
)

// DefaultNodes returns the nodes a fresh store starts with.
func DefaultNodes() []Node {
	return []Node{
		{
			ID:          "1",
			Title:       "Requirement Analysis",
			Description: "Gather user stories and technical requirements for the MVP.",
			Type:        TypePlanning,
			Status:      StatusCompleted,
		},
		{
			ID:          "2",
			Title:       "Core API Development",
			Description: "Design and implement the primary REST/GraphQL endpoints.",
			Type:        TypeDevelopment,
			Status:      StatusInProgress,
		},
		{
			ID:          "3",
			Title:       "Unit Testing",
			Description: "Achieve 80% code coverage on core logic modules.",
			Type:        TypeTesting,
			Status:      StatusTodo,
		},
	}
}

// Store holds the ordered node sequence and the workflow's display name.
type Store struct {
	mu    sync.RWMutex
	nodes []Node
	name  string
}

func NewStore() *Store {
	return &Store{
		nodes: DefaultNodes(),
		name:  DefaultName,
	}
}

// Nodes returns a copy of the node sequence in insertion order.
func (s *Store) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNodes(s.nodes)
}

func (s *Store) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Store) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// SetStatus replaces the status of the node with the given id. An unknown id
// leaves the store untouched and reports false; it is not an error.
func (s *Store) SetStatus(id string, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes[i].Status = status
			return true
		}
	}
	return false
}

// AddNode appends a placeholder development step and returns it.
func (s *Store) AddNode() Node {
	n := Node{
		ID:          NewNodeID(),
		Title:       newNodeTitle,
		Description: newNodeDescription,
		Type:        TypeDevelopment,
		Status:      StatusTodo,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, n)
	return n
}

// ApplyWorkflow replaces the whole sequence. An empty name selects
// FallbackName rather than keeping the current one.
func (s *Store) ApplyWorkflow(nodes []Node, name string) {
	if name == "" {
		name = FallbackName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = cloneNodes(nodes)
	s.name = name
}

// Reset restores the startup nodes and name. Callers are expected to have
// obtained the user's confirmation first.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = DefaultNodes()
	s.name = DefaultName
}

// Stats summarizes node counts for the dashboard.
type Stats struct {
	Total      int
	Completed  int
	InProgress int
	Blocked    int
	Todo       int
}

// Progress is the completion percentage, rounded. An empty workflow is 0.
func (st Stats) Progress() int {
	if st.Total == 0 {
		return 0
	}
	return int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.nodes)}
	for _, n := range s.nodes {
		switch n.Status {
		case StatusCompleted:
			st.Completed++
		case StatusInProgress:
			st.InProgress++
		case StatusBlocked:
			st.Blocked++
		case StatusTodo:
			st.Todo++
		}
	}
	return st
}

func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

// NewNodeID returns a fresh 9-character lowercase alphanumeric id.
func NewNodeID() string {
	return nanoid.MustGenerate(idAlphabet, nodeIDLen)
}
