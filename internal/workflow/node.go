package workflow

import "strings"

// Type is the pipeline stage a node belongs to.
type Type string

const (
	TypePlanning    Type = "planning"
	TypeDevelopment Type = "development"
	TypeTesting     Type = "testing"
	TypeReview      Type = "review"
	TypeDeployment  Type = "deployment"
)

// Types lists every node type in pipeline order.
var Types = []Type{TypePlanning, TypeDevelopment, TypeTesting, TypeReview, TypeDeployment}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// Statuses lists every node status in the order the UI cycles through them.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted, StatusBlocked}

// Label returns the human-readable form shown in status pickers.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusBlocked:
		return "Blocked"
	default:
		return string(s)
	}
}

// Next returns the status that follows s in Statuses, wrapping around.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusTodo
}

// Node is one stage of a development pipeline.
type Node struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        Type   `json:"type" yaml:"type"`
	Status      Status `json:"status" yaml:"status"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// ParseType maps s onto the closed Type enumeration. ok is false when s is
// not a known type, in which case TypeDevelopment is returned.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return TypeDevelopment, false
}

// ParseStatus maps s onto the closed Status enumeration. ok is false when s
// is not a known status, in which case StatusTodo is returned.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return StatusTodo, false
}

// Normalize returns n with its type and status forced into the closed
// enumerations. Unknown values fall back to development/todo.
func Normalize(n Node) Node {
	n.Type, _ = ParseType(string(n.Type))
	n.Status, _ = ParseStatus(string(n.Status))
	return n
}
