// Package template holds the fixed catalog of starter workflows.
package template

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/simonbystrom/flowview/internal/workflow"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Template is a named, immutable bundle of workflow nodes.
type Template struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Nodes       []workflow.Node `yaml:"nodes" json:"nodes"`
}

var catalog = mustParse(catalogYAML)

func mustParse(data []byte) []Template {
	tpls, err := parse(data)
	if err != nil {
		panic(fmt.Sprintf("template: embedded catalog: %v", err))
	}
	return tpls
}

func parse(data []byte) ([]Template, error) {
	var tpls []Template
	if err := yaml.Unmarshal(data, &tpls); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	seen := make(map[string]bool, len(tpls))
	for _, t := range tpls {
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Name)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
		for _, n := range t.Nodes {
			if _, ok := workflow.ParseType(string(n.Type)); !ok {
				return nil, fmt.Errorf("template %s node %s: unknown type %q", t.ID, n.ID, n.Type)
			}
			if _, ok := workflow.ParseStatus(string(n.Status)); !ok {
				return nil, fmt.Errorf("template %s node %s: unknown status %q", t.ID, n.ID, n.Status)
			}
		}
	}
	return tpls, nil
}

// List returns the catalog in display order. The result is a deep copy.
func List() []Template {
	out := make([]Template, len(catalog))
	for i, t := range catalog {
		out[i] = clone(t)
	}
	return out
}

// Get looks up a template by id.
func Get(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return clone(t), true
		}
	}
	return Template{}, false
}

func clone(t Template) Template {
	nodes := make([]workflow.Node, len(t.Nodes))
	copy(nodes, t.Nodes)
	t.Nodes = nodes
	return t
}
