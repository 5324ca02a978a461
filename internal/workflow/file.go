package workflow

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the JSON form of a workflow written by SaveFile.
type Document struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// SaveFile atomically writes a workflow to a JSON file.
func SaveFile(path, name string, nodes []Node) error {
	if nodes == nil {
		nodes = []Node{}
	}
	data, err := json.MarshalIndent(Document{Name: name, Nodes: nodes}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workflow: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write workflow temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename workflow file: %w", err)
	}

	return nil
}

// LoadFile reads a workflow written by SaveFile. Node types and statuses are
// normalized, so hand-edited files cannot smuggle unknown values in.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read workflow file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("unmarshal workflow: %w", err)
	}

	for i := range doc.Nodes {
		doc.Nodes[i] = Normalize(doc.Nodes[i])
	}
	return doc, nil
}
