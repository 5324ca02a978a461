package advisor

import (
	"fmt"

	"github.com/simonbystrom/flowview/internal/workflow"
)

// Schema describes the JSON object a structured generation must return.
type Schema struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

var suggestionSchema = Schema{
	Name:        "workflow_suggestion",
	Description: "Return the designed workflow as a summary and an ordered list of steps.",
	Properties: map[string]any{
		"suggestion": map[string]any{
			"type":        "string",
			"description": "A summary of why this workflow works.",
		},
		"nodes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":          map[string]any{"type": "string"},
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"type":        map[string]any{"type": "string", "enum": enumStrings(workflow.Types)},
					"status":      map[string]any{"type": "string", "enum": enumStrings(workflow.Statuses)},
				},
				"required": []string{"id", "title", "description", "type", "status"},
			},
		},
	},
	Required: []string{"suggestion", "nodes"},
}

func enumStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func suggestionPrompt(description string) string {
	return fmt.Sprintf("Design a software development workflow for the following project: %s.\n"+
		"Break it down into specific actionable steps including planning, development, testing, and deployment.",
		description)
}

func analysisPrompt(nodesJSON string) string {
	return "Analyze this current software development workflow and suggest improvements for efficiency and speed: " + nodesJSON
}
