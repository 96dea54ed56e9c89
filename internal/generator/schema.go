package generator

import "github.com/abhisek/mcqquiz/internal/llm"

// ModuleSchema is the structured output contract for a generated module.
// Questions use the same field names as the remote question files.
var ModuleSchema = &llm.Schema{
	Name:        "mcq-module",
	Description: "A titled set of multiple-choice questions on one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short module title shown in the module list",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "One sentence describing what the module covers",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, self-contained",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    2,
							"description": "Answer options; exactly one is correct",
						},
						"answerIndex": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct option",
						},
					},
					"required":             []any{"question", "options", "answerIndex"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "description", "questions"},
		"additionalProperties": false,
	},
}
