package source

// modulesSchema describes a module list document.
var modulesSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string"},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"url":         map[string]any{"type": "string", "minLength": 1},
			"version":     map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"title", "url"},
	},
}

// questionsSchema describes a question set. Individual questions that are
// well-typed but unusable (too few options, answer out of range) pass here
// and are dropped later.
var questionsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "integer"},
			"question":    map[string]any{"type": "string"},
			"options":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"answerIndex": map[string]any{"type": "integer"},
		},
		"required": []string{"question", "options", "answerIndex"},
	},
}
