package generator

import (
	"fmt"
	"strings"
)

// Validator checks a generated module before it is stored.
type Validator interface {
	Name() string
	Validate(m *Module, in Input) *ValidationError
}

// ValidationError describes why a generated module was rejected.
type ValidationError struct {
	Validator string
	Message   string

	// Retryable reports whether asking the model again is likely to help.
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks lengths, option counts, answer indexes and
// duplicates.
type StructuralValidator struct {
	MaxPromptLen int
	MaxOptionLen int
}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(m *Module, in Input) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	if strings.TrimSpace(m.Title) == "" {
		return fail("title is empty")
	}
	if len(m.Questions) == 0 {
		return fail("no questions")
	}
	if in.Count > 0 && len(m.Questions) < in.Count {
		return fail("got %d questions, want %d", len(m.Questions), in.Count)
	}

	seen := make(map[string]bool, len(m.Questions))
	for i, q := range m.Questions {
		if err := q.Validate(); err != nil {
			return fail("question %d: %v", i+1, err)
		}
		if v.MaxPromptLen > 0 && len(q.Prompt) > v.MaxPromptLen {
			return fail("question %d exceeds %d characters", i+1, v.MaxPromptLen)
		}
		key := strings.ToLower(strings.TrimSpace(q.Prompt))
		if seen[key] {
			return fail("question %d is a duplicate", i+1)
		}
		seen[key] = true

		opts := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				return fail("question %d has an empty option", i+1)
			}
			if v.MaxOptionLen > 0 && len(o) > v.MaxOptionLen {
				return fail("question %d has an option over %d characters", i+1, v.MaxOptionLen)
			}
			if opts[strings.ToLower(o)] {
				return fail("question %d repeats option %q", i+1, o)
			}
			opts[strings.ToLower(o)] = true
		}
	}
	return nil
}
