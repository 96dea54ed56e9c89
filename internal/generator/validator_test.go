package generator

import (
	"strings"
	"testing"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

func TestStructuralValidator(t *testing.T) {
	q := func(prompt string, answer int, opts ...string) quiz.Question {
		return quiz.Question{ID: 1, Prompt: prompt, Options: opts, AnswerIndex: answer}
	}

	tests := []struct {
		name    string
		mod     Module
		count   int
		wantMsg string
	}{
		{
			name: "valid",
			mod:  Module{Title: "T", Questions: []quiz.Question{q("A?", 0, "x", "y")}},
		},
		{
			name:    "empty title",
			mod:     Module{Questions: []quiz.Question{q("A?", 0, "x", "y")}},
			wantMsg: "title is empty",
		},
		{
			name:    "no questions",
			mod:     Module{Title: "T"},
			wantMsg: "no questions",
		},
		{
			name:    "too few",
			mod:     Module{Title: "T", Questions: []quiz.Question{q("A?", 0, "x", "y")}},
			count:   2,
			wantMsg: "got 1 questions, want 2",
		},
		{
			name:    "answer out of range",
			mod:     Module{Title: "T", Questions: []quiz.Question{q("A?", 5, "x", "y")}},
			wantMsg: "out of range",
		},
		{
			name:    "repeated option",
			mod:     Module{Title: "T", Questions: []quiz.Question{q("A?", 0, "Yes", "yes ")}},
			wantMsg: "repeats option",
		},
		{
			name:    "blank option",
			mod:     Module{Title: "T", Questions: []quiz.Question{q("A?", 0, "x", " ")}},
			wantMsg: "empty option",
		},
		{
			name:    "prompt too long",
			mod:     Module{Title: "T", Questions: []quiz.Question{q(strings.Repeat("a", 501), 0, "x", "y")}},
			wantMsg: "exceeds 500 characters",
		},
	}

	v := &StructuralValidator{MaxPromptLen: 500, MaxOptionLen: 200}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.mod, Input{Count: tt.count})
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantMsg)
			}
			if !strings.Contains(err.Message, tt.wantMsg) {
				t.Fatalf("message %q does not contain %q", err.Message, tt.wantMsg)
			}
			if err.Validator != "structural" || !err.Retryable {
				t.Fatalf("unexpected error fields: %+v", err)
			}
		})
	}
}
