package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/abhisek/mcqquiz/internal/llm"
	"github.com/abhisek/mcqquiz/internal/store"
)

const goModuleJSON = `{
	"title": "Go Concurrency",
	"description": "Goroutines and channels.",
	"questions": [
		{"question": "Which keyword starts a goroutine?", "options": ["go", "async", "spawn", "run"], "answerIndex": 0},
		{"question": "What does close(ch) do?", "options": ["Frees ch", "Marks ch as done sending", "Blocks", "Panics always"], "answerIndex": 1}
	]
}`

type fakeSaver struct {
	saved []store.LocalModule
	err   error
}

func (f *fakeSaver) SaveLocalModule(_ context.Context, m store.LocalModule) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, m)
	return nil
}

func newTestGenerator(t *testing.T, saver ModuleSaver, responses ...llm.MockResponse) (*Generator, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	g := New(mock, saver, DefaultConfig(), zaptest.NewLogger(t))
	g.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return g, mock
}

func TestGenerate_StoresModule(t *testing.T) {
	saver := &fakeSaver{}
	g, mock := newTestGenerator(t, saver, llm.MockResponse{Content: json.RawMessage(goModuleJSON)})

	lm, err := g.Generate(context.Background(), Input{Topic: "Go concurrency", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lm.ID == "" {
		t.Fatal("expected a generated id")
	}
	if lm.Title != "Go Concurrency" {
		t.Errorf("unexpected title: %q", lm.Title)
	}
	if len(lm.Questions) != 2 || lm.Questions[0].ID != 1 || lm.Questions[1].ID != 2 {
		t.Fatalf("expected questions numbered 1..2, got %+v", lm.Questions)
	}
	if !lm.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected created at: %v", lm.CreatedAt)
	}
	if len(saver.saved) != 1 || saver.saved[0].ID != lm.ID {
		t.Fatalf("expected module to be saved, got %+v", saver.saved)
	}

	req := mock.Requests()[0]
	if req.Schema != ModuleSchema {
		t.Error("expected module schema on request")
	}
	if !strings.Contains(req.Messages[0].Content, "Topic: Go concurrency") {
		t.Errorf("topic missing from prompt: %q", req.Messages[0].Content)
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	g, mock := newTestGenerator(t, nil)

	tests := []struct {
		name string
		in   Input
	}{
		{"empty topic", Input{Topic: "  ", Count: 5}},
		{"zero count", Input{Topic: "Go", Count: 0}},
		{"too many", Input{Topic: "Go", Count: MaxQuestions + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if mock.CallCount() != 0 {
		t.Fatalf("provider should not be called, got %d calls", mock.CallCount())
	}
}

func TestGenerate_RetriesRejectedModule(t *testing.T) {
	dup := `{"title":"Dup","description":"d","questions":[
		{"question":"Same?","options":["a","b"],"answerIndex":0},
		{"question":"same?","options":["a","b"],"answerIndex":1}]}`

	g, mock := newTestGenerator(t, nil,
		llm.MockResponse{Content: json.RawMessage(dup)},
		llm.MockResponse{Content: json.RawMessage(goModuleJSON)},
	)

	lm, err := g.Generate(context.Background(), Input{Topic: "Go", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lm.Title != "Go Concurrency" {
		t.Errorf("expected second response to be used, got %q", lm.Title)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestGenerate_GivesUpAfterAttempts(t *testing.T) {
	short := `{"title":"Short","description":"d","questions":[
		{"question":"Only one?","options":["a","b"],"answerIndex":0}]}`

	g, mock := newTestGenerator(t, nil,
		llm.MockResponse{Content: json.RawMessage(short)},
		llm.MockResponse{Content: json.RawMessage(short)},
	)

	_, err := g.Generate(context.Background(), Input{Topic: "Go", Count: 3})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	g, _ := newTestGenerator(t, nil, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	_, err := g.Generate(context.Background(), Input{Topic: "Go", Count: 1})
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestGenerate_SaveError(t *testing.T) {
	g, _ := newTestGenerator(t, &fakeSaver{err: errors.New("disk full")},
		llm.MockResponse{Content: json.RawMessage(goModuleJSON)})

	if _, err := g.Generate(context.Background(), Input{Topic: "Go", Count: 2}); err == nil {
		t.Fatal("expected save error")
	}
}

func TestGenerate_SchemaMismatchIsInvalidResponse(t *testing.T) {
	g, _ := newTestGenerator(t, nil, llm.MockResponse{Content: json.RawMessage(`{"title":"x"}`)})

	_, err := g.Generate(context.Background(), Input{Topic: "Go", Count: 1})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}
