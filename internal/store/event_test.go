package store

import (
	"context"
	"testing"
	"time"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

func TestEventRepo_LLMRequests(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, ok := range []bool{true, false, true} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "m",
			Purpose:      "module-gen",
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    42,
			Success:      ok,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	// Newest first.
	if events[0].InputTokens != 30 || !events[0].Success {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Success {
		t.Error("events[1].Success = true, want false")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	limited, err := repo.QueryLLMRequests(ctx, QueryOpts{Limit: 1, Before: events[0].Sequence})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Sequence != events[1].Sequence {
		t.Errorf("limited = %+v", limited)
	}
}

func TestEventRepo_Sessions(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.AppendSession(ctx, quiz.SessionRecord{
			SessionID:   "s",
			ModuleID:    "basics",
			ModuleTitle: "Basics",
			Correct:     i,
			Total:       3,
			Completed:   i == 2,
			FinishedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QuerySessions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Correct != 2 || !all[0].Completed {
		t.Errorf("newest = %+v", all[0])
	}
	if !all[0].FinishedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("finished_at = %v", all[0].FinishedAt)
	}

	recent, err := repo.QuerySessions(ctx, QueryOpts{From: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("query from: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("from filter len = %d, want 2", len(recent))
	}

	// Sessions and LLM requests share one sequence.
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock"}); err != nil {
		t.Fatalf("append llm: %v", err)
	}
	llm, _ := repo.QueryLLMRequests(ctx, QueryOpts{})
	if len(llm) != 1 {
		t.Fatalf("llm events = %d, want 1", len(llm))
	}
	if llm[0].Sequence <= all[0].Sequence {
		t.Errorf("llm sequence %d not after session sequence %d", llm[0].Sequence, all[0].Sequence)
	}
}
