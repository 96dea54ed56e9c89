package store

import (
	"context"
	"time"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// SessionEvent is a stored session history entry.
type SessionEvent struct {
	Sequence int64
	quiz.SessionRecord
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns LLM request events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// AppendSession records a finished quiz session.
	AppendSession(ctx context.Context, rec quiz.SessionRecord) error

	// QuerySessions returns session history, newest first.
	QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
}

// CacheEntry is the last good payload fetched for a key.
type CacheEntry struct {
	Key       string
	Version   string
	Payload   []byte
	FetchedAt time.Time
}

// LocalModule is a question set stored in the database rather than served
// over the network.
type LocalModule struct {
	ID          string
	Title       string
	Description string
	Questions   []quiz.Question
	CreatedAt   time.Time
}
