package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

// QuestionSource supplies modules and their question sets.
type QuestionSource interface {
	FetchModules(ctx context.Context) ([]quiz.Module, error)
	FetchQuestions(ctx context.Context, reference string) ([]quiz.Question, error)
}

// ProgressStore persists one progress record per module.
type ProgressStore interface {
	AllProgress(ctx context.Context) ([]quiz.ModuleProgress, error)
	UpsertProgress(ctx context.Context, p quiz.ModuleProgress) error
}

// AnswerStore keeps per-question answers so an unfinished module can resume.
type AnswerStore interface {
	SaveAnswers(ctx context.Context, moduleID string, answers []quiz.AnswerRecord) error
	LoadAnswers(ctx context.Context, moduleID string) ([]quiz.AnswerRecord, error)
	ClearAnswers(ctx context.Context, moduleID string) error
}

// HistoryStore records finished sessions.
type HistoryStore interface {
	AppendSession(ctx context.Context, rec quiz.SessionRecord) error
}

// FeedbackSignal plays the correct/incorrect cue.
type FeedbackSignal interface {
	PlayPositive()
	PlayIncorrect()
	SetMuted(muted bool)
	IsMuted() bool
	Dispose() error
}

// Deps are the collaborators an Engine drives. Source is required; the
// rest are optional.
type Deps struct {
	Source   QuestionSource
	Progress ProgressStore
	Answers  AnswerStore
	History  HistoryStore
	Feedback FeedbackSignal
	Logger   *zap.Logger
}

type silentSignal struct{ muted bool }

func (s *silentSignal) PlayPositive()       {}
func (s *silentSignal) PlayIncorrect()      {}
func (s *silentSignal) SetMuted(muted bool) { s.muted = muted }
func (s *silentSignal) IsMuted() bool       { return s.muted }
func (s *silentSignal) Dispose() error      { return nil }
