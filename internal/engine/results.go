package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

// persistResultsLocked writes the finished session's progress in the
// background. The next module or question load waits for it. Completed modules drop their saved answers; modules ended
// early keep them for resuming. Callers must hold e.mu.
func (e *Engine) persistResultsLocked(s State) {
	e.log.Info("session finished",
		zap.String("session_id", s.SessionID),
		zap.String("module_id", s.ModuleID),
		zap.Int("correct", s.CorrectAnswers),
		zap.Int("skipped", s.SkippedAnswers),
		zap.Int("total", len(s.Questions)),
		zap.Int("longest_streak", s.LongestStreak),
		zap.Bool("completed", s.Completed))

	if s.ModuleID == "" || (e.progress == nil && e.answers == nil && e.history == nil) {
		return
	}

	now := e.opts.now()
	summary := quiz.SessionRecord{
		SessionID:     s.SessionID,
		ModuleID:      s.ModuleID,
		ModuleTitle:   s.ModuleTitle,
		Correct:       s.CorrectAnswers,
		Skipped:       s.SkippedAnswers,
		Total:         len(s.Questions),
		LongestStreak: s.LongestStreak,
		Completed:     s.Completed,
		FinishedAt:    now,
	}
	rec := quiz.ModuleProgress{
		ModuleID:     s.ModuleID,
		Correct:      s.CorrectAnswers,
		Total:        len(s.Questions),
		Completed:    s.Completed,
		PagesVisited: len(s.VisitedPages),
		UpdatedAt:    now,
	}
	answers := answerRecords(s)

	// Detached from e.ctx so Close does not abort the final write.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(e.ctx), e.opts.persistTimeout)
	written := make(chan struct{})
	e.written = written
	if !e.goLocked(func() {
		defer close(written)
		defer cancel()
		e.writeResults(ctx, rec, answers)
		e.appendHistory(ctx, summary)
	}) {
		cancel()
		close(written)
	}
}

func (e *Engine) writeResults(ctx context.Context, rec quiz.ModuleProgress, answers []quiz.AnswerRecord) {
	if e.progress != nil {
		if err := e.progress.UpsertProgress(ctx, rec); err != nil {
			e.log.Warn("save progress", zap.String("module_id", rec.ModuleID), zap.Error(err))
		}
	}
	if e.answers == nil {
		return
	}

	var err error
	if rec.Completed {
		err = e.answers.ClearAnswers(ctx, rec.ModuleID)
	} else {
		err = e.answers.SaveAnswers(ctx, rec.ModuleID, answers)
	}
	if err != nil {
		e.log.Warn("update saved answers", zap.String("module_id", rec.ModuleID), zap.Error(err))
	}
}

func (e *Engine) appendHistory(ctx context.Context, rec quiz.SessionRecord) {
	if e.history == nil {
		return
	}
	if err := e.history.AppendSession(ctx, rec); err != nil {
		e.log.Warn("append session history", zap.String("session_id", rec.SessionID), zap.Error(err))
	}
}
