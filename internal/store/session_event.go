package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

func (r *eventRepo) AppendSession(ctx context.Context, rec quiz.SessionRecord) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := builder().Insert("session_history").
		Columns("sequence", "session_id", "module_id", "module_title", "correct",
			"skipped", "total", "longest_streak", "completed", "finished_at").
		Values(seqNum, rec.SessionID, rec.ModuleID, rec.ModuleTitle, rec.Correct,
			rec.Skipped, rec.Total, rec.LongestStreak, boolInt(rec.Completed),
			formatTime(rec.FinishedAt))
	if err := r.s.exec(ctx, ins); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	b := builder()
	sel := b.Select("sequence", "session_id", "module_id", "module_title", "correct",
		"skipped", "total", "longest_streak", "completed", "finished_at").
		From(b.Table("session_history"))
	sel = applyQueryOpts(sel, "finished_at", opts)

	var out []SessionEvent
	err := r.s.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			ev       SessionEvent
			finished string
		)
		if err := rows.Scan(&ev.Sequence, &ev.SessionID, &ev.ModuleID, &ev.ModuleTitle,
			&ev.Correct, &ev.Skipped, &ev.Total, &ev.LongestStreak, &ev.Completed,
			&finished); err != nil {
			return err
		}
		ev.FinishedAt = parseTime(finished)
		out = append(out, ev)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	return out, nil
}
