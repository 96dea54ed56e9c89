package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

var progressColumns = []string{"module_id", "correct", "total", "completed", "pages_visited", "updated_at"}

func scanProgress(rows *entsql.Rows) (quiz.ModuleProgress, error) {
	var (
		p       quiz.ModuleProgress
		updated string
	)
	if err := rows.Scan(&p.ModuleID, &p.Correct, &p.Total, &p.Completed, &p.PagesVisited, &updated); err != nil {
		return quiz.ModuleProgress{}, err
	}
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// AllProgress returns every stored module progress record.
func (s *Store) AllProgress(ctx context.Context) ([]quiz.ModuleProgress, error) {
	b := builder()
	sel := b.Select(progressColumns...).From(b.Table("module_progress")).OrderBy("module_id")

	var out []quiz.ModuleProgress
	err := s.query(ctx, sel, func(rows *entsql.Rows) error {
		p, err := scanProgress(rows)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return out, nil
}

// Progress returns the record for one module, or nil if none exists.
func (s *Store) Progress(ctx context.Context, moduleID string) (*quiz.ModuleProgress, error) {
	b := builder()
	sel := b.Select(progressColumns...).
		From(b.Table("module_progress")).
		Where(entsql.EQ("module_id", moduleID))

	var found *quiz.ModuleProgress
	err := s.query(ctx, sel, func(rows *entsql.Rows) error {
		p, err := scanProgress(rows)
		if err != nil {
			return err
		}
		found = &p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query progress %s: %w", moduleID, err)
	}
	return found, nil
}

// UpsertProgress replaces the record for p.ModuleID.
func (s *Store) UpsertProgress(ctx context.Context, p quiz.ModuleProgress) error {
	ins := builder().Insert("module_progress").
		Columns(progressColumns...).
		Values(p.ModuleID, p.Correct, p.Total, boolInt(p.Completed), p.PagesVisited, formatTime(p.UpdatedAt)).
		OnConflict(entsql.ConflictColumns("module_id"), entsql.ResolveWithNewValues())
	if err := s.exec(ctx, ins); err != nil {
		return fmt.Errorf("upsert progress %s: %w", p.ModuleID, err)
	}
	return nil
}

// ResetProgress deletes the progress record and saved answers of a module.
// An empty moduleID resets every module.
func (s *Store) ResetProgress(ctx context.Context, moduleID string) error {
	for _, table := range []string{"module_progress", "answer_state"} {
		del := builder().Delete(table)
		if moduleID != "" {
			del = del.Where(entsql.EQ("module_id", moduleID))
		}
		if err := s.exec(ctx, del); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
