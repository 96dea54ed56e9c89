package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

// SaveAnswers replaces the saved answers of a module.
func (s *Store) SaveAnswers(ctx context.Context, moduleID string, answers []quiz.AnswerRecord) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	run := func(q entsql.Querier) error {
		query, args := q.Query()
		var res sql.Result
		return tx.Exec(ctx, query, args, &res)
	}

	if err := run(builder().Delete("answer_state").Where(entsql.EQ("module_id", moduleID))); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear answers %s: %w", moduleID, err)
	}

	if len(answers) > 0 {
		ins := builder().Insert("answer_state").Columns("module_id", "question_id", "option_index")
		for _, a := range answers {
			ins = ins.Values(moduleID, a.QuestionID, a.OptionIndex)
		}
		if err := run(ins); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert answers %s: %w", moduleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit answers %s: %w", moduleID, err)
	}
	return nil
}

// LoadAnswers returns the saved answers of a module.
func (s *Store) LoadAnswers(ctx context.Context, moduleID string) ([]quiz.AnswerRecord, error) {
	b := builder()
	sel := b.Select("question_id", "option_index").
		From(b.Table("answer_state")).
		Where(entsql.EQ("module_id", moduleID)).
		OrderBy("question_id")

	var out []quiz.AnswerRecord
	err := s.query(ctx, sel, func(rows *entsql.Rows) error {
		a := quiz.AnswerRecord{ModuleID: moduleID}
		if err := rows.Scan(&a.QuestionID, &a.OptionIndex); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load answers %s: %w", moduleID, err)
	}
	return out, nil
}

// ClearAnswers deletes the saved answers of a module.
func (s *Store) ClearAnswers(ctx context.Context, moduleID string) error {
	if err := s.exec(ctx, builder().Delete("answer_state").Where(entsql.EQ("module_id", moduleID))); err != nil {
		return fmt.Errorf("clear answers %s: %w", moduleID, err)
	}
	return nil
}
