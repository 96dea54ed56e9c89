package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var localModuleColumns = []string{"id", "title", "description", "questions", "created_at"}

func scanLocalModule(rows *entsql.Rows) (LocalModule, error) {
	var (
		m         LocalModule
		questions string
		created   string
	)
	if err := rows.Scan(&m.ID, &m.Title, &m.Description, &questions, &created); err != nil {
		return LocalModule{}, err
	}
	if err := json.Unmarshal([]byte(questions), &m.Questions); err != nil {
		return LocalModule{}, fmt.Errorf("decode questions of %s: %w", m.ID, err)
	}
	m.CreatedAt = parseTime(created)
	return m, nil
}

// SaveLocalModule stores or replaces a local module.
func (s *Store) SaveLocalModule(ctx context.Context, m LocalModule) error {
	data, err := json.Marshal(m.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	ins := builder().Insert("local_modules").
		Columns(localModuleColumns...).
		Values(m.ID, m.Title, m.Description, string(data), formatTime(m.CreatedAt)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := s.exec(ctx, ins); err != nil {
		return fmt.Errorf("save local module %s: %w", m.ID, err)
	}
	return nil
}

// LocalModules returns every local module, oldest first.
func (s *Store) LocalModules(ctx context.Context) ([]LocalModule, error) {
	b := builder()
	sel := b.Select(localModuleColumns...).
		From(b.Table("local_modules")).
		OrderBy("created_at", "id")

	var out []LocalModule
	err := s.query(ctx, sel, func(rows *entsql.Rows) error {
		m, err := scanLocalModule(rows)
		if err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query local modules: %w", err)
	}
	return out, nil
}

// LocalModule returns one local module, or nil when absent.
func (s *Store) LocalModule(ctx context.Context, id string) (*LocalModule, error) {
	b := builder()
	sel := b.Select(localModuleColumns...).
		From(b.Table("local_modules")).
		Where(entsql.EQ("id", id))

	var found *LocalModule
	err := s.query(ctx, sel, func(rows *entsql.Rows) error {
		m, err := scanLocalModule(rows)
		if err != nil {
			return err
		}
		found = &m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query local module %s: %w", id, err)
	}
	return found, nil
}

// DeleteLocalModule removes a local module.
func (s *Store) DeleteLocalModule(ctx context.Context, id string) error {
	if err := s.exec(ctx, builder().Delete("local_modules").Where(entsql.EQ("id", id))); err != nil {
		return fmt.Errorf("delete local module %s: %w", id, err)
	}
	return nil
}
