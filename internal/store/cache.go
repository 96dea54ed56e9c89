package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// CachedPayload returns the cache entry for key, or nil when absent.
func (s *Store) CachedPayload(ctx context.Context, key string) (*CacheEntry, error) {
	b := builder()
	sel := b.Select("cache_key", "version", "payload", "fetched_at").
		From(b.Table("source_cache")).
		Where(entsql.EQ("cache_key", key))

	var found *CacheEntry
	err := s.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			e       CacheEntry
			fetched string
		)
		if err := rows.Scan(&e.Key, &e.Version, &e.Payload, &fetched); err != nil {
			return err
		}
		e.FetchedAt = parseTime(fetched)
		found = &e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", key, err)
	}
	return found, nil
}

// PutPayload stores or replaces the cache entry for e.Key.
func (s *Store) PutPayload(ctx context.Context, e CacheEntry) error {
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now()
	}
	ins := builder().Insert("source_cache").
		Columns("cache_key", "version", "payload", "fetched_at").
		Values(e.Key, e.Version, e.Payload, formatTime(e.FetchedAt)).
		OnConflict(entsql.ConflictColumns("cache_key"), entsql.ResolveWithNewValues())
	if err := s.exec(ctx, ins); err != nil {
		return fmt.Errorf("write cache %s: %w", e.Key, err)
	}
	return nil
}
