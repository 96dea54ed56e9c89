package source

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/abhisek/mcqquiz/internal/engine"
	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/store"
)

const modulesCacheKey = "modules"

// CacheStore persists the last good payload per key.
type CacheStore interface {
	CachedPayload(ctx context.Context, key string) (*store.CacheEntry, error)
	PutPayload(ctx context.Context, e store.CacheEntry) error
}

// Cached keeps a copy of every successful fetch and serves it when the
// inner source fails. Question sets remember the module version they were
// fetched for; a copy is never replaced by one with a lower version.
type Cached struct {
	inner engine.QuestionSource
	cache CacheStore
	log   *zap.Logger

	mu       sync.Mutex
	versions map[string]string // reference -> module version
}

// NewCached wraps inner with a cache fallback.
func NewCached(inner engine.QuestionSource, cache CacheStore, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		inner:    inner,
		cache:    cache,
		log:      logger.Named("cache"),
		versions: make(map[string]string),
	}
}

func (c *Cached) FetchModules(ctx context.Context) ([]quiz.Module, error) {
	mods, err := c.inner.FetchModules(ctx)
	if err == nil {
		c.rememberVersions(mods)
		c.put(ctx, modulesCacheKey, "", mods)
		return mods, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	var cached []quiz.Module
	if ok := c.load(ctx, modulesCacheKey, &cached); !ok {
		return nil, err
	}
	c.log.Warn("serving cached module list", zap.Error(err))
	c.rememberVersions(cached)
	return cached, nil
}

func (c *Cached) FetchQuestions(ctx context.Context, reference string) ([]quiz.Question, error) {
	qs, err := c.inner.FetchQuestions(ctx, reference)
	if err == nil {
		c.put(ctx, reference, c.version(reference), qs)
		return qs, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	var cached []quiz.Question
	if ok := c.load(ctx, reference, &cached); !ok {
		return nil, err
	}
	c.log.Warn("serving cached questions", zap.String("reference", reference), zap.Error(err))
	return cached, nil
}

func (c *Cached) rememberVersions(mods []quiz.Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range mods {
		if m.Version != "" {
			c.versions[m.Reference] = canonicalVersion(m.Version)
		}
	}
}

func (c *Cached) version(reference string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[reference]
}

func (c *Cached) put(ctx context.Context, key, version string, v any) {
	if version != "" {
		prev, err := c.cache.CachedPayload(ctx, key)
		if err == nil && prev != nil && IsOlder(version, prev.Version) {
			c.log.Info("keeping newer cached copy",
				zap.String("key", key),
				zap.String("cached", prev.Version),
				zap.String("fetched", version))
			return
		}
	}

	payload, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("encode cache payload", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.PutPayload(ctx, store.CacheEntry{Key: key, Version: version, Payload: payload}); err != nil {
		c.log.Warn("write cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cached) load(ctx context.Context, key string, v any) bool {
	entry, err := c.cache.CachedPayload(ctx, key)
	if err != nil {
		c.log.Warn("read cache", zap.String("key", key), zap.Error(err))
		return false
	}
	if entry == nil {
		return false
	}
	if err := json.Unmarshal(entry.Payload, v); err != nil {
		c.log.Warn("decode cache payload", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// canonicalVersion normalizes "1.2" and "v1.2" to "v1.2.0". Strings that
// are not semantic versions are returned unchanged.
func canonicalVersion(v string) string {
	if v == "" {
		return ""
	}
	pv := v
	if pv[0] != 'v' {
		pv = "v" + pv
	}
	if c := semver.Canonical(pv); c != "" {
		return c
	}
	return v
}

// IsOlder reports whether version a is a valid semantic version strictly
// lower than b. Invalid versions never compare as older.
func IsOlder(a, b string) bool {
	a, b = canonicalVersion(a), canonicalVersion(b)
	if !semver.IsValid(a) || !semver.IsValid(b) {
		return false
	}
	return semver.Compare(a, b) < 0
}

// ValidateVersion returns an error when v is set but is not a semantic
// version.
func ValidateVersion(v string) error {
	if v == "" {
		return nil
	}
	if !semver.IsValid(canonicalVersion(v)) {
		return fmt.Errorf("version %q is not a semantic version", v)
	}
	return nil
}
