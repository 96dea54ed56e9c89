// Package source fetches module lists and question sets.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/schema"
)

const maxBodyBytes = 4 << 20

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// ErrInvalidPayload wraps documents that fail to decode or validate.
var ErrInvalidPayload = errors.New("invalid payload")

// HTTP fetches documents over HTTP(S).
type HTTP struct {
	client     *http.Client
	modulesURL string
	userAgent  string
	log        *zap.Logger
}

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTP)

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTP) { h.userAgent = ua }
}

// NewHTTP creates a source reading the module list from modulesURL.
func NewHTTP(modulesURL string, timeout time.Duration, logger *zap.Logger, opts ...HTTPOption) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &HTTP{
		client:     &http.Client{Timeout: timeout},
		modulesURL: modulesURL,
		userAgent:  "mcqquiz",
		log:        logger.Named("source"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FetchModules downloads and decodes the module list.
func (h *HTTP) FetchModules(ctx context.Context) ([]quiz.Module, error) {
	raw, err := h.get(ctx, h.modulesURL)
	if err != nil {
		return nil, err
	}
	return DecodeModules(raw)
}

// FetchQuestions downloads and decodes the question set at reference.
func (h *HTTP) FetchQuestions(ctx context.Context, reference string) ([]quiz.Question, error) {
	raw, err := h.get(ctx, reference)
	if err != nil {
		return nil, err
	}
	return DecodeQuestions(raw)
}

func (h *HTTP) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	h.log.Debug("fetched",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return raw, nil
}

// DecodeModules parses a module list document.
func DecodeModules(raw []byte) ([]quiz.Module, error) {
	if err := schema.Validate("source-modules", modulesSchema, raw); err != nil {
		return nil, fmt.Errorf("%w: modules: %v", ErrInvalidPayload, err)
	}
	var mods []quiz.Module
	if err := json.Unmarshal(raw, &mods); err != nil {
		return nil, fmt.Errorf("%w: modules: %v", ErrInvalidPayload, err)
	}
	return mods, nil
}

// DecodeQuestions parses a question set. Both a bare array and an object
// with a "questions" array are accepted.
func DecodeQuestions(raw []byte) ([]quiz.Question, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: questions: %v", ErrInvalidPayload, err)
		}
		trimmed = wrapped.Questions
	}

	if err := schema.Validate("source-questions", questionsSchema, trimmed); err != nil {
		return nil, fmt.Errorf("%w: questions: %v", ErrInvalidPayload, err)
	}
	var qs []quiz.Question
	if err := json.Unmarshal(trimmed, &qs); err != nil {
		return nil, fmt.Errorf("%w: questions: %v", ErrInvalidPayload, err)
	}
	return qs, nil
}
