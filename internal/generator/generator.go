// Package generator authors question modules with an LLM and stores them
// as local modules.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/llm"
	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/store"
)

// MaxQuestions bounds Input.Count.
const MaxQuestions = 50

// ErrInvalidInput is returned for an empty topic or an out of range count.
var ErrInvalidInput = errors.New("invalid generate input")

// Input describes the module to generate.
type Input struct {
	Topic string
	Level string
	Count int

	// Avoid lists prompts that must not be asked again.
	Avoid []string
}

// Module is a generated module before it is stored.
type Module struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []quiz.Question `json:"questions"`
}

// ModuleSaver persists generated modules.
type ModuleSaver interface {
	SaveLocalModule(ctx context.Context, m store.LocalModule) error
}

// Generator turns a topic into a stored local module.
type Generator struct {
	provider llm.Provider
	saver    ModuleSaver
	config   Config
	log      *zap.Logger
	now      func() time.Time
}

// New creates a Generator. saver may be nil, in which case Generate only
// returns the module.
func New(provider llm.Provider, saver ModuleSaver, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider: provider,
		saver:    saver,
		config:   cfg,
		log:      logger.Named("generator"),
		now:      time.Now,
	}
}

// Generate asks the provider for a module, validates it, and stores it
// under a fresh id.
func (g *Generator) Generate(ctx context.Context, in Input) (*store.LocalModule, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	if in.Count < 1 || in.Count > MaxQuestions {
		return nil, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidInput, MaxQuestions, in.Count)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeModuleGen)

	attempts := max(g.config.Attempts, 1)
	var (
		mod *Module
		err error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		mod, err = g.generateOnce(ctx, in)
		if err == nil {
			break
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		g.log.Info("generated module rejected",
			zap.String("topic", in.Topic),
			zap.Int("attempt", attempt),
			zap.String("reason", verr.Message))
	}
	if err != nil {
		return nil, err
	}

	lm := store.LocalModule{
		ID:          uuid.NewString(),
		Title:       mod.Title,
		Description: mod.Description,
		Questions:   mod.Questions,
		CreatedAt:   g.now().UTC(),
	}
	if g.saver != nil {
		if err := g.saver.SaveLocalModule(ctx, lm); err != nil {
			return nil, fmt.Errorf("save generated module: %w", err)
		}
	}

	g.log.Info("generated module",
		zap.String("id", lm.ID),
		zap.String("title", lm.Title),
		zap.Int("questions", len(lm.Questions)))
	return &lm, nil
}

func (g *Generator) generateOnce(ctx context.Context, in Input) (*Module, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in, g.config)}},
		Schema:      ModuleSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var mod Module
	if err := json.Unmarshal(resp.Content, &mod); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	// Models don't number questions reliably, so ids are assigned here.
	for i := range mod.Questions {
		mod.Questions[i].ID = i + 1
	}
	mod.Title = strings.TrimSpace(mod.Title)
	if mod.Title == "" {
		mod.Title = in.Topic
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(&mod, in); verr != nil {
			return nil, verr
		}
	}
	return &mod, nil
}
