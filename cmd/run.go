package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/app"
	"github.com/abhisek/mcqquiz/internal/engine"
	"github.com/abhisek/mcqquiz/internal/feedback"
	"github.com/abhisek/mcqquiz/internal/generator"
	"github.com/abhisek/mcqquiz/internal/llm"
	"github.com/abhisek/mcqquiz/internal/screens/generate"
	"github.com/abhisek/mcqquiz/internal/source"
)

const pauseTimeout = 5 * time.Second

// bellOutput receives the answer cue. The renderer owns stdout.
var bellOutput io.Writer = os.Stderr

// runApp opens the store, builds the engine and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := open(cmd, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	src := questionSource(rt)
	opts := []engine.Option{
		engine.WithAdvanceDelay(rt.cfg.Session.AdvanceDelay),
		engine.WithSound(rt.cfg.Session.Sound),
		engine.WithAutoStart(rt.cfg.Session.AutoStart),
	}
	if u := rt.cfg.Source.QuestionsURL; u != "" {
		opts = append(opts, engine.WithDirectModule(engine.DirectModule{
			ModuleID:  u,
			Title:     "Quiz",
			Reference: u,
		}))
	}

	eng := engine.New(engine.Deps{
		Source:   src,
		Progress: rt.store,
		Answers:  rt.store,
		History:  rt.store.EventRepo(),
		Feedback: feedback.NewBell(bellOutput, rt.log),
		Logger:   rt.log,
	}, opts...)

	var gen generate.Generator
	if g, err := newGenerator(ctx, rt, "", ""); err != nil {
		rt.log.Info("module generation unavailable", zap.Error(err))
	} else {
		gen = g
	}

	runErr := app.Run(ctx, app.Options{
		Session:     eng,
		Generator:   gen,
		CloseDelay:  rt.cfg.Session.CloseDelay,
		DirectStart: rt.cfg.Source.QuestionsURL != "",
	})

	pauseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pauseTimeout)
	defer cancel()
	eng.Pause(pauseCtx)
	if err := eng.Close(); err != nil {
		rt.log.Warn("close engine", zap.Error(err))
	}

	return runErr
}

// questionSource builds the fetch chain: HTTP, then the offline cache, then
// the local module mux.
func questionSource(rt *runtime) engine.QuestionSource {
	var remote engine.QuestionSource
	if rt.cfg.Source.ModulesURL != "" || rt.cfg.Source.QuestionsURL != "" {
		remote = source.NewHTTP(rt.cfg.Source.ModulesURL, rt.cfg.Source.Timeout, rt.log,
			source.WithUserAgent("mcqquiz/"+version))
		if rt.cfg.Source.Cache {
			remote = source.NewCached(remote, rt.store, rt.log)
		}
	}
	return source.NewMux(remote, rt.store, rt.log)
}

// newGenerator resolves an LLM provider and wraps it in a module generator.
// provider and model override the configured values when non-empty.
func newGenerator(ctx context.Context, rt *runtime, provider, model string) (*generator.Generator, error) {
	if provider == "" {
		provider = rt.cfg.LLM.Provider
	}
	if model == "" {
		model = rt.cfg.LLM.Model
	}
	llmCfg, err := llm.Resolve(provider, model)
	if err != nil {
		return nil, err
	}
	p, err := llm.NewProvider(ctx, llmCfg, rt.store.EventRepo(), rt.log)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return generator.New(p, rt.store, generator.DefaultConfig(), rt.log), nil
}
