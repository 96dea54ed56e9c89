package source

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/engine"
	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/store"
)

// LocalScheme prefixes references to modules kept in the database.
const LocalScheme = "local://"

// LocalStore lists and loads locally stored modules.
type LocalStore interface {
	LocalModules(ctx context.Context) ([]store.LocalModule, error)
	LocalModule(ctx context.Context, id string) (*store.LocalModule, error)
}

// LocalReference returns the reference for a local module id.
func LocalReference(id string) string {
	return LocalScheme + id
}

// Mux serves local:// references from the database and everything else
// from the remote source. The module list is the remote list followed by
// the local modules.
type Mux struct {
	remote engine.QuestionSource
	local  LocalStore
	log    *zap.Logger
}

// NewMux combines a remote source with local modules. remote may be nil
// for an offline-only setup.
func NewMux(remote engine.QuestionSource, local LocalStore, logger *zap.Logger) *Mux {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mux{remote: remote, local: local, log: logger.Named("mux")}
}

func (m *Mux) FetchModules(ctx context.Context) ([]quiz.Module, error) {
	var (
		mods      []quiz.Module
		remoteErr error
	)
	if m.remote != nil {
		mods, remoteErr = m.remote.FetchModules(ctx)
	}

	locals, err := m.local.LocalModules(ctx)
	if err != nil {
		m.log.Warn("list local modules", zap.Error(err))
	}
	for _, lm := range locals {
		mods = append(mods, quiz.Module{
			ID:          lm.ID,
			Title:       lm.Title,
			Reference:   LocalReference(lm.ID),
			Description: lm.Description,
		})
	}

	if remoteErr != nil {
		if len(mods) == 0 {
			return nil, remoteErr
		}
		m.log.Warn("remote module list unavailable, showing local modules only", zap.Error(remoteErr))
	}
	return mods, nil
}

func (m *Mux) FetchQuestions(ctx context.Context, reference string) ([]quiz.Question, error) {
	id, ok := strings.CutPrefix(reference, LocalScheme)
	if !ok {
		if m.remote == nil {
			return nil, fmt.Errorf("no remote source for %s", reference)
		}
		return m.remote.FetchQuestions(ctx, reference)
	}

	lm, err := m.local.LocalModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if lm == nil {
		return nil, fmt.Errorf("local module %q not found", id)
	}
	return lm.Questions, nil
}
