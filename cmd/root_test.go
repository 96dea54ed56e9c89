package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/store"
)

// execute runs the root command against a fresh database in a temp dir.
func execute(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	t.Setenv("MCQQUIZ_LOG_DISABLED", "true")
	t.Setenv("MCQQUIZ_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", dbPath, "--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func seedProgress(t *testing.T, dbPath string, ids ...string) {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	for _, id := range ids {
		require.NoError(t, st.UpsertProgress(context.Background(), quiz.ModuleProgress{
			ModuleID: id, Correct: 2, Total: 5, UpdatedAt: time.Now(),
		}))
	}
}

func TestVersion(t *testing.T) {
	out := execute(t, filepath.Join(t.TempDir(), "q.db"), "version")
	assert.Contains(t, out, "mcqquiz (devel)")
}

func TestProgressEmpty(t *testing.T) {
	out := execute(t, filepath.Join(t.TempDir(), "q.db"), "progress")
	assert.Contains(t, out, "No progress saved yet.")
}

func TestResetSingleModule(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "q.db")
	seedProgress(t, dbPath, "alpha", "beta")

	out := execute(t, dbPath, "progress")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "2/5")

	out = execute(t, dbPath, "reset", "alpha")
	assert.Contains(t, out, "Progress reset for alpha.")

	out = execute(t, dbPath, "progress")
	assert.NotContains(t, out, "alpha")
	assert.Contains(t, out, "beta")
}

func TestResetAll(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "q.db")
	seedProgress(t, dbPath, "alpha", "beta")

	out := execute(t, dbPath, "reset")
	assert.Contains(t, out, "Progress reset for all modules.")

	out = execute(t, dbPath, "progress")
	assert.Contains(t, out, "No progress saved yet.")
}

func TestBellAvoidsRendererOutput(t *testing.T) {
	assert.Same(t, os.Stderr, bellOutput)
	assert.NotSame(t, os.Stdout, bellOutput)
}
