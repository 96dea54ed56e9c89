package generate

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqquiz/internal/generator"
	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/router"
	"github.com/abhisek/mcqquiz/internal/screen"
	"github.com/abhisek/mcqquiz/internal/store"
)

// playScreen records the reference it was opened for.
type playScreen struct {
	screen.Screen
	reference string
}

type fakeGenerator struct {
	inputs []generator.Input
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, in generator.Input) (*store.LocalModule, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &store.LocalModule{
		ID:        "m1",
		Title:     in.Topic,
		Questions: []quiz.Question{{ID: 1, Prompt: "p", Options: []string{"a", "b"}}},
	}, nil
}

func typeText(g *GenerateScreen, s string) {
	for _, r := range s {
		g.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestEmptyTopicIgnored(t *testing.T) {
	gen := &fakeGenerator{}
	g := New(context.Background(), gen, nil)

	_, cmd := g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, g.running)
}

func TestGenerateSuccess(t *testing.T) {
	gen := &fakeGenerator{}
	g := New(context.Background(), gen, nil)
	typeText(g, "Go")

	_, cmd := g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, g.running)

	g.Update(cmd())
	require.Len(t, gen.inputs, 1)
	assert.Equal(t, "Go", gen.inputs[0].Topic)
	assert.Equal(t, DefaultCount, gen.inputs[0].Count)
	assert.False(t, g.running)
	assert.Contains(t, g.View(100, 20), `Saved "Go" with 1 questions`)
	assert.Equal(t, "", g.input.Value())
}

func TestGenerateFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	g := New(context.Background(), gen, nil)
	typeText(g, "Go")

	_, cmd := g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	g.Update(cmd())

	assert.Contains(t, g.View(100, 20), "provider down")
	assert.Equal(t, "Go", g.input.Value())
}

func TestEnterAfterSuccessPlaysModule(t *testing.T) {
	gen := &fakeGenerator{}
	var opened []string
	g := New(context.Background(), gen, func(ref string) screen.Screen {
		opened = append(opened, ref)
		return &playScreen{reference: ref}
	})
	typeText(g, "Go")
	_, cmd := g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	g.Update(cmd())
	assert.Contains(t, g.View(100, 20), "Press Enter to play it now")

	_, cmd = g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "local://m1", msg.Screen.(*playScreen).reference)
	assert.Equal(t, []string{"local://m1"}, opened)
	assert.Len(t, gen.inputs, 1)
}

func TestTypingNewTopicAfterSuccessGeneratesAgain(t *testing.T) {
	gen := &fakeGenerator{}
	g := New(context.Background(), gen, func(ref string) screen.Screen {
		t.Fatalf("unexpected play of %s", ref)
		return nil
	})
	typeText(g, "Go")
	_, cmd := g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	g.Update(cmd())

	typeText(g, "Rust")
	_, cmd = g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	g.Update(cmd())
	require.Len(t, gen.inputs, 2)
	assert.Equal(t, "Rust", gen.inputs[1].Topic)
}
