package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqquiz/internal/engine"
	"github.com/abhisek/mcqquiz/internal/generator"
	"github.com/abhisek/mcqquiz/internal/router"
	"github.com/abhisek/mcqquiz/internal/screens/quiz"
	"github.com/abhisek/mcqquiz/internal/store"
)

type fakeSession struct {
	quiz.Session
	sound bool
}

func (f *fakeSession) State() engine.State { return engine.State{SoundEnabled: f.sound} }
func (f *fakeSession) ToggleSound()        { f.sound = !f.sound }

type fakeGenerator struct{}

func (fakeGenerator) Generate(context.Context, generator.Input) (*store.LocalModule, error) {
	return nil, nil
}

func down() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyDown} }
func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func TestStartQuizPushesQuizScreen(t *testing.T) {
	h := New(context.Background(), Options{Session: &fakeSession{}})

	_, cmd := h.Update(enter())
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &quiz.QuizScreen{}, push.Screen)
}

func TestSoundToggleUpdatesLabel(t *testing.T) {
	sess := &fakeSession{sound: true}
	h := New(context.Background(), Options{Session: sess})
	assert.Contains(t, h.View(80, 20), "Sound: on")

	h.Update(down())
	_, cmd := h.Update(enter())
	require.NotNil(t, cmd)
	h.Update(cmd())

	assert.False(t, sess.sound)
	assert.Contains(t, h.View(80, 20), "Sound: off")
	assert.Equal(t, 1, h.menu.Selected)
}

func TestGenerateDisabledWithoutGenerator(t *testing.T) {
	h := New(context.Background(), Options{Session: &fakeSession{}})
	assert.True(t, h.menu.Items[2].Disabled)

	h = New(context.Background(), Options{Session: &fakeSession{}, Generator: fakeGenerator{}})
	assert.False(t, h.menu.Items[2].Disabled)

	h.Update(down())
	h.Update(down())
	_, cmd := h.Update(enter())
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PushScreenMsg)
	assert.True(t, ok)
}

func TestQuitItem(t *testing.T) {
	h := New(context.Background(), Options{Session: &fakeSession{}})
	for range 3 {
		h.Update(down())
	}
	_, cmd := h.Update(enter())
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
