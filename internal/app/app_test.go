package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqquiz/internal/engine"
	q "github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/router"
	"github.com/abhisek/mcqquiz/internal/screens/home"
	"github.com/abhisek/mcqquiz/internal/screens/quiz"
)

type fakeSession struct {
	home.Session
	state engine.State
	calls []string
}

func (f *fakeSession) State() engine.State { return f.state }
func (f *fakeSession) OnQuitAttempt()      { f.calls = append(f.calls, "quit-attempt") }
func (f *fakeSession) Subscribe() (<-chan engine.State, func()) {
	ch := make(chan engine.State)
	return ch, func() {}
}
func (f *fakeSession) StartSession(context.Context) <-chan struct{} {
	f.calls = append(f.calls, "start")
	return nil
}

func TestHomeIsInitialScreen(t *testing.T) {
	m := newAppModel(context.Background(), Options{Session: &fakeSession{}})
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())
}

func TestDirectStartOpensQuiz(t *testing.T) {
	sess := &fakeSession{}
	m := newAppModel(context.Background(), Options{Session: sess, DirectStart: true})
	require.IsType(t, &quiz.QuizScreen{}, m.router.Active())

	assert.NotNil(t, m.Init())
	assert.Equal(t, []string{"start"}, sess.calls)
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(context.Background(), Options{Session: &fakeSession{}})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestEscapeCapturedByQuizScreen(t *testing.T) {
	sess := &fakeSession{state: engine.State{
		QuizStarted: true,
		Questions: []q.SessionQuestion{{
			Question:        q.Question{ID: 1, Prompt: "p", Options: []string{"a", "b"}},
			ShuffledOptions: []string{"a", "b"},
			SelectedIndex:   -1,
		}},
	}}
	m := newAppModel(context.Background(), Options{Session: sess})
	m.router.Push(quiz.New(context.Background(), sess, 0))
	require.Equal(t, 2, m.router.Depth())
	require.Equal(t, []string{"start"}, sess.calls)
	sess.calls = nil

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.router.Depth())
	assert.Equal(t, []string{"quit-attempt"}, sess.calls)
}

func TestEscapePopsPlainScreen(t *testing.T) {
	m := newAppModel(context.Background(), Options{Session: &fakeSession{}})
	m.router.Push(home.New(context.Background(), home.Options{Session: &fakeSession{}}))

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestViewRendersHeaderAndFooter(t *testing.T) {
	m := newAppModel(context.Background(), Options{Session: &fakeSession{}})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := updated.(AppModel).render()
	assert.Contains(t, out, "MCQ Quiz")
	assert.Contains(t, out, "Start quiz")
}
