package quiz

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqquiz/internal/engine"
	q "github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/router"
)

// fakeSession records the commands the screen sends.
type fakeSession struct {
	state    engine.State
	ch       chan engine.State
	calls    []string
	answers  []int
	pages    []int
	selected []string
}

func newFakeSession(st engine.State) *fakeSession {
	return &fakeSession{state: st, ch: make(chan engine.State, 1)}
}

func (f *fakeSession) State() engine.State { return f.state }
func (f *fakeSession) Subscribe() (<-chan engine.State, func()) {
	return f.ch, func() { f.calls = append(f.calls, "unsubscribe") }
}
func (f *fakeSession) StartSession(context.Context) <-chan struct{} {
	f.calls = append(f.calls, "start")
	return nil
}
func (f *fakeSession) SelectModule(_ context.Context, id, _ string) <-chan struct{} {
	f.selected = append(f.selected, id)
	return nil
}
func (f *fakeSession) SelectAnswer(option int) { f.answers = append(f.answers, option) }
func (f *fakeSession) Skip()                   { f.calls = append(f.calls, "skip") }
func (f *fakeSession) OnPageChanged(page int)  { f.pages = append(f.pages, page) }
func (f *fakeSession) EndTest()                { f.calls = append(f.calls, "end") }
func (f *fakeSession) Restart()                { f.calls = append(f.calls, "restart") }
func (f *fakeSession) RequestClose()           { f.calls = append(f.calls, "close") }
func (f *fakeSession) OnQuitAttempt()          { f.calls = append(f.calls, "quit-attempt") }
func (f *fakeSession) DismissQuitDialog()      { f.calls = append(f.calls, "dismiss") }
func (f *fakeSession) ConfirmQuit()            { f.calls = append(f.calls, "confirm") }

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func questionState() engine.State {
	sq := q.SessionQuestion{
		Question:            q.Question{ID: 1, Prompt: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo"}, AnswerIndex: 0},
		ShuffledOptions:     []string{"Rome", "Paris", "Oslo"},
		ShuffledAnswerIndex: 1,
		SelectedIndex:       -1,
	}
	return engine.State{
		QuizStarted:    true,
		Questions:      []q.SessionQuestion{sq, sq},
		TotalQuestions: 2,
		ModuleID:       "geo",
		ModuleTitle:    "Geography",
		VisitedPages:   map[int]struct{}{0: {}},
	}
}

func newScreen(t *testing.T, st engine.State) (*QuizScreen, *fakeSession) {
	t.Helper()
	f := newFakeSession(st)
	s := New(context.Background(), f, 10*time.Millisecond)
	require.NotNil(t, s.Init())
	s.Update(snapshotMsg{State: st})
	return s, f
}

func TestInitStartsAndSubscribes(t *testing.T) {
	f := newFakeSession(engine.State{})
	s := New(context.Background(), f, 0)

	cmd := s.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"start"}, f.calls)

	f.ch <- questionState()
	msg := cmd()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	assert.Equal(t, "geo", snap.State.ModuleID)
}

func TestWaitForSnapshotClosedChannel(t *testing.T) {
	ch := make(chan engine.State)
	close(ch)
	assert.Nil(t, waitForSnapshot(ch)())
	assert.Nil(t, waitForSnapshot(nil))
}

func TestNumberKeySelectsAnswer(t *testing.T) {
	s, f := newScreen(t, questionState())

	s.Update(key('2'))
	s.Update(key('9'))

	assert.Equal(t, []int{1, 8}, f.answers)
}

func TestCursorAndEnter(t *testing.T) {
	s, f := newScreen(t, questionState())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, s.cursor)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, []int{2}, f.answers)
}

func TestEnterOnRevealedSkips(t *testing.T) {
	st := questionState()
	st.Questions[0].Revealed = true
	st.Questions[0].SelectedIndex = 1
	s, f := newScreen(t, st)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, f.calls, "skip")
	assert.Empty(t, f.answers)
}

func TestPageKeys(t *testing.T) {
	st := questionState()
	st.CurrentIndex = 1
	s, f := newScreen(t, st)

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, []int{0, 2}, f.pages)
}

func TestCursorResetsOnPageChange(t *testing.T) {
	s, _ := newScreen(t, questionState())
	s.cursor = 2

	next := questionState()
	next.CurrentIndex = 1
	s.Update(snapshotMsg{State: next})

	assert.Equal(t, 0, s.cursor)
}

func TestEndTestOnlyWhenVisible(t *testing.T) {
	s, f := newScreen(t, questionState())
	s.Update(key('e'))
	assert.NotContains(t, f.calls, "end")

	st := questionState()
	st.EndTestVisible = true
	s.Update(snapshotMsg{State: st})
	s.Update(key('e'))
	assert.Contains(t, f.calls, "end")
}

func TestEscOpensQuitDialog(t *testing.T) {
	s, f := newScreen(t, questionState())

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Contains(t, f.calls, "quit-attempt")

	st := questionState()
	st.QuitDialogVisible = true
	s.Update(snapshotMsg{State: st})
	assert.Contains(t, s.View(80, 24), "Leave this quiz?")

	s.Update(key('n'))
	assert.Contains(t, f.calls, "dismiss")
	s.Update(key('y'))
	assert.Contains(t, f.calls, "confirm")
}

func TestClosingSchedulesQuit(t *testing.T) {
	s, _ := newScreen(t, questionState())

	st := questionState()
	st.Closing = true
	_, cmd := s.Update(snapshotMsg{State: st})
	require.NotNil(t, cmd)
	assert.True(t, s.closing)

	_, cmd = s.Update(closeDoneMsg{})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModuleSelect(t *testing.T) {
	st := engine.State{
		QuizStarted:       true,
		ShowModuleOptions: true,
		ModuleOptions: []q.Module{
			{ID: "a", Title: "Alpha", Reference: "https://x/a.json"},
			{ID: "b", Title: "Beta", Reference: "https://x/b.json", Progress: &q.ModuleProgress{ModuleID: "b", Correct: 3, Total: 4}},
		},
	}
	s, f := newScreen(t, st)

	view := s.View(100, 30)
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "3/4 correct")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, []string{"b"}, f.selected)
}

func TestStartWithSelectsModuleOnce(t *testing.T) {
	st := engine.State{
		QuizStarted:       true,
		ShowModuleOptions: true,
		ModuleOptions: []q.Module{
			{ID: "a", Title: "Alpha", Reference: "https://x/a.json"},
			{Title: "Generated", Reference: "local://gen-1"},
		},
	}
	f := newFakeSession(st)
	s := New(context.Background(), f, 0).StartWith("local://gen-1")
	s.Init()

	s.Update(snapshotMsg{State: st})
	assert.Equal(t, []string{"local://gen-1"}, f.selected)

	s.Update(snapshotMsg{State: st})
	assert.Len(t, f.selected, 1)
}

func TestStartWithUnknownModuleShowsList(t *testing.T) {
	st := engine.State{
		QuizStarted:       true,
		ShowModuleOptions: true,
		ModuleOptions:     []q.Module{{ID: "a", Title: "Alpha", Reference: "https://x/a.json"}},
	}
	f := newFakeSession(st)
	s := New(context.Background(), f, 0).StartWith("local://missing")
	s.Init()

	s.Update(snapshotMsg{State: st})
	assert.Empty(t, f.selected)
	assert.Contains(t, s.View(100, 30), "Alpha")
}

func TestResultsView(t *testing.T) {
	st := questionState()
	st.ShowResults = true
	st.Completed = true
	st.CorrectAnswers = 1
	st.SkippedAnswers = 1
	st.LongestStreak = 1
	s, f := newScreen(t, st)

	view := s.View(100, 30)
	assert.Contains(t, view, "Quiz complete!")
	assert.Contains(t, view, "1 / 2 correct")

	s.Update(key('r'))
	assert.Contains(t, f.calls, "restart")
	s.Update(key('q'))
	assert.Contains(t, f.calls, "close")
}

func TestRestartToNotStartedPops(t *testing.T) {
	s, f := newScreen(t, questionState())

	_, cmd := s.Update(snapshotMsg{State: engine.State{}})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Contains(t, f.calls, "unsubscribe")
}

func TestQuestionViewShowsCountdown(t *testing.T) {
	st := questionState()
	st.Questions[0].Revealed = true
	st.Questions[0].SelectedIndex = 0
	st.AdvanceTimerVisible = true
	st.RemainingSeconds = 3
	s, _ := newScreen(t, st)

	view := s.View(100, 30)
	assert.Contains(t, view, "Question 1 of 2")
	assert.Contains(t, view, "Capital of France?")
	assert.Contains(t, view, "Next in 3s")
	assert.True(t, strings.Contains(view, "✓"))
}

func TestStatsOnlyDuringQuestions(t *testing.T) {
	s, _ := newScreen(t, engine.State{QuizStarted: true, Loading: true})
	assert.Nil(t, s.Stats())

	st := questionState()
	st.CorrectAnswers = 1
	st.Streak = 1
	st.Questions[0].Revealed = true
	s.Update(snapshotMsg{State: st})
	require.NotNil(t, s.Stats())
	assert.Equal(t, 1, s.Stats().Answered)
}
