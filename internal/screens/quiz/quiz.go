// Package quiz renders an engine session: the module list, question pages,
// the quit dialog and the results view.
package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mcqquiz/internal/engine"
	"github.com/abhisek/mcqquiz/internal/router"
	"github.com/abhisek/mcqquiz/internal/screen"
	"github.com/abhisek/mcqquiz/internal/ui/layout"
)

// Session is the subset of *engine.Engine the screen drives.
type Session interface {
	State() engine.State
	Subscribe() (<-chan engine.State, func())
	StartSession(ctx context.Context) <-chan struct{}
	SelectModule(ctx context.Context, moduleID, reference string) <-chan struct{}
	SelectAnswer(option int)
	Skip()
	OnPageChanged(page int)
	EndTest()
	Restart()
	RequestClose()
	OnQuitAttempt()
	DismissQuitDialog()
	ConfirmQuit()
}

var _ Session = (*engine.Engine)(nil)

// QuizScreen implements screen.Screen for a running session.
type QuizScreen struct {
	session    Session
	ctx        context.Context
	closeDelay time.Duration

	updates     <-chan engine.State
	unsubscribe func()

	state       engine.State
	started     bool
	page        int
	cursor      int
	moduleIndex int
	closing     bool

	// autoplay is the reference selected as soon as the module list shows.
	autoplay string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeCapturer = (*QuizScreen)(nil)

// New creates a QuizScreen. closeDelay is how long the closing overlay
// stays up before the program exits.
func New(ctx context.Context, session Session, closeDelay time.Duration) *QuizScreen {
	return &QuizScreen{
		session:    session,
		ctx:        ctx,
		closeDelay: closeDelay,
		state:      session.State(),
	}
}

// StartWith makes the screen pick the module at reference once the module
// list arrives instead of waiting for a choice.
func (s *QuizScreen) StartWith(reference string) *QuizScreen {
	s.autoplay = reference
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	s.session.StartSession(s.ctx)
	s.updates, s.unsubscribe = s.session.Subscribe()
	return waitForSnapshot(s.updates)
}

func (s *QuizScreen) Title() string {
	if s.state.ModuleTitle != "" {
		return s.state.ModuleTitle
	}
	return "Quiz"
}

// CapturesEscape reports true: Esc opens the quit dialog or leaves the
// session through the engine rather than popping the screen directly.
func (s *QuizScreen) CapturesEscape() bool { return true }

// Stats returns the score line shown in the header while questions are up.
func (s *QuizScreen) Stats() *layout.Stats {
	if s.state.Mode() != engine.ModeQuestion && s.state.Mode() != engine.ModeResults {
		return nil
	}
	return &layout.Stats{
		Correct:  s.state.CorrectAnswers,
		Answered: s.state.RevealedCount(),
		Streak:   s.state.Streak,
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.state.QuitDialogVisible {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.state.Mode() {
	case engine.ModeModuleSelect:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Start module"},
			{Key: "Esc", Description: "Back"},
		}
	case engine.ModeQuestion:
		hints := []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "←→", Description: "Page"},
			{Key: "S", Description: "Skip"},
		}
		if s.state.EndTestVisible {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "End test"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
	case engine.ModeResults:
		return []layout.KeyHint{
			{Key: "R", Description: "Restart"},
			{Key: "Q", Description: "Quit"},
			{Key: "Esc", Description: "Back"},
		}
	case engine.ModeClosing:
		return nil
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		return s.handleSnapshot(msg.State)

	case closeDoneMsg:
		return s, tea.Quit

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleSnapshot(st engine.State) (screen.Screen, tea.Cmd) {
	prevPage := s.page
	s.state = st
	s.page = st.CurrentIndex
	if s.page != prevPage {
		s.cursor = 0
	}
	if st.QuizStarted {
		s.started = true
	}
	if s.moduleIndex >= len(st.ModuleOptions) {
		s.moduleIndex = 0
	}

	cmds := []tea.Cmd{waitForSnapshot(s.updates)}

	switch st.Mode() {
	case engine.ModeClosing:
		if !s.closing {
			s.closing = true
			cmds = append(cmds, tea.Tick(s.closeDelay, func(time.Time) tea.Msg {
				return closeDoneMsg{}
			}))
		}
	case engine.ModeModuleSelect:
		if s.autoplay != "" {
			ref := s.autoplay
			s.autoplay = ""
			for i, m := range st.ModuleOptions {
				if m.Reference == ref {
					s.moduleIndex = i
					s.session.SelectModule(s.ctx, m.Key(), m.Reference)
					break
				}
			}
		}
	case engine.ModeNotStarted:
		if s.started {
			return s, s.leave()
		}
	}
	return s, tea.Batch(cmds...)
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.state.QuitDialogVisible {
		switch key {
		case "y", "Y", "enter":
			s.session.ConfirmQuit()
		case "n", "N", "esc":
			s.session.DismissQuitDialog()
		}
		return s, nil
	}

	switch s.state.Mode() {
	case engine.ModeModuleSelect:
		return s.handleModuleKey(key)
	case engine.ModeQuestion:
		return s.handleQuestionKey(key)
	case engine.ModeResults:
		switch key {
		case "r", "R":
			s.session.Restart()
			return s, nil
		case "q", "Q":
			s.session.RequestClose()
			return s, nil
		}
	case engine.ModeClosing:
		return s, nil
	}

	if key == "esc" {
		s.session.Restart()
		return s, s.leave()
	}
	return s, nil
}

func (s *QuizScreen) handleModuleKey(key string) (screen.Screen, tea.Cmd) {
	mods := s.state.ModuleOptions
	switch key {
	case "up", "k":
		if s.moduleIndex > 0 {
			s.moduleIndex--
		}
	case "down", "j":
		if s.moduleIndex < len(mods)-1 {
			s.moduleIndex++
		}
	case "enter":
		if s.moduleIndex < len(mods) {
			m := mods[s.moduleIndex]
			s.session.SelectModule(s.ctx, m.Key(), m.Reference)
		}
	case "esc":
		s.session.Restart()
		return s, s.leave()
	}
	return s, nil
}

func (s *QuizScreen) handleQuestionKey(key string) (screen.Screen, tea.Cmd) {
	cur, ok := s.state.Current()
	if !ok {
		return s, nil
	}

	switch key {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		s.session.SelectAnswer(int(key[0] - '1'))
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(cur.ShuffledOptions)-1 {
			s.cursor++
		}
	case "enter":
		if cur.Revealed {
			s.session.Skip()
		} else {
			s.session.SelectAnswer(s.cursor)
		}
	case "s", "S":
		s.session.Skip()
	case "left", "h":
		s.session.OnPageChanged(s.state.CurrentIndex - 1)
	case "right", "l":
		s.session.OnPageChanged(s.state.CurrentIndex + 1)
	case "e", "E":
		if s.state.EndTestVisible {
			s.session.EndTest()
		}
	case "esc":
		s.session.OnQuitAttempt()
	}
	return s, nil
}

// leave stops listening to the engine and pops the screen.
func (s *QuizScreen) leave() tea.Cmd {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.updates = nil
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// waitForSnapshot blocks on the next published state. A closed or nil
// channel produces no message.
func waitForSnapshot(ch <-chan engine.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{State: st}
	}
}
