package engine

import (
	"maps"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

// Mode is the user-visible display mode derived from a State.
type Mode int

const (
	ModeNotStarted Mode = iota
	ModeLoading
	ModeModuleSelect
	ModeQuestion
	ModeEmpty
	ModeResults
	ModeClosing
)

func (m Mode) String() string {
	switch m {
	case ModeNotStarted:
		return "not-started"
	case ModeLoading:
		return "loading"
	case ModeModuleSelect:
		return "module-select"
	case ModeQuestion:
		return "question"
	case ModeEmpty:
		return "empty"
	case ModeResults:
		return "results"
	case ModeClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a quiz session. Snapshots handed out by
// the Engine share no memory with its internal state.
type State struct {
	SessionID   string
	QuizStarted bool
	Loading     bool

	ModuleOptions     []quiz.Module
	ShowModuleOptions bool

	Questions      []quiz.SessionQuestion
	CurrentIndex   int
	TotalQuestions int
	ModuleID       string
	ModuleTitle    string

	CorrectAnswers int
	SkippedAnswers int
	Streak         int
	LongestStreak  int

	ShowResults bool
	Completed   bool

	RemainingSeconds    int
	AdvanceTimerVisible bool
	EndTestVisible      bool

	VisitedPages map[int]struct{}

	SoundEnabled      bool
	QuitDialogVisible bool
	Closing           bool
}

// Mode derives the single display mode. Closing overlays everything, then
// results, loading, the module list and finally the question pages.
func (s State) Mode() Mode {
	switch {
	case s.Closing:
		return ModeClosing
	case s.ShowResults:
		return ModeResults
	case s.Loading:
		return ModeLoading
	case s.ShowModuleOptions:
		return ModeModuleSelect
	case len(s.Questions) > 0:
		return ModeQuestion
	case s.QuizStarted:
		return ModeEmpty
	default:
		return ModeNotStarted
	}
}

// Current returns the question on the current page.
func (s State) Current() (quiz.SessionQuestion, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return quiz.SessionQuestion{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// IsLastPage reports whether the current page is the final question.
func (s State) IsLastPage() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)-1
}

// Visited reports whether page has been shown this session.
func (s State) Visited(page int) bool {
	_, ok := s.VisitedPages[page]
	return ok
}

// AllRevealed reports whether every question has been answered.
func (s State) AllRevealed() bool {
	for _, q := range s.Questions {
		if !q.Revealed {
			return false
		}
	}
	return len(s.Questions) > 0
}

// RevealedCount returns the number of answered questions.
func (s State) RevealedCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Revealed {
			n++
		}
	}
	return n
}

func (s State) clone() State {
	out := s
	if s.ModuleOptions != nil {
		out.ModuleOptions = make([]quiz.Module, len(s.ModuleOptions))
		for i, m := range s.ModuleOptions {
			out.ModuleOptions[i] = m.Clone()
		}
	}
	if s.Questions != nil {
		out.Questions = make([]quiz.SessionQuestion, len(s.Questions))
		for i, q := range s.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	out.VisitedPages = maps.Clone(s.VisitedPages)
	if out.VisitedPages == nil {
		out.VisitedPages = map[int]struct{}{}
	}
	return out
}

// tally counts correct answers among revealed questions and skipped pages
// among visited, unrevealed ones.
func tally(s State) (correct, skipped int) {
	for i, q := range s.Questions {
		if q.IsCorrect() {
			correct++
		}
		if !q.Revealed && s.Visited(i) {
			skipped++
		}
	}
	return correct, skipped
}

func initialState(soundEnabled bool, delay int) State {
	return State{
		SoundEnabled:     soundEnabled,
		RemainingSeconds: delay,
		VisitedPages:     map[int]struct{}{},
	}
}
