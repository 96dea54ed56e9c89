// Package engine implements the quiz session state machine.
//
// An Engine owns a single State value. Every command takes the engine lock,
// derives a new State from the current one and publishes it to
// subscribers. Fetches, progress writes and the auto-advance countdown run
// in background goroutines that re-acquire the lock and apply their change
// to whatever State is current when they resume.
package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

// Engine is the quiz session state machine. It is safe for concurrent use.
type Engine struct {
	source   QuestionSource
	progress ProgressStore
	answers  AnswerStore
	history  HistoryStore
	feedback FeedbackSignal
	log      *zap.Logger
	opts     options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	bc     *broadcaster

	mu          sync.Mutex
	state       State
	epoch       uint64
	timerCancel context.CancelFunc
	closed      bool

	// written closes once the last results write has finished.
	written chan struct{}
}

// New creates an Engine in the not-started state.
func New(deps Deps, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	signal := deps.Feedback
	if signal == nil {
		signal = &silentSignal{}
	}
	signal.SetMuted(!o.soundEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	st := initialState(!signal.IsMuted(), o.advanceDelay)

	return &Engine{
		source:   deps.Source,
		progress: deps.Progress,
		answers:  deps.Answers,
		history:  deps.History,
		feedback: signal,
		log:      logger.Named("engine"),
		opts:     o,
		ctx:      ctx,
		cancel:   cancel,
		bc:       newBroadcaster(st),
		state:    st,
	}
}

// State returns the current snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Subscribe returns a channel that receives the current snapshot at once and
// every later one. Call the returned func to stop receiving.
func (e *Engine) Subscribe() (<-chan State, func()) {
	return e.bc.subscribe()
}

// Close cancels the timer and in-flight loads, waits for background work to
// finish and releases the feedback signal. Commands after Close are no-ops.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.cancelTimerLocked()
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
	e.bc.close()

	if err := e.feedback.Dispose(); err != nil {
		return fmt.Errorf("dispose feedback signal: %w", err)
	}
	return nil
}

// commitLocked derives the next state with fn and publishes it. Entering the
// results view stops the timer and schedules the progress write.
func (e *Engine) commitLocked(fn func(*State)) State {
	prev := e.state
	next := prev.clone()
	fn(&next)
	e.state = next
	e.bc.publish(next)

	if !prev.ShowResults && next.ShowResults {
		e.cancelTimerLocked()
		e.persistResultsLocked(next)
	}
	return next
}

// goLocked runs fn in a tracked goroutine. Callers must hold e.mu.
func (e *Engine) goLocked(fn func()) bool {
	if e.closed {
		return false
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
	return true
}

// taskContext derives a context that is cancelled when either parent or
// the engine is done.
func (e *Engine) taskContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(e.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// StartSession begins a session and loads the module list, or the direct
// module's questions when one is configured. The returned channel closes
// when loading finishes. A session that is already started is left alone.
func (e *Engine) StartSession(ctx context.Context) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(ctx)
}

func (e *Engine) startLocked(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if e.closed || e.state.QuizStarted {
		close(done)
		return done
	}

	e.cancelTimerLocked()
	epoch := e.epoch
	direct := e.opts.direct
	written := e.written
	e.commitLocked(func(s *State) {
		s.QuizStarted = true
		s.Loading = true
		s.SessionID = e.opts.newID()
		if direct != nil {
			s.ModuleID = direct.ModuleID
			s.ModuleTitle = direct.Title
		}
	})

	e.log.Info("session started", zap.String("session_id", e.state.SessionID))

	taskCtx, release := e.taskContext(ctx)
	started := e.goLocked(func() {
		defer close(done)
		defer release()
		awaitWrite(taskCtx, written)
		if direct != nil {
			e.loadQuestions(taskCtx, epoch, direct.ModuleID, direct.Reference)
			return
		}
		e.loadModules(taskCtx, epoch)
	})
	if !started {
		release()
		close(done)
	}
	return done
}

// SelectModule loads the questions of the chosen module. It only applies
// while the module list is showing.
func (e *Engine) SelectModule(ctx context.Context, moduleID, reference string) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	done := make(chan struct{})
	if e.closed || !e.state.ShowModuleOptions || e.state.Loading {
		close(done)
		return done
	}

	title := moduleID
	for _, m := range e.state.ModuleOptions {
		if m.Key() == moduleID {
			title = m.Title
			break
		}
	}

	epoch := e.epoch
	written := e.written
	e.commitLocked(func(s *State) {
		s.Loading = true
		s.ShowModuleOptions = false
		s.ModuleOptions = nil
		s.ModuleID = moduleID
		s.ModuleTitle = title
	})

	e.log.Info("module selected", zap.String("module_id", moduleID), zap.String("reference", reference))

	taskCtx, release := e.taskContext(ctx)
	if !e.goLocked(func() {
		defer close(done)
		defer release()
		awaitWrite(taskCtx, written)
		e.loadQuestions(taskCtx, epoch, moduleID, reference)
	}) {
		release()
		close(done)
	}
	return done
}

// awaitWrite blocks until a pending results write lands so that loaders
// read fresh progress and answers.
func awaitWrite(ctx context.Context, written <-chan struct{}) {
	if written == nil {
		return
	}
	select {
	case <-written:
	case <-ctx.Done():
	}
}

func (e *Engine) loadModules(ctx context.Context, epoch uint64) {
	mods, err := e.source.FetchModules(ctx)
	if err != nil {
		e.log.Warn("fetch modules", zap.Error(err))
		mods = nil
	}

	var progress []quiz.ModuleProgress
	if e.progress != nil && len(mods) > 0 {
		progress, err = e.progress.AllProgress(ctx)
		if err != nil {
			e.log.Warn("load module progress", zap.Error(err))
		}
	}
	mods = quiz.AnnotateProgress(mods, progress)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.epoch != epoch {
		return
	}
	e.commitLocked(func(s *State) {
		s.Loading = false
		s.ModuleOptions = mods
		s.ShowModuleOptions = len(mods) > 0
	})
}

func (e *Engine) loadQuestions(ctx context.Context, epoch uint64, moduleID, reference string) {
	qs, err := e.source.FetchQuestions(ctx, reference)
	if err != nil {
		e.log.Warn("fetch questions", zap.String("reference", reference), zap.Error(err))
		qs = nil
	}

	var saved []quiz.AnswerRecord
	if e.answers != nil && moduleID != "" && len(qs) > 0 {
		saved, err = e.answers.LoadAnswers(ctx, moduleID)
		if err != nil {
			e.log.Warn("load saved answers", zap.String("module_id", moduleID), zap.Error(err))
			saved = nil
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.epoch != epoch {
		return
	}

	valid := make([]quiz.Question, 0, len(qs))
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			e.log.Warn("dropping question", zap.Error(err))
			continue
		}
		valid = append(valid, q)
	}
	sqs := make([]quiz.SessionQuestion, 0, len(valid))
	for _, q := range quiz.AssignIDs(valid) {
		sqs = append(sqs, quiz.NewSessionQuestion(q, e.opts.rng))
	}

	resumed, correct := restoreAnswers(sqs, saved)
	current := 0
	for i, q := range sqs {
		if !q.Revealed {
			current = i
			break
		}
		current = i
	}

	e.commitLocked(func(s *State) {
		s.Loading = false
		s.Questions = sqs
		s.TotalQuestions = len(sqs)
		s.CurrentIndex = current
		s.CorrectAnswers = correct
		s.RemainingSeconds = e.opts.advanceDelay
		s.VisitedPages = map[int]struct{}{}
		if len(sqs) > 0 {
			for i := 0; i <= current; i++ {
				s.VisitedPages[i] = struct{}{}
			}
		}
		s.EndTestVisible = s.IsLastPage()
	})

	e.log.Info("questions loaded",
		zap.String("module_id", moduleID),
		zap.Int("count", len(sqs)),
		zap.Int("resumed", resumed))
}

// restoreAnswers reveals questions that have a saved answer and returns how
// many were restored and how many of those are correct.
func restoreAnswers(sqs []quiz.SessionQuestion, saved []quiz.AnswerRecord) (restored, correct int) {
	if len(saved) == 0 {
		return 0, 0
	}
	byQuestion := make(map[int]int, len(saved))
	for _, a := range saved {
		byQuestion[a.QuestionID] = a.OptionIndex
	}
	for i := range sqs {
		orig, ok := byQuestion[sqs[i].Question.ID]
		if !ok {
			continue
		}
		idx := sqs[i].ShuffledIndex(orig)
		if idx < 0 {
			continue
		}
		sqs[i].SelectedIndex = idx
		sqs[i].Revealed = true
		restored++
		if sqs[i].IsCorrect() {
			correct++
		}
	}
	return restored, correct
}

// SelectAnswer reveals the current question with the given shuffled option.
// It is a no-op when there is no current question or it is already revealed.
func (e *Engine) SelectAnswer(option int) {
	e.mu.Lock()

	s := e.state
	cur, ok := s.Current()
	if e.closed || s.Loading || s.ShowResults || !ok || cur.Revealed ||
		option < 0 || option >= len(cur.ShuffledOptions) {
		e.mu.Unlock()
		return
	}

	correct := option == cur.ShuffledAnswerIndex
	next := e.commitLocked(func(s *State) {
		q := &s.Questions[s.CurrentIndex]
		q.SelectedIndex = option
		q.Revealed = true
		if correct {
			s.Streak++
			s.CorrectAnswers++
			if s.Streak > s.LongestStreak {
				s.LongestStreak = s.Streak
			}
		} else {
			s.Streak = 0
		}
	})

	if next.AllRevealed() || next.CurrentIndex < len(next.Questions)-1 {
		e.startTimerLocked()
	}
	e.mu.Unlock()

	if correct {
		e.feedback.PlayPositive()
	} else {
		e.feedback.PlayIncorrect()
	}
}

// Skip cancels the countdown and moves to the next page. An unanswered
// question counts as skipped. Skipping an answered last question ends the
// session without counting a skip.
func (e *Engine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTimerLocked()
	cur, ok := e.state.Current()
	if e.closed || e.state.Loading || e.state.ShowResults || !ok {
		return
	}

	e.commitLocked(func(s *State) {
		if !cur.Revealed {
			s.SkippedAnswers++
		}
		s.AdvanceTimerVisible = false
		advance(s, e.opts.advanceDelay)
	})
}

// OnPageChanged records that the presentation moved to page.
func (e *Engine) OnPageChanged(page int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state.ShowResults || page < 0 || page >= len(e.state.Questions) {
		return
	}
	e.cancelTimerLocked()
	e.commitLocked(func(s *State) {
		s.CurrentIndex = page
		s.VisitedPages[page] = struct{}{}
		s.AdvanceTimerVisible = false
		s.EndTestVisible = s.EndTestVisible || s.IsLastPage()
	})
}

// EndTest shows the results regardless of how many questions were answered.
// Calling it again while results are showing does nothing.
func (e *Engine) EndTest() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state.ShowResults || e.state.Loading || len(e.state.Questions) == 0 {
		return
	}
	e.commitLocked(func(s *State) {
		finish(s, false)
	})
}

// Pause writes partial progress and the answers given so far for the current
// module. It blocks until the writes finish; failures are logged.
func (e *Engine) Pause(ctx context.Context) {
	e.mu.Lock()
	s := e.state.clone()
	e.mu.Unlock()

	if s.ModuleID == "" || len(s.Questions) == 0 || s.ShowResults {
		return
	}

	correct, _ := tally(s)
	rec := quiz.ModuleProgress{
		ModuleID:     s.ModuleID,
		Correct:      correct,
		Total:        len(s.Questions),
		PagesVisited: len(s.VisitedPages),
		UpdatedAt:    e.opts.now(),
	}
	if e.progress != nil {
		if err := e.progress.UpsertProgress(ctx, rec); err != nil {
			e.log.Warn("save partial progress", zap.String("module_id", s.ModuleID), zap.Error(err))
		}
	}
	if e.answers != nil {
		if err := e.answers.SaveAnswers(ctx, s.ModuleID, answerRecords(s)); err != nil {
			e.log.Warn("save answers", zap.String("module_id", s.ModuleID), zap.Error(err))
		}
	}
	e.log.Info("session paused", zap.String("module_id", s.ModuleID), zap.Int("correct", correct))
}

// ToggleSound flips the feedback mute state and mirrors it in the snapshot.
func (e *Engine) ToggleSound() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.feedback.SetMuted(!e.feedback.IsMuted())
	enabled := !e.feedback.IsMuted()
	e.commitLocked(func(s *State) {
		s.SoundEnabled = enabled
	})
}

// Restart discards the session, keeping only the sound setting. In-flight
// loads from the old session are ignored when they complete.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.cancelTimerLocked()
	e.epoch++
	sound := e.state.SoundEnabled
	e.commitLocked(func(s *State) {
		*s = initialState(sound, e.opts.advanceDelay)
	})

	if e.opts.autoStart {
		e.startLocked(e.ctx)
	}
}

// RequestClose shows the closing overlay.
func (e *Engine) RequestClose() {
	e.setFlags(func(s *State) { s.Closing = true })
}

// OnQuitAttempt shows the quit confirmation dialog.
func (e *Engine) OnQuitAttempt() {
	e.setFlags(func(s *State) { s.QuitDialogVisible = true })
}

// DismissQuitDialog hides the quit confirmation dialog.
func (e *Engine) DismissQuitDialog() {
	e.setFlags(func(s *State) { s.QuitDialogVisible = false })
}

// ConfirmQuit hides the dialog and shows the closing overlay.
func (e *Engine) ConfirmQuit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.cancelTimerLocked()
	e.commitLocked(func(s *State) {
		s.QuitDialogVisible = false
		s.AdvanceTimerVisible = false
		s.Closing = true
	})
}

func (e *Engine) setFlags(fn func(*State)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.commitLocked(fn)
}

// advance moves to the next page, or finishes the session past the last one.
func advance(s *State, delay int) {
	next := s.CurrentIndex + 1
	if next >= len(s.Questions) {
		finish(s, true)
		return
	}
	s.CurrentIndex = next
	s.RemainingSeconds = delay
	s.AdvanceTimerVisible = false
	s.VisitedPages[next] = struct{}{}
	s.EndTestVisible = s.EndTestVisible || s.IsLastPage()
}

// finish recomputes the score from the questions and shows the results.
func finish(s *State, reachedEnd bool) {
	correct, skipped := tally(*s)
	s.CorrectAnswers = correct
	s.SkippedAnswers = skipped
	s.Completed = reachedEnd || s.AllRevealed()
	s.AdvanceTimerVisible = false
	s.ShowResults = true
}

func answerRecords(s State) []quiz.AnswerRecord {
	var out []quiz.AnswerRecord
	for _, q := range s.Questions {
		if !q.Revealed {
			continue
		}
		out = append(out, quiz.AnswerRecord{
			ModuleID:    s.ModuleID,
			QuestionID:  q.Question.ID,
			OptionIndex: q.OriginalIndex(q.SelectedIndex),
		})
	}
	return out
}
