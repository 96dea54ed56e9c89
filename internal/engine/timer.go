package engine

import "context"

// startTimerLocked replaces any running countdown with a new one. Callers
// must hold e.mu.
func (e *Engine) startTimerLocked() {
	e.cancelTimerLocked()
	if e.closed {
		return
	}

	ctx, cancel := context.WithCancel(e.ctx)
	e.timerCancel = cancel
	e.commitLocked(func(s *State) {
		s.AdvanceTimerVisible = true
		s.RemainingSeconds = e.opts.advanceDelay
	})
	e.goLocked(func() { e.runTimer(ctx) })
}

// cancelTimerLocked stops the running countdown. Because cancellation
// happens under e.mu and runTimer checks ctx under e.mu, a cancelled timer
// never mutates state again.
func (e *Engine) cancelTimerLocked() {
	if e.timerCancel != nil {
		e.timerCancel()
		e.timerCancel = nil
	}
}

func (e *Engine) runTimer(ctx context.Context) {
	ticks, stop := e.opts.ticker(e.opts.tick)
	defer stop()

	remaining := e.opts.advanceDelay
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
		}
		remaining--

		e.mu.Lock()
		if ctx.Err() != nil {
			e.mu.Unlock()
			return
		}
		if remaining >= 1 {
			e.commitLocked(func(s *State) {
				s.RemainingSeconds = remaining
			})
			e.mu.Unlock()
			continue
		}

		e.cancelTimerLocked()
		e.commitLocked(func(s *State) {
			advance(s, e.opts.advanceDelay)
		})
		e.mu.Unlock()
		return
	}
}
