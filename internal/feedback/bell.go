// Package feedback provides the correct/incorrect answer cue.
package feedback

import (
	"io"
	"sync"

	"go.uber.org/zap"
)

const bel = "\a"

// Bell rings the terminal bell: once for a correct answer, twice for an
// incorrect one. It is safe for concurrent use.
type Bell struct {
	mu       sync.Mutex
	w        io.Writer
	muted    bool
	disposed bool
	log      *zap.Logger
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer, logger *zap.Logger) *Bell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bell{w: w, log: logger.Named("feedback")}
}

// PlayPositive rings once.
func (b *Bell) PlayPositive() {
	b.ring(1)
}

// PlayIncorrect rings twice.
func (b *Bell) PlayIncorrect() {
	b.ring(2)
}

func (b *Bell) ring(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.muted || b.disposed || b.w == nil {
		return
	}
	for range n {
		if _, err := io.WriteString(b.w, bel); err != nil {
			b.log.Debug("ring bell", zap.Error(err))
			return
		}
	}
}

// SetMuted mutes or unmutes the bell.
func (b *Bell) SetMuted(muted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.muted = muted
}

// IsMuted reports whether the bell is muted.
func (b *Bell) IsMuted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.muted
}

// Dispose stops all further output.
func (b *Bell) Dispose() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disposed = true
	return nil
}

// Nop is a silent signal that only tracks the mute flag.
type Nop struct {
	mu    sync.Mutex
	muted bool
}

func (n *Nop) PlayPositive()  {}
func (n *Nop) PlayIncorrect() {}

func (n *Nop) SetMuted(muted bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.muted = muted
}

func (n *Nop) IsMuted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.muted
}

func (n *Nop) Dispose() error { return nil }
