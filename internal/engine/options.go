package engine

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// DefaultAdvanceDelay is the auto-advance countdown in ticks.
const DefaultAdvanceDelay = 2

// DirectModule makes StartSession load one question set directly instead of
// offering a module list.
type DirectModule struct {
	ModuleID  string
	Title     string
	Reference string
}

type options struct {
	advanceDelay   int
	tick           time.Duration
	persistTimeout time.Duration
	soundEnabled   bool
	autoStart      bool
	direct         *DirectModule
	rng            *rand.Rand
	newID          func() string
	now            func() time.Time
	ticker         func(time.Duration) (<-chan time.Time, func())
}

func defaultOptions() options {
	return options{
		advanceDelay:   DefaultAdvanceDelay,
		tick:           time.Second,
		persistTimeout: 5 * time.Second,
		soundEnabled:   true,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID:          uuid.NewString,
		now:            time.Now,
		ticker:         newTicker,
	}
}

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Option configures an Engine.
type Option func(*options)

// WithAdvanceDelay sets how many ticks the auto-advance countdown runs.
func WithAdvanceDelay(ticks int) Option {
	return func(o *options) {
		if ticks > 0 {
			o.advanceDelay = ticks
		}
	}
}

// WithTickInterval sets the countdown tick length. Defaults to one second.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tick = d
		}
	}
}

// WithPersistTimeout bounds each background progress write.
func WithPersistTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.persistTimeout = d
		}
	}
}

// WithSound sets the initial sound state.
func WithSound(enabled bool) Option {
	return func(o *options) { o.soundEnabled = enabled }
}

// WithAutoStart makes Restart begin a new session immediately.
func WithAutoStart(enabled bool) Option {
	return func(o *options) { o.autoStart = enabled }
}

// WithDirectModule skips the module list and loads m on StartSession.
func WithDirectModule(m DirectModule) Option {
	return func(o *options) { o.direct = &m }
}

// WithRand sets the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithClock overrides the time source used for progress timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
