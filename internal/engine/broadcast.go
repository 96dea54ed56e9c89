package engine

import "sync"

// broadcaster fans snapshots out to subscribers. Each subscriber gets a
// one-slot channel holding the newest snapshot; a slow reader skips
// intermediate states but never sees them out of order.
type broadcaster struct {
	mu     sync.Mutex
	latest State
	subs   map[int]chan State
	nextID int
	closed bool
}

func newBroadcaster(initial State) *broadcaster {
	return &broadcaster{
		latest: initial.clone(),
		subs:   make(map[int]chan State),
	}
}

func (b *broadcaster) publish(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.latest = s.clone()
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- b.latest.clone():
		default:
		}
	}
}

// subscribe registers a subscriber that immediately receives the latest
// snapshot. The returned func unsubscribes and closes the channel.
func (b *broadcaster) subscribe() (<-chan State, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan State, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	ch <- b.latest.clone()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
