package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the quiet period a batch waits for before it is
// delivered.
const DefaultDebounceDuration = 250 * time.Millisecond

// batcher collects events and delivers them as one batch once no new event
// has arrived for the debounce duration. Repeated events for the same path
// merge their types so a save that writes then renames reports once.
type batcher struct {
	duration time.Duration
	deliver  Handler

	mu      sync.Mutex
	timer   *time.Timer
	pending []Event
	index   map[string]int
	stopped bool
}

func newBatcher(d time.Duration, deliver Handler) *batcher {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &batcher{duration: d, deliver: deliver, index: make(map[string]int)}
}

// add queues ev and restarts the quiet period.
func (b *batcher) add(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	if i, ok := b.index[ev.Path]; ok {
		b.pending[i].Type |= ev.Type
	} else {
		b.index[ev.Path] = len(b.pending)
		b.pending = append(b.pending, ev)
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.duration, b.flush)
}

// flush delivers whatever is pending right away.
func (b *batcher) flush() {
	b.mu.Lock()
	if b.stopped || len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = nil
	b.index = make(map[string]int)
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	if b.deliver != nil {
		b.deliver(batch)
	}
}

// stop drops pending events; later adds are ignored.
func (b *batcher) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	b.pending = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
