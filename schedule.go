package gridcore

import (
	"sync"
	"sync/atomic"
	"time"
)

// Generation is a monotonically increasing counter that invalidates
// stale asynchronous continuations. A continuation captures the value
// current when it was scheduled and checks Valid before applying its
// result; the most recent scroll/viewport/drag event always wins
// because superseding work bumps the counter instead of queueing.
type Generation struct {
	n atomic.Uint64
}

// Next invalidates all outstanding continuations and returns the new
// current value.
func (g *Generation) Next() uint64 { return g.n.Add(1) }

// Current returns the current value.
func (g *Generation) Current() uint64 { return g.n.Load() }

// Valid reports whether a captured value is still current.
func (g *Generation) Valid(v uint64) bool { return g.n.Load() == v }

// Debouncer coalesces bursts of triggers into one trailing call after a
// quiet period. Repeated autosize triggers during rapid data updates
// collapse into a single recomputation.
type Debouncer struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn after the quiet period, replacing any previously
// scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.interval <= 0 {
		d.timer = nil
		fn()
		return
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Coalescer keeps only the most recent payload between frame ticks.
// Pointer-drag moves are submitted as they arrive and drained once per
// animation frame, so redundant layout work is dropped rather than
// queued.
type Coalescer[T any] struct {
	mu      sync.Mutex
	pending *T
}

// Submit replaces the pending payload.
func (c *Coalescer[T]) Submit(v T) {
	c.mu.Lock()
	c.pending = &v
	c.mu.Unlock()
}

// Take removes and returns the pending payload, if any.
func (c *Coalescer[T]) Take() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		var zero T
		return zero, false
	}
	v := *c.pending
	c.pending = nil
	return v, true
}
