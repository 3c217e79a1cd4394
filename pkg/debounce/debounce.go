// Package debounce provides a trailing-edge debouncer: a burst of calls
// collapses into a single invocation of the wrapped function, fired once the
// burst has been quiet for the configured wait.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid calls into one delayed invocation of fn. At most
// one execution is pending at a time; the arguments delivered are exactly
// those of the most recent Call. Errors or panics inside fn are the caller's
// responsibility.
type Debouncer[T any] struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func(T)
	timer *time.Timer

	// gen tags the pending invocation. Stop on an already-fired timer
	// returns false and cannot recall the callback, so the callback itself
	// rechecks the generation and becomes a no-op when superseded.
	gen uint64
}

// New creates a Debouncer invoking fn after wait of inactivity.
func New[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{wait: wait, fn: fn}
}

// Call schedules fn(arg) after the wait period. A call arriving before the
// pending invocation runs supersedes it, even when the timer has already
// fired.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(arg)
	})
}

// Cancel drops any pending invocation, including one whose timer has fired
// but whose callback has not yet run. Safe to call when nothing is pending.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
