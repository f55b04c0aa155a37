package editor

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of triggers into a single call. The
// most recently supplied function runs once the quiet period elapses
// with no further triggers; intermediate functions are discarded.
//
// At most one call is ever in flight. A cycle that comes due while a
// call is still running is deferred: once the call resolves, a fresh
// quiet period starts for whatever trigger arrived in the meantime.
type Debouncer struct {
	delay time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	fn       func()
	inFlight bool
	rearm    bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger replaces the pending function and restarts the quiet-period
// timer.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.inFlight {
		// Previous call still resolving; rerun the cycle afterwards.
		d.rearm = true
		d.mu.Unlock()
		return
	}

	fn := d.fn
	d.fn = nil
	if fn == nil {
		d.mu.Unlock()
		return
	}
	d.inFlight = true
	d.mu.Unlock()

	fn()

	d.mu.Lock()
	d.inFlight = false
	if d.rearm {
		d.rearm = false
		if d.fn != nil {
			if d.timer != nil {
				d.timer.Stop()
			}
			d.timer = time.AfterFunc(d.delay, d.fire)
		}
	}
	d.mu.Unlock()
}

// Cancel drops any pending cycle. An in-flight call is not
// interrupted, but it will not be followed by a rearmed one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	d.rearm = false
}
