// Package throttle provides the trailing-edge coalescing timer used for
// drag commits and viewport propagation: bursts collapse into a single
// trailing run carrying the last scheduled task, and Stop cancels the timer
// so teardown can never fire into dead state.
package throttle

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Schedule calls into one trailing run per
// interval. The last task scheduled inside a window always wins.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	stopped bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Schedule queues task to run after the interval, replacing any task already
// pending. A task scheduled after Stop is dropped.
func (d *Debouncer) Schedule(task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = task
	if d.timer == nil {
		d.timer = time.AfterFunc(d.interval, d.fire)
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	task := d.pending
	d.pending = nil
	d.timer = nil
	stopped := d.stopped
	d.mu.Unlock()

	if task != nil && !stopped {
		task()
	}
}

// Flush runs any pending task immediately and cancels the timer window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	task := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	stopped := d.stopped
	d.mu.Unlock()

	if task != nil && !stopped {
		task()
	}
}

// Cancel discards any pending task without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels the pending task and prevents any future scheduling.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
