// Package debounce coalesces bursts of triggers into a single callback
// after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// afterFunc is swapped out by tests to run callbacks synchronously.
var afterFunc = time.AfterFunc

type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer

	// generation invalidates callbacks from timers that were superseded
	// by a later Trigger or by Stop.
	generation uint64
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules the callback, resetting the quiet period if one is
// already pending.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	generation := d.generation
	d.timer = afterFunc(d.delay, func() {
		d.mu.Lock()
		stale := generation != d.generation
		d.mu.Unlock()
		if !stale {
			d.fn()
		}
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}
