package utils

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays a call until no new call has arrived for the configured
// delay. Every Trigger cancels the pending call and restarts the timer, so a
// burst of keystrokes results in a single call carrying the last value.
//
// The callback receives a context that the next Trigger or Stop cancels, so a
// call that is already running can abandon its work.
type Debouncer struct {
	delay  time.Duration
	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetLocked()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.seq == seq
		d.mu.Unlock()
		if current {
			fn(ctx)
		}
	})
}

// Stop drops any pending call and cancels one in flight.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetLocked()
}

func (d *Debouncer) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.seq++
}
