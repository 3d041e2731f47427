package editor

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled task once the window has passed
// without another Schedule call. Every Schedule, Cancel or Flush bumps the
// generation, so a timer that fires late for a superseded task does nothing.
type Debouncer struct {
	window  time.Duration
	onError func(error)

	mu     sync.Mutex
	timer  *time.Timer
	task   func(context.Context) error
	gen    uint64
	closed bool
}

// NewDebouncer constructs a Debouncer. onError receives failures of tasks run
// by the timer; it may be nil.
func NewDebouncer(window time.Duration, onError func(error)) *Debouncer {
	return &Debouncer{window: window, onError: onError}
}

// Schedule replaces any pending task and restarts the window.
func (d *Debouncer) Schedule(task func(context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopLocked()
	d.gen++
	gen := d.gen
	d.task = task
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.task == nil {
		d.mu.Unlock()
		return
	}
	task := d.task
	d.task = nil
	d.timer = nil
	d.mu.Unlock()

	if err := task(context.Background()); err != nil && d.onError != nil {
		d.onError(err)
	}
}

// Cancel drops the pending task without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

// Flush runs the pending task now, if there is one.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	task := d.task
	d.stopLocked()
	d.gen++
	d.mu.Unlock()

	if task == nil {
		return nil
	}
	return task(ctx)
}

// Pending reports whether a task is waiting for its window to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.task != nil
}

// Close flushes the pending task and ignores every later Schedule.
func (d *Debouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush(ctx)
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.task = nil
}
