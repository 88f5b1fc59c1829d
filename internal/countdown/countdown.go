// Package countdown implements the repeating one-second task behind the
// game clock. A Timer owns at most one task at a time; starting a new
// task always cancels the previous one first.
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Option configures the timer.
type Option func(*Timer)

// WithInterval sets the tick period. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(t *Timer) {
		t.interval = d
	}
}

// WithClock replaces the wall clock, typically with a clockwork.FakeClock
// in tests.
func WithClock(c clockwork.Clock) Option {
	return func(t *Timer) {
		t.clock = c
	}
}

// Token identifies one started task. The zero Token is never active.
type Token uint64

// TickFunc is called once per interval with the token of the task that
// produced the tick.
type TickFunc func(tok Token)

// Timer schedules a single repeating task and owns its cancellation
// handle. All methods are safe for concurrent use.
type Timer struct {
	clock    clockwork.Clock
	interval time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	current Token // zero when idle
	last    Token
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates an idle timer.
func New(log *logger.Logger, opts ...Option) *Timer {
	t := &Timer{
		clock:    clockwork.NewRealClock(),
		interval: time.Second,
		log:      log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start cancels any outstanding task and schedules fn every interval
// until the task is cancelled or ctx ends. Non-blocking.
func (t *Timer) Start(ctx context.Context, fn TickFunc) Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()

	t.last++
	tok := t.last
	childCtx, cancel := context.WithCancel(ctx)
	ticker := t.clock.NewTicker(t.interval)
	done := make(chan struct{})

	t.current = tok
	t.cancel = cancel
	t.done = done

	go t.loop(childCtx, ticker, tok, fn, done)

	t.log.Debug("countdown task %d started (interval=%s)", tok, t.interval)
	return tok
}

// Cancel stops the outstanding task, if any. Safe to call at any time,
// any number of times. Once Cancel returns, Active reports false for the
// cancelled token.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// CancelToken stops the task only if tok is still the outstanding one.
// Used by a task to end itself without racing a newer Start.
func (t *Timer) CancelToken(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tok != 0 && tok == t.current {
		t.cancelLocked()
	}
}

// Active reports whether tok is the outstanding task.
func (t *Timer) Active(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tok != 0 && tok == t.current
}

// Running reports whether any task is outstanding.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current != 0
}

// Wait blocks until the most recently started task goroutine has exited.
// Call it after Cancel and never while holding a lock the TickFunc takes.
func (t *Timer) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (t *Timer) cancelLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
		t.log.Debug("countdown task %d cancelled", t.current)
	}
	t.current = 0
}

// loop delivers ticks until the task is cancelled.
func (t *Timer) loop(ctx context.Context, ticker clockwork.Ticker, tok Token, fn TickFunc, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.CancelToken(tok)
			return
		case <-ticker.Chan():
			if !t.Active(tok) {
				return
			}
			fn(tok)
		}
	}
}
