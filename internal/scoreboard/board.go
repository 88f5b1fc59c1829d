// Package scoreboard implements the scoreboard state machine: scores,
// team names, period label and the game clock countdown.
//
// A [Board] is the single authoritative record for a running session.
// Input handlers and the countdown both mutate it; display surfaces
// subscribe to read-only snapshots.
package scoreboard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hammamikhairi/scorekeep/internal/countdown"
	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/gameclock"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Option configures the board.
type Option func(*Board)

// WithDefaults sets the initial names, scores, period and clock.
func WithDefaults(d domain.Defaults) Option {
	return func(b *Board) {
		b.defaults = d
	}
}

// WithClock sets the clock driving the countdown.
func WithClock(c clockwork.Clock) Option {
	return func(b *Board) {
		b.clock = c
	}
}

// WithTickInterval sets the countdown period. One second in production.
func WithTickInterval(d time.Duration) Option {
	return func(b *Board) {
		b.interval = d
	}
}

// WithHorn sets the signal sounded when the clock reaches zero.
func WithHorn(h domain.Horn) Option {
	return func(b *Board) {
		b.horn = h
	}
}

// Board holds scoreboard state. All methods are safe for concurrent use.
type Board struct {
	store    domain.NameStore
	horn     domain.Horn
	log      *logger.Logger
	defaults domain.Defaults
	clock    clockwork.Clock
	interval time.Duration
	timer    *countdown.Timer

	// root scopes the countdown task; cancelled by Close.
	root   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     domain.State
	remaining int // authoritative countdown value while running
	closed    bool

	subMu   sync.Mutex
	subs    map[uint64]func(domain.State)
	nextSub uint64

	pubMu     sync.Mutex
	published uint64
}

// New creates a board seeded from the configured defaults. Call Mount to
// load persisted team names.
func New(store domain.NameStore, log *logger.Logger, opts ...Option) *Board {
	b := &Board{
		store:    store,
		log:      log,
		defaults: domain.StandardDefaults(),
		clock:    clockwork.NewRealClock(),
		interval: time.Second,
		subs:     make(map[uint64]func(domain.State)),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.timer = countdown.New(log,
		countdown.WithClock(b.clock),
		countdown.WithInterval(b.interval),
	)
	b.root, b.cancel = context.WithCancel(context.Background())

	d := b.defaults
	b.state = domain.State{
		Team1Name: d.Team1Name,
		Team2Name: d.Team2Name,
		Score1:    max(0, d.Score1),
		Score2:    max(0, d.Score2),
		Clock:     d.Clock,
		Period:    d.Period,
		Version:   1,
	}
	return b
}

// Mount reads the persisted team names and replaces the default names
// with them.
func (b *Board) Mount(ctx context.Context) domain.State {
	names := b.store.Get(ctx)

	b.mu.Lock()
	b.state.Team1Name = names.Team1Name
	b.state.Team2Name = names.Team2Name
	snap := b.commitLocked()
	b.mu.Unlock()

	b.log.Info("scoreboard mounted (%s vs %s, clock %s)", names.Team1Name, names.Team2Name, snap.Clock)
	b.publish(snap)
	return snap
}

// Snapshot returns the current state.
func (b *Board) Snapshot() domain.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Running reports whether the countdown is active.
func (b *Board) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Running
}

// Subscribe registers fn for change notifications and returns a func
// that unregisters it. Snapshots arrive in increasing Version order;
// intermediate versions may be skipped. fn must not call back into the
// board synchronously.
func (b *Board) Subscribe(fn func(s domain.State)) (unsubscribe func()) {
	b.subMu.Lock()
	b.nextSub++
	id := b.nextSub
	b.subs[id] = fn
	b.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.subMu.Lock()
			delete(b.subs, id)
			b.subMu.Unlock()
		})
	}
}

// Increment adds one point to team. Unknown team slots are ignored.
func (b *Board) Increment(team domain.Team) {
	if !team.Valid() {
		return
	}
	b.update(func(s *domain.State) {
		switch team {
		case domain.Team1:
			s.Score1++
		case domain.Team2:
			s.Score2++
		}
	})
}

// Decrement removes one point from team, never going below zero.
func (b *Board) Decrement(team domain.Team) {
	if !team.Valid() {
		return
	}
	b.update(func(s *domain.State) {
		switch team {
		case domain.Team1:
			s.Score1 = max(0, s.Score1-1)
		case domain.Team2:
			s.Score2 = max(0, s.Score2-1)
		}
	})
}

// SetTeamName replaces the in-memory name for team. Nothing is persisted
// until CommitNames.
func (b *Board) SetTeamName(team domain.Team, name string) {
	if !team.Valid() {
		return
	}
	b.update(func(s *domain.State) {
		switch team {
		case domain.Team1:
			s.Team1Name = name
		case domain.Team2:
			s.Team2Name = name
		}
	})
}

// SetPeriod replaces the period label.
func (b *Board) SetPeriod(label string) {
	b.update(func(s *domain.State) {
		s.Period = label
	})
}

// SetClock replaces the clock display text. A running countdown keeps
// its own counter and overwrites the text on its next tick.
func (b *Board) SetClock(text string) {
	b.update(func(s *domain.State) {
		s.Clock = text
	})
}

// CommitNames persists the current team names, writing the default name
// in place of any blank one. The in-memory names are left as they are.
func (b *Board) CommitNames(ctx context.Context) {
	b.mu.Lock()
	names := domain.TeamNames{
		Team1Name: b.state.Team1Name,
		Team2Name: b.state.Team2Name,
	}.Normalized()
	b.mu.Unlock()

	b.log.Debug("persisting team names %q / %q", names.Team1Name, names.Team2Name)
	b.store.Set(ctx, names)
}

// Start begins the countdown. A clock at or below zero is first reset to
// 12:00. Does nothing if the countdown is already running.
func (b *Board) Start() {
	b.mu.Lock()
	if b.closed || b.state.Running {
		b.mu.Unlock()
		return
	}
	b.startLocked()
	snap := b.commitLocked()
	b.mu.Unlock()

	b.log.Info("clock started at %s", snap.Clock)
	b.publish(snap)
}

// Pause stops the countdown. Does nothing if it is not running.
func (b *Board) Pause() {
	b.mu.Lock()
	if !b.state.Running {
		b.mu.Unlock()
		return
	}
	b.pauseLocked()
	snap := b.commitLocked()
	b.mu.Unlock()

	b.log.Info("clock paused at %s", snap.Clock)
	b.publish(snap)
}

// Toggle starts a stopped countdown or pauses a running one.
func (b *Board) Toggle() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.state.Running {
		b.pauseLocked()
	} else {
		b.startLocked()
	}
	snap := b.commitLocked()
	b.mu.Unlock()

	b.log.Info("clock toggled (running=%t, clock=%s)", snap.Running, snap.Clock)
	b.publish(snap)
}

// Reset stops the countdown and restores scores, clock, period and team
// names to their standard values. The default names are persisted.
func (b *Board) Reset(ctx context.Context) {
	names := domain.DefaultTeamNames()

	b.mu.Lock()
	b.timer.Cancel()
	b.remaining = 0
	b.state.Running = false
	b.state.Score1 = 0
	b.state.Score2 = 0
	b.state.Clock = gameclock.Default
	b.state.Period = domain.DefaultPeriod
	b.state.Team1Name = names.Team1Name
	b.state.Team2Name = names.Team2Name
	snap := b.commitLocked()
	b.mu.Unlock()

	b.store.Set(ctx, names)
	b.log.Info("scoreboard reset")
	b.publish(snap)
}

// Close cancels any outstanding countdown and drops all subscribers.
// The board ignores timer operations afterwards.
func (b *Board) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.timer.Cancel()
	b.state.Running = false
	b.cancel()
	b.mu.Unlock()

	// The task may be blocked on b.mu inside tick; wait only after
	// releasing it.
	b.timer.Wait()

	b.subMu.Lock()
	b.subs = make(map[uint64]func(domain.State))
	b.subMu.Unlock()

	b.log.Debug("scoreboard closed")
}

// startLocked captures the starting count and schedules the task.
func (b *Board) startLocked() {
	secs := gameclock.Parse(b.state.Clock)
	if secs <= 0 {
		secs = gameclock.DefaultSeconds
		b.state.Clock = gameclock.Default
	}
	b.remaining = secs
	b.state.Running = true
	b.timer.Start(b.root, b.tick)
}

func (b *Board) pauseLocked() {
	b.timer.Cancel()
	b.state.Running = false
}

// tick applies one countdown step. Ticks from a cancelled task are
// dropped: the token check happens under b.mu, which every cancel path
// also holds.
func (b *Board) tick(tok countdown.Token) {
	b.mu.Lock()
	if !b.timer.Active(tok) {
		b.mu.Unlock()
		return
	}

	b.remaining--
	if b.remaining < 0 {
		b.remaining = 0
	}
	b.state.Clock = gameclock.Format(b.remaining)

	expired := b.remaining == 0
	if expired {
		b.timer.CancelToken(tok)
		b.state.Running = false
	}
	snap := b.commitLocked()
	b.mu.Unlock()

	b.publish(snap)

	if expired {
		b.log.Info("clock expired")
		b.soundHorn()
	}
}

func (b *Board) soundHorn() {
	if b.horn == nil {
		return
	}
	go func() {
		if err := b.horn.Sound(b.root); err != nil {
			b.log.Warn("horn: %v", err)
		}
	}()
}

// update applies fn under the lock and publishes the result.
func (b *Board) update(fn func(s *domain.State)) {
	b.mu.Lock()
	fn(&b.state)
	snap := b.commitLocked()
	b.mu.Unlock()

	b.publish(snap)
}

// commitLocked bumps the version and returns a snapshot.
func (b *Board) commitLocked() domain.State {
	b.state.Version++
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() domain.State {
	s := b.state
	s.ClockSeconds = gameclock.Parse(s.Clock)
	return s
}

// publish delivers snap to subscribers unless a newer version has
// already been delivered.
func (b *Board) publish(snap domain.State) {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	if snap.Version <= b.published {
		return
	}
	b.published = snap.Version

	b.subMu.Lock()
	subs := make([]func(domain.State), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
