package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

// Gateway is the attendance API as seen by a single signed-in worker.
type Gateway interface {
	Mine(ctx context.Context) ([]attendance.Record, error)
	CheckIn(ctx context.Context) (attendance.CheckInResponse, error)
	CheckOut(ctx context.Context) (attendance.CheckOutResponse, error)
}

// TickFunc receives the live session while checked in.
type TickFunc func(state State, elapsedSeconds int64)

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the zone that decides which calendar day is "today".
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithInterval sets the live timer period. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) { t.interval = d }
}

// Tracker holds the session state of one worker. Actions are serialised;
// state is only replaced after the gateway confirms an action.
type Tracker struct {
	gateway  Gateway
	now      func() time.Time
	loc      *time.Location
	interval time.Duration

	opMu sync.Mutex // serialises Load, CheckIn and CheckOut

	mu      sync.Mutex
	state   State
	records []attendance.Record
	watcher *watcher
	ticker  *ticker
	closed  bool
}

type watcher struct {
	ctx context.Context
	fn  TickFunc
}

type ticker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(gateway Gateway, opts ...Option) *Tracker {
	t := &Tracker{
		gateway:  gateway,
		now:      time.Now,
		loc:      time.Local,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current session state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Records returns the snapshot fetched by the last successful load.
func (t *Tracker) Records() []attendance.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]attendance.Record, len(t.records))
	copy(out, t.records)
	return out
}

// Load replaces the snapshot with the worker's records and rederives the
// state from today's record.
func (t *Tracker) Load(ctx context.Context) error {
	t.opMu.Lock()
	defer t.opMu.Unlock()
	return t.load(ctx)
}

func (t *Tracker) load(ctx context.Context) error {
	records, err := t.gateway.Mine(ctx)
	if err != nil {
		return fmt.Errorf("%w: load attendance: %w", ErrUpstreamFailure, err)
	}

	today := civil.DateOf(t.now(), t.loc)
	var current *attendance.Record
	for i := range records {
		if records[i].Date == today {
			current = &records[i]
			break
		}
	}

	state, err := DeriveState(current)
	if err != nil {
		return fmt.Errorf("derive session for %s: %w", today, err)
	}

	t.mu.Lock()
	t.records = records
	t.mu.Unlock()
	t.apply(state)
	return nil
}

// CheckIn is only valid while idle. The state is left untouched when the
// gateway call fails.
func (t *Tracker) CheckIn(ctx context.Context) error {
	t.opMu.Lock()
	defer t.opMu.Unlock()

	current := t.State()
	if current.Kind != Idle {
		return fmt.Errorf("%w: cannot check in while %s", ErrInvalidTransition, current.Kind)
	}

	resp, err := t.gateway.CheckIn(ctx)
	if err != nil {
		return fmt.Errorf("%w: check in: %w", ErrUpstreamFailure, err)
	}

	since := resp.CheckInAt
	if since.IsZero() {
		since = t.now()
	}
	t.apply(State{Kind: CheckedIn, Since: since})
	t.reload(ctx)
	return nil
}

// CheckOut is only valid while checked in. A successful check-out stops the
// live timer before returning.
func (t *Tracker) CheckOut(ctx context.Context) error {
	t.opMu.Lock()
	defer t.opMu.Unlock()

	current := t.State()
	if current.Kind != CheckedIn {
		return fmt.Errorf("%w: cannot check out while %s", ErrInvalidTransition, current.Kind)
	}

	resp, err := t.gateway.CheckOut(ctx)
	if err != nil {
		return fmt.Errorf("%w: check out: %w", ErrUpstreamFailure, err)
	}

	t.apply(State{Kind: CheckedOut, Since: current.Since, TotalMinutes: resp.TotalMinutes})
	t.reload(ctx)
	return nil
}

// reload refreshes the snapshot after an action. The action already
// succeeded, so a failed reload keeps the state derived from its response.
func (t *Tracker) reload(ctx context.Context) {
	if err := t.load(ctx); err != nil {
		slog.Warn("session snapshot reload failed", "error", err)
	}
}

// Watch calls fn immediately and then once per interval while the session
// is checked in, until ctx is done, the session leaves CheckedIn or the
// tracker is closed. It replaces any previous watcher. fn runs on the timer
// goroutine and must not call CheckIn, CheckOut, Load or Close.
func (t *Tracker) Watch(ctx context.Context, fn TickFunc) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	prev := t.detachTicker()
	t.watcher = &watcher{ctx: ctx, fn: fn}
	t.mu.Unlock()

	prev.wait()
	t.startTickerIfCheckedIn()
}

// Close stops the live timer for good.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.watcher = nil
	prev := t.detachTicker()
	t.mu.Unlock()

	prev.wait()
}

// apply swaps the state. The old timer is cancelled together with the swap
// and fully stopped before a new one may start.
func (t *Tracker) apply(state State) {
	t.mu.Lock()
	prev := t.detachTicker()
	t.state = state
	t.mu.Unlock()

	prev.wait()
	t.startTickerIfCheckedIn()
}

// detachTicker cancels the running timer. Callers hold t.mu and must call
// wait on the result after releasing it.
func (t *Tracker) detachTicker() *ticker {
	prev := t.ticker
	t.ticker = nil
	if prev != nil {
		prev.cancel()
	}
	return prev
}

func (t *Tracker) startTickerIfCheckedIn() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.watcher == nil || t.ticker != nil || t.state.Kind != CheckedIn {
		return
	}
	if t.watcher.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(t.watcher.ctx)
	tk := &ticker{cancel: cancel, done: make(chan struct{})}
	t.ticker = tk

	go t.run(ctx, tk.done, t.state, t.watcher.fn)
}

func (t *Tracker) run(ctx context.Context, done chan<- struct{}, state State, fn TickFunc) {
	defer close(done)

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	if ctx.Err() == nil {
		fn(state, state.ElapsedSeconds(t.now()))
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if ctx.Err() != nil {
				return
			}
			fn(state, state.ElapsedSeconds(t.now()))
		}
	}
}

func (tk *ticker) wait() {
	if tk == nil {
		return
	}
	<-tk.done
}
