package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu        sync.Mutex
	records   []attendance.Record
	mineErr   error
	actionErr error
	checkIns  int
	checkOuts int
	now       func() time.Time
}

func (g *fakeGateway) Mine(ctx context.Context) ([]attendance.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mineErr != nil {
		return nil, g.mineErr
	}
	out := make([]attendance.Record, len(g.records))
	copy(out, g.records)
	return out, nil
}

func (g *fakeGateway) CheckIn(ctx context.Context) (attendance.CheckInResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkIns++
	if g.actionErr != nil {
		return attendance.CheckInResponse{}, g.actionErr
	}
	now := g.now()
	g.records = append(g.records, attendance.Record{
		ID:      "rec-today",
		Date:    civil.DateOf(now, time.UTC),
		CheckIn: &now,
		Status:  attendance.StatusOnTime,
	})
	return attendance.CheckInResponse{ID: "rec-today", CheckInAt: now}, nil
}

func (g *fakeGateway) CheckOut(ctx context.Context) (attendance.CheckOutResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkOuts++
	if g.actionErr != nil {
		return attendance.CheckOutResponse{}, g.actionErr
	}
	now := g.now()
	rec := &g.records[len(g.records)-1]
	total := int(now.Sub(*rec.CheckIn) / time.Minute)
	rec.CheckOut = &now
	rec.TotalMinutes = &total
	return attendance.CheckOutResponse{ID: rec.ID, CheckOutAt: now, TotalMinutes: total}, nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestTracker(t *testing.T) (*Tracker, *fakeGateway, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	gw := &fakeGateway{now: clk.Now}
	tr := NewTracker(gw, WithClock(clk.Now), WithLocation(time.UTC), WithInterval(5*time.Millisecond))
	t.Cleanup(tr.Close)
	return tr, gw, clk
}

func TestTracker_LoadIdle(t *testing.T) {
	tr, gw, _ := newTestTracker(t)

	yesterday := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	gw.records = []attendance.Record{{ID: "old", Date: civil.DateOf(yesterday, time.UTC), CheckIn: &yesterday}}

	require.NoError(t, tr.Load(context.Background()))
	assert.Equal(t, Idle, tr.State().Kind)
	assert.Len(t, tr.Records(), 1)
}

func TestTracker_CheckOutFromIdle(t *testing.T) {
	tr, gw, _ := newTestTracker(t)
	require.NoError(t, tr.Load(context.Background()))

	err := tr.CheckOut(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, gw.checkOuts, "no request may be issued")
	assert.Equal(t, Idle, tr.State().Kind)
}

func TestTracker_FullDay(t *testing.T) {
	tr, gw, clk := newTestTracker(t)
	ctx := context.Background()
	require.NoError(t, tr.Load(ctx))

	require.NoError(t, tr.CheckIn(ctx))
	assert.Equal(t, CheckedIn, tr.State().Kind)
	assert.Equal(t, 1, gw.checkIns)

	assert.ErrorIs(t, tr.CheckIn(ctx), ErrInvalidTransition)
	assert.Equal(t, 1, gw.checkIns)

	clk.Advance(8*time.Hour + 30*time.Minute)
	require.NoError(t, tr.CheckOut(ctx))

	state := tr.State()
	assert.Equal(t, CheckedOut, state.Kind)
	assert.Equal(t, 510, state.TotalMinutes)

	assert.ErrorIs(t, tr.CheckOut(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, tr.CheckIn(ctx), ErrInvalidTransition)
	assert.Equal(t, 1, gw.checkOuts)
}

func TestTracker_UpstreamFailureKeepsState(t *testing.T) {
	tr, gw, _ := newTestTracker(t)
	ctx := context.Background()
	require.NoError(t, tr.Load(ctx))

	gw.actionErr = errors.New("503 service unavailable")
	err := tr.CheckIn(ctx)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.Equal(t, Idle, tr.State().Kind)
	assert.Equal(t, 1, gw.checkIns, "failed actions are not retried")

	gw.actionErr = nil
	require.NoError(t, tr.CheckIn(ctx))
	before := tr.State()

	gw.actionErr = errors.New("timeout")
	assert.ErrorIs(t, tr.CheckOut(ctx), ErrUpstreamFailure)
	assert.Equal(t, before, tr.State())
}

func TestTracker_LoadFailureKeepsState(t *testing.T) {
	tr, gw, _ := newTestTracker(t)
	ctx := context.Background()
	require.NoError(t, tr.Load(ctx))
	require.NoError(t, tr.CheckIn(ctx))

	gw.mineErr = errors.New("connection refused")
	assert.ErrorIs(t, tr.Load(ctx), ErrUpstreamFailure)
	assert.Equal(t, CheckedIn, tr.State().Kind)
}

func TestTracker_WatchStopsOnCheckOut(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	ctx := context.Background()
	require.NoError(t, tr.Load(ctx))

	var ticks atomic.Int64
	var last atomic.Int64
	tr.Watch(ctx, func(state State, elapsed int64) {
		ticks.Add(1)
		last.Store(elapsed)
	})

	// idle: nothing ticks
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, ticks.Load())

	require.NoError(t, tr.CheckIn(ctx))
	clk.Advance(90 * time.Second)
	require.Eventually(t, func() bool { return last.Load() == 90 }, time.Second, 5*time.Millisecond)

	require.NoError(t, tr.CheckOut(ctx))
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load(), "timer must not tick after check-out")
}

func TestTracker_WatchStopsOnClose(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()
	require.NoError(t, tr.Load(ctx))
	require.NoError(t, tr.CheckIn(ctx))

	var ticks atomic.Int64
	tr.Watch(ctx, func(State, int64) { ticks.Add(1) })
	require.Eventually(t, func() bool { return ticks.Load() > 1 }, time.Second, time.Millisecond)

	tr.Close()
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())

	// watching a closed tracker is a no-op
	tr.Watch(ctx, func(State, int64) { ticks.Add(1) })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())
}

func TestTracker_WatchStopsOnContextCancel(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	require.NoError(t, tr.Load(context.Background()))
	require.NoError(t, tr.CheckIn(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	var ticks atomic.Int64
	tr.Watch(ctx, func(State, int64) { ticks.Add(1) })
	require.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())
}

func TestTracker_WatchReplacesPrevious(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()
	require.NoError(t, tr.Load(ctx))
	require.NoError(t, tr.CheckIn(ctx))

	var first, second atomic.Int64
	tr.Watch(ctx, func(State, int64) { first.Add(1) })
	require.Eventually(t, func() bool { return first.Load() > 0 }, time.Second, time.Millisecond)

	tr.Watch(ctx, func(State, int64) { second.Add(1) })
	stopped := first.Load()
	require.Eventually(t, func() bool { return second.Load() > 1 }, time.Second, time.Millisecond)
	assert.Equal(t, stopped, first.Load())
}
