package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sseEvent struct {
	name string
	data string
}

// readEvents parses the stream into events until ctx ends or the body closes.
func readEvents(ctx context.Context, resp *http.Response) <-chan sseEvent {
	out := make(chan sseEvent)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(resp.Body)
		var current sseEvent
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				current.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				current.data = strings.TrimPrefix(line, "data: ")
			case line == "":
				select {
				case out <- current:
				case <-ctx.Done():
					return
				}
				current = sseEvent{}
			}
		}
	}()
	return out
}

func nextEvent(t *testing.T, events <-chan sseEvent, name string) sseEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "stream closed before %q", name)
			if ev.name == name {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %q event received", name)
		}
	}
}

func openStream(t *testing.T, s *testServer, srv *httptest.Server) (<-chan sseEvent, context.CancelFunc) {
	t.Helper()

	w, env := s.do(t, http.MethodGet, "/api/v1/attendance/session/stream-token", s.token(user.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tok streamTokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, 300, tok.ExpiresIn)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/attendance/session/stream?token="+tok.Token, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	t.Cleanup(func() { resp.Body.Close() })
	return readEvents(ctx, resp), cancel
}

func TestSessionStream_TicksWhileCheckedIn(t *testing.T) {
	s := newTestServer()
	since := time.Now().Add(-90 * time.Second)
	s.attendance.session = attendance.SessionResponse{State: "checked_in", Since: &since}

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	events, cancel := openStream(t, s, srv)
	defer cancel()

	first := nextEvent(t, events, "session")
	var state attendance.SessionResponse
	require.NoError(t, json.Unmarshal([]byte(first.data), &state))
	assert.Equal(t, "checked_in", state.State)

	tick := nextEvent(t, events, "tick")
	var payload tickPayload
	require.NoError(t, json.Unmarshal([]byte(tick.data), &payload))
	assert.GreaterOrEqual(t, payload.ElapsedSeconds, int64(90))
	assert.True(t, strings.HasPrefix(payload.Elapsed, "00:01:"))

	s.attendance.mu.Lock()
	assert.Equal(t, "user-employee", s.attendance.sessionUser)
	s.attendance.mu.Unlock()
}

func TestSessionStream_ForwardsHubEvents(t *testing.T) {
	s := newTestServer()
	s.attendance.session = attendance.SessionResponse{State: "idle"}

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	events, cancel := openStream(t, s, srv)
	defer cancel()

	first := nextEvent(t, events, "session")
	assert.Contains(t, first.data, `"state":"idle"`)

	total := 510
	s.hub.Publish("user-employee", sse.Event{
		UserID: "user-employee",
		Event:  "session",
		Data:   attendance.SessionResponse{State: "checked_out", TotalMinutes: &total},
	})

	next := nextEvent(t, events, "session")
	var state attendance.SessionResponse
	require.NoError(t, json.Unmarshal([]byte(next.data), &state))
	assert.Equal(t, "checked_out", state.State)
	require.NotNil(t, state.TotalMinutes)
	assert.Equal(t, 510, *state.TotalMinutes)
}

func TestSessionStream_RejectsAccessToken(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/session/stream?token="+s.token(user.RoleEmployee), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionStream_MissingToken(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/session/stream", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// noTicks fails when a tick arrives within d.
func noTicks(t *testing.T, events <-chan sseEvent, d time.Duration) {
	t.Helper()
	timeout := time.After(d)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			assert.NotEqual(t, "tick", ev.name, "tick while not checked in")
		case <-timeout:
			return
		}
	}
}

func TestSessionStream_TicksOnlyWhileCheckedIn(t *testing.T) {
	s := newTestServer()
	s.attendance.session = attendance.SessionResponse{State: "idle"}

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	events, cancel := openStream(t, s, srv)
	defer cancel()

	nextEvent(t, events, "session")
	noTicks(t, events, 100*time.Millisecond)

	since := time.Now().Add(-time.Minute)
	s.hub.Publish("user-employee", sse.Event{
		UserID: "user-employee",
		Event:  "session",
		Data:   attendance.SessionResponse{State: "checked_in", Since: &since},
	})
	checkedIn := nextEvent(t, events, "session")
	assert.Contains(t, checkedIn.data, `"state":"checked_in"`)
	nextEvent(t, events, "tick")

	total := 60
	s.hub.Publish("user-employee", sse.Event{
		UserID: "user-employee",
		Event:  "session",
		Data:   attendance.SessionResponse{State: "checked_out", Since: &since, TotalMinutes: &total},
	})
	checkedOut := nextEvent(t, events, "session")
	assert.Contains(t, checkedOut.data, `"state":"checked_out"`)
	noTicks(t, events, 100*time.Millisecond)
}
