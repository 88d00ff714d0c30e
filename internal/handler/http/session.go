package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/service/session"
)

// SessionHandler streams the live check-in timer over SSE.
type SessionHandler interface {
	// StreamToken issues a short-lived token for the stream endpoint
	StreamToken(w http.ResponseWriter, r *http.Request)
	// Stream sends the session state, then a tick every second while checked in
	Stream(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	hub               *sse.Hub
	tickInterval      time.Duration
	keepaliveInterval time.Duration
	now               func() time.Time
}

func NewSessionHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service, hub *sse.Hub) SessionHandler {
	return &sessionHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		hub:               hub,
		tickInterval:      time.Second,
		keepaliveInterval: 30 * time.Second,
		now:               time.Now,
	}
}

type streamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type tickPayload struct {
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
}

// StreamToken handles GET /attendance/session/stream-token
func (h *sessionHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(identity.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, streamTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream handles GET /attendance/session/stream?token=
func (h *sessionHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	ctx, err := jwt.ContextWithIdentity(r.Context(), h.jwtService.JWTAuth(), jwt.Identity{UserID: userID})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Subscribe before the first read so a check-in in between is not lost
	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	current, err := h.attendanceService.GetSession(ctx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, "session", current)
	flusher.Flush()

	// The live ticker only runs while checked in
	var ticker *time.Ticker
	var ticks <-chan time.Time
	syncTicker := func() {
		live := current.State == session.CheckedIn.String() && current.Since != nil
		switch {
		case live && ticker == nil:
			ticker = time.NewTicker(h.tickInterval)
			ticks = ticker.C
		case !live && ticker != nil:
			ticker.Stop()
			ticker, ticks = nil, nil
		}
	}
	syncTicker()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	keepalive := time.NewTicker(h.keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if state, ok := event.Data.(attendance.SessionResponse); ok {
				current = state
				syncTicker()
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-ticks:
			elapsed := int64(h.now().Sub(*current.Since) / time.Second)
			if elapsed < 0 {
				elapsed = 0
			}
			writeEvent(w, "tick", tickPayload{
				ElapsedSeconds: elapsed,
				Elapsed:        timeunit.FormatClock(elapsed),
			})
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", h.now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Warn("skip unencodable SSE event", "event", event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}
