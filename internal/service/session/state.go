// Package session derives a worker's check-in state for the current day and
// drives check-in/check-out transitions against the attendance API.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrUpstreamFailure   = errors.New("attendance service request failed")
)

type Kind int

const (
	Idle Kind = iota
	CheckedIn
	CheckedOut
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case CheckedIn:
		return "checked_in"
	case CheckedOut:
		return "checked_out"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// State is the derived session for one day. Since is set for CheckedIn and
// CheckedOut; TotalMinutes only for CheckedOut.
type State struct {
	Kind         Kind
	Since        time.Time
	TotalMinutes int
}

// DeriveState maps today's attendance record, or nil, to a session state.
// It needs no clock: elapsed time is read from the State with a given now.
func DeriveState(today *attendance.Record) (State, error) {
	if today == nil || today.CheckIn == nil {
		return State{Kind: Idle}, nil
	}
	if err := today.Validate(); err != nil {
		return State{}, err
	}
	if today.CheckOut == nil {
		return State{Kind: CheckedIn, Since: *today.CheckIn}, nil
	}

	total, err := timeunit.MinutesBetween(*today.CheckIn, *today.CheckOut)
	if err != nil {
		return State{}, err
	}
	return State{Kind: CheckedOut, Since: *today.CheckIn, TotalMinutes: total}, nil
}

// ElapsedSeconds is the live session length at now. It is frozen at the
// recorded total once checked out and zero while idle.
func (s State) ElapsedSeconds(now time.Time) int64 {
	switch s.Kind {
	case CheckedIn:
		elapsed := int64(now.Sub(s.Since) / time.Second)
		if elapsed < 0 {
			return 0
		}
		return elapsed
	case CheckedOut:
		return int64(s.TotalMinutes) * 60
	}
	return 0
}

// Response renders s for the API at now.
func (s State) Response(now time.Time) attendance.SessionResponse {
	resp := attendance.SessionResponse{State: s.Kind.String()}
	if s.Kind == Idle {
		return resp
	}

	since := s.Since
	elapsed := s.ElapsedSeconds(now)
	resp.Since = &since
	resp.ElapsedSeconds = elapsed
	resp.Elapsed = timeunit.FormatClock(elapsed)
	if s.Kind == CheckedOut {
		total := s.TotalMinutes
		worked := timeunit.Format(total)
		resp.TotalMinutes = &total
		resp.WorkedTime = &worked
	}
	return resp
}
