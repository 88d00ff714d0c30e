package attendance

import (
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

// Policy classifies check-ins against the configured work day.
type Policy struct {
	Location       *time.Location
	WorkStart      time.Duration // offset from local midnight
	GracePeriod    time.Duration
	HalfDayMinutes int
}

// Today is the calendar day of now in the policy location.
func (p Policy) Today(now time.Time) civil.Date {
	return civil.DateOf(now, p.Location)
}

// CheckInStatus is late once the grace period after work start has passed.
func (p Policy) CheckInStatus(at time.Time) attendance.Status {
	day := p.Today(at).In(p.Location)
	limit := day.Add(p.WorkStart + p.GracePeriod)
	if at.After(limit) {
		return attendance.StatusLate
	}
	return attendance.StatusOnTime
}

// CheckOutStatus downgrades an on-time day shorter than HalfDayMinutes to a
// half day. Late stays late.
func (p Policy) CheckOutStatus(current attendance.Status, totalMinutes int) attendance.Status {
	if current == attendance.StatusOnTime && p.HalfDayMinutes > 0 && totalMinutes < p.HalfDayMinutes {
		return attendance.StatusHalfDay
	}
	return current
}

// Clock renders an instant as HH:MM in the policy location.
func (p Policy) Clock(t time.Time) string {
	return t.In(p.Location).Format("15:04")
}
