package report

import (
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanReview reports whether the approve/reject actions may move a report
// from s to next. Only submitted reports are reviewable that way.
func (s Status) CanReview(next Status) bool {
	return s == StatusSubmitted && (next == StatusApproved || next == StatusRejected)
}

// CanReassign reports whether a content edit may carry the report from s to
// next. Beyond keeping the status, only approved<->rejected re-review is allowed.
func (s Status) CanReassign(next Status) bool {
	if s == next {
		return true
	}
	return (s == StatusApproved && next == StatusRejected) ||
		(s == StatusRejected && next == StatusApproved)
}

// Entry is one task logged by a worker for a calendar day.
type Entry struct {
	ID              string
	EmployeeID      string
	Date            civil.Date
	TaskDescription string
	MinutesSpent    int
	RelatedAdmin    *string
	Blockers        *string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}

// DailySummary groups the entries filed for one day. Totals are derived on
// every call so edits to the referenced entries are always reflected.
type DailySummary struct {
	Date    civil.Date
	Entries []*Entry

	// AttendanceMinutes is the worked total recorded by attendance for Date,
	// nil when the day has no closed attendance record.
	AttendanceMinutes *int
}

func (d DailySummary) TotalMinutes() int {
	total := 0
	for _, e := range d.Entries {
		total += e.MinutesSpent
	}
	return total
}

// UnreportedMinutes is attendance minus reported time; negative when more
// time was reported than attended.
func (d DailySummary) UnreportedMinutes() *int {
	if d.AttendanceMinutes == nil {
		return nil
	}
	diff := *d.AttendanceMinutes - d.TotalMinutes()
	return &diff
}
