package attendance

import (
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

type Status string

const (
	StatusOnTime  Status = "on_time"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusAbsent, StatusHalfDay:
		return true
	}
	return false
}

// Record is one employee's attendance for one calendar day.
// CheckOut is only set when CheckIn is, and TotalMinutes only once both are.
type Record struct {
	ID           string
	EmployeeID   string
	Date         civil.Date
	CheckIn      *time.Time
	CheckOut     *time.Time
	TotalMinutes *int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports whether the record has a check-in without a check-out.
func (r Record) IsOpen() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// Validate checks the field dependencies of a record.
func (r Record) Validate() error {
	if r.CheckOut != nil && r.CheckIn == nil {
		return ErrInconsistentRecord
	}
	if r.TotalMinutes != nil {
		if r.CheckIn == nil || r.CheckOut == nil || *r.TotalMinutes < 0 {
			return ErrInconsistentRecord
		}
	}
	if r.CheckIn != nil && r.CheckOut != nil && r.CheckOut.Before(*r.CheckIn) {
		return ErrInconsistentRecord
	}
	return nil
}
