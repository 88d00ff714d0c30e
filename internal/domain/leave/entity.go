package leave

import (
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

func (s LeaveRequestStatus) IsValid() bool {
	switch s {
	case LeaveRequestStatusPending, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		return true
	}
	return false
}

type LeaveType string

const (
	LeaveTypeVacation LeaveType = "vacation"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypePersonal LeaveType = "personal"
	LeaveTypeUrgent   LeaveType = "urgent"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeVacation, LeaveTypeSick, LeaveTypePersonal, LeaveTypeUrgent:
		return true
	}
	return false
}

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType
	StartDate  civil.Date
	EndDate    civil.Date
	TotalDays  int
	Reason     string
	Status     LeaveRequestStatus
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relationships (for responses)
	OwnerName string
}

// InclusiveDays counts calendar days from start to end, both included.
// Weekend and holiday policy is not applied here.
func InclusiveDays(start, end civil.Date) int {
	return end.DaysSince(start) + 1
}
