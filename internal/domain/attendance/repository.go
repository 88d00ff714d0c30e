package attendance

import (
	"context"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, record Record) (Record, error)

	// Update persists check-out fields and status of an existing record
	Update(ctx context.Context, record Record) (Record, error)

	// GetByEmployeeAndDate returns nil when the employee has no record for date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date civil.Date) (*Record, error)

	// ListByEmployee returns the employee's records, newest first
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Record, error)

	// List returns records across employees (admin)
	List(ctx context.Context, filter AttendanceFilter) ([]Record, error)

	// CreateAbsentForMissing inserts an absent record for every employee
	// without a record on date and returns how many were inserted
	CreateAbsentForMissing(ctx context.Context, date civil.Date) (int64, error)
}
