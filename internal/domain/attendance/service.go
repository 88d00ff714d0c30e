package attendance

import (
	"context"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the authenticated employee
	CheckIn(ctx context.Context) (CheckInResponse, error)

	// CheckOut closes today's open record and fixes its total minutes
	CheckOut(ctx context.Context) (CheckOutResponse, error)

	// GetMyAttendance retrieves attendance records for the authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) ([]RecordResponse, error)

	// GetToday returns today's record for the authenticated employee, or nil
	GetToday(ctx context.Context) (*Record, error)

	// GetSession derives the live check-in state from today's record
	GetSession(ctx context.Context) (SessionResponse, error)

	// GetMySummary aggregates the authenticated employee's records
	GetMySummary(ctx context.Context, filter MyAttendanceFilter) (SummaryResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]RecordResponse, error)

	// MarkAbsent records absences for date; used by the scheduler
	MarkAbsent(ctx context.Context, date civil.Date) (int64, error)
}
