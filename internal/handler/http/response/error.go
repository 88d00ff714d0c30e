package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, timeunit.ErrInvalidDuration):
		ValidationError(w, map[string]string{"minutes_spent": err.Error()})

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "You have not checked in yet")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")
	case errors.Is(err, report.ErrReportAlreadyReviewed):
		Conflict(w, "Report has already been approved or rejected")
	case errors.Is(err, report.ErrInvalidStatusTransition):
		Conflict(w, "Report status transition is not allowed")
	case errors.Is(err, report.ErrNotCheckedOut):
		Conflict(w, "Check out for the day before submitting a report")
	case errors.Is(err, report.ErrNotReportOwner):
		Forbidden(w, "Report belongs to another employee")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayDateExists):
		Conflict(w, "A holiday already exists on this date")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
