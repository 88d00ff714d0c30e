package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type RecordResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName *string    `json:"employee_name,omitempty"`
	Date         string     `json:"date"`
	CheckIn      *string    `json:"check_in,omitempty"`  // HH:MM in the attendance timezone
	CheckOut     *string    `json:"check_out,omitempty"` // HH:MM in the attendance timezone
	CheckInAt    *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	TotalMinutes *int       `json:"total_minutes,omitempty"`
	WorkedTime   *string    `json:"worked_time,omitempty"` // "8h 30m"
	Status       string     `json:"status"`
}

type CheckInResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	CheckIn   string    `json:"check_in"`
	CheckInAt time.Time `json:"check_in_at"`
	Status    string    `json:"status"`
}

type CheckOutResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	CheckOut     string    `json:"check_out"`
	CheckOutAt   time.Time `json:"check_out_at"`
	TotalMinutes int       `json:"total_minutes"`
	WorkedTime   string    `json:"worked_time"`
	Status       string    `json:"status"`
}

type SummaryResponse struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Rate    int `json:"rate"`
}

type MyAttendanceFilter struct {
	Month     *string `json:"month,omitempty"`      // YYYY-MM
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && *f.Month != "" {
		if _, err := time.Parse("2006-01", *f.Month); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}

	errs = append(errs, validateRange(f.StartDate, f.EndDate)...)
	errs = append(errs, validateStatus(f.Status)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range resolves the filter to an inclusive date range. A month takes
// precedence over explicit start/end dates. Nil bounds are open.
func (f MyAttendanceFilter) Range() (start *civil.Date, end *civil.Date) {
	if f.Month != nil && *f.Month != "" {
		if t, err := time.Parse("2006-01", *f.Month); err == nil {
			first := civil.DateOf(t, time.UTC)
			last := civil.DateOf(t.AddDate(0, 1, -1), time.UTC)
			return &first, &last
		}
	}
	return parseOptionalDate(f.StartDate), parseOptionalDate(f.EndDate)
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	errs = append(errs, validateRange(f.StartDate, f.EndDate)...)
	errs = append(errs, validateStatus(f.Status)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (f AttendanceFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

func validateRange(startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool
	if startDate != nil && *startDate != "" {
		if start, startOK = validator.IsValidDate(*startDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if endDate != nil && *endDate != "" {
		if end, endOK = validator.IsValidDate(*endDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	return errs
}

func validateStatus(status *string) validator.ValidationErrors {
	if status == nil || *status == "" {
		return nil
	}
	if !Status(strings.ToLower(*status)).IsValid() {
		return validator.ValidationErrors{{
			Field:   "status",
			Message: "status must be one of: on_time, late, absent, half_day",
		}}
	}
	return nil
}

func parseOptionalDate(s *string) *civil.Date {
	if s == nil || *s == "" {
		return nil
	}
	d, err := civil.Parse(*s)
	if err != nil {
		return nil
	}
	return &d
}

type SessionResponse struct {
	State          string     `json:"state"` // idle, checked_in, checked_out
	Since          *time.Time `json:"since,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	Elapsed        string     `json:"elapsed,omitempty"` // HH:MM:SS
	TotalMinutes   *int       `json:"total_minutes,omitempty"`
	WorkedTime     *string    `json:"worked_time,omitempty"`
}
