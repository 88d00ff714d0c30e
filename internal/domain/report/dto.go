package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY REPORT DTOs
// ========================================

type CreateReportRequest struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	TaskDescription string  `json:"task_description"`
	MinutesSpent    *int    `json:"minutes_spent,omitempty"`
	TimeSpent       *string `json:"time_spent,omitempty"` // free text, e.g. "2h 30m"
	RelatedAdmin    *string `json:"related_admin,omitempty"`
	Blockers        *string `json:"blockers,omitempty"`
}

func (r *CreateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.TaskDescription) {
		errs = append(errs, validator.ValidationError{
			Field:   "task_description",
			Message: "task_description is required",
		})
	}

	switch {
	case r.MinutesSpent != nil:
		if *r.MinutesSpent < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "minutes_spent",
				Message: "minutes_spent must not be negative",
			})
		}
	case r.TimeSpent != nil && !validator.IsEmpty(*r.TimeSpent):
		if timeunit.ParseFreeform(*r.TimeSpent) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "time_spent",
				Message: "time_spent must look like 2h 30m, 45m or 1.5h",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "minutes_spent",
			Message: "minutes_spent or time_spent is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Minutes resolves the reported duration, preferring MinutesSpent over the
// free-text TimeSpent.
func (r *CreateReportRequest) Minutes() int {
	if r.MinutesSpent != nil {
		return *r.MinutesSpent
	}
	if r.TimeSpent != nil {
		return timeunit.ParseFreeform(*r.TimeSpent)
	}
	return 0
}

type UpdateReportRequest struct {
	ID              string  `json:"-"`
	TaskDescription string  `json:"task_description"`
	MinutesSpent    int     `json:"minutes_spent"`
	RelatedAdmin    *string `json:"related_admin,omitempty"`
	Status          *string `json:"status,omitempty"` // admin re-review only
}

func (r *UpdateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TaskDescription) {
		errs = append(errs, validator.ValidationError{
			Field:   "task_description",
			Message: "task_description is required",
		})
	}

	if r.MinutesSpent < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "minutes_spent",
			Message: "minutes_spent must not be negative",
		})
	}

	if r.Status != nil && !Status(strings.ToLower(*r.Status)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: submitted, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReportFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`
	Status     *string `json:"status,omitempty"`
	Search     *string `json:"search,omitempty"` // matches task_description
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Status != nil && *f.Status != "" && !Status(strings.ToLower(*f.Status)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: submitted, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EntryResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    *string   `json:"employee_name,omitempty"`
	Date            string    `json:"date"`
	TaskDescription string    `json:"task_description"`
	MinutesSpent    int       `json:"minutes_spent"`
	TimeSpent       string    `json:"time_spent"`
	RelatedAdmin    *string   `json:"related_admin,omitempty"`
	Blockers        *string   `json:"blockers,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type DailySummaryResponse struct {
	Date              string          `json:"date"`
	Entries           []EntryResponse `json:"entries"`
	TotalMinutes      int             `json:"total_minutes"`
	TotalTime         string          `json:"total_time"`
	AttendanceMinutes *int            `json:"attendance_minutes,omitempty"`
	UnreportedMinutes *int            `json:"unreported_minutes,omitempty"`
}
