package holiday

import (
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/validator"
)

type HolidayRequest struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	Date string `json:"date"` // YYYY-MM-DD
}

func (r *HolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayFilter struct {
	Year *int `json:"year,omitempty"`
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

func ToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{ID: h.ID, Name: h.Name, Date: h.Date.String()}
}
