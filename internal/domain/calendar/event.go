package calendar

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

var ErrUnknownEventStatus = errors.New("unknown calendar event status")

type Kind string

const (
	KindHoliday Kind = "holiday"
	KindLeave   Kind = "leave"
)

type ColorTag string

const (
	ColorInfo    ColorTag = "info"
	ColorWarning ColorTag = "warning"
	ColorSuccess ColorTag = "success"
	ColorDanger  ColorTag = "danger"
)

// Event is a presentation-oriented projection of a holiday or leave request.
type Event struct {
	Title    string
	Start    civil.Date
	End      civil.Date
	IsAllDay bool
	ColorTag ColorTag
	Kind     Kind
	SourceID string
}

type EventResponse struct {
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	AllDay   bool   `json:"all_day"`
	ColorTag string `json:"color_tag"`
	Kind     string `json:"kind"`
	SourceID string `json:"source_id"`
}

type CalendarService interface {
	// Events merges holidays and leave requests into one timeline
	Events(ctx context.Context) ([]EventResponse, error)
}
