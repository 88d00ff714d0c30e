package http

import (
	"net/http"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/handler/http/response"
)

type CalendarHandler interface {
	// Events handles GET /calendar/events
	Events(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) CalendarHandler {
	return &calendarHandlerImpl{calendarService: calendarService}
}

func (h *calendarHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	result, err := h.calendarService.Events(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
