package calendar

import (
	"fmt"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
)

var leaveColors = map[leave.LeaveRequestStatus]calendar.ColorTag{
	leave.LeaveRequestStatusPending:  calendar.ColorWarning,
	leave.LeaveRequestStatusApproved: calendar.ColorSuccess,
	leave.LeaveRequestStatusRejected: calendar.ColorDanger,
}

// Merge projects holidays and leave requests onto one all-day timeline,
// holidays first, each group in input order.
func Merge(holidays []holiday.Holiday, leaves []leave.LeaveRequest) ([]calendar.Event, error) {
	events := make([]calendar.Event, 0, len(holidays)+len(leaves))

	for _, h := range holidays {
		events = append(events, calendar.Event{
			Title:    h.Name,
			Start:    h.Date,
			End:      h.Date,
			IsAllDay: true,
			ColorTag: calendar.ColorInfo,
			Kind:     calendar.KindHoliday,
			SourceID: h.ID,
		})
	}

	for _, l := range leaves {
		color, ok := leaveColors[l.Status]
		if !ok {
			return nil, fmt.Errorf("%w: %q on leave request %s", calendar.ErrUnknownEventStatus, l.Status, l.ID)
		}
		events = append(events, calendar.Event{
			Title:    fmt.Sprintf("%s - %s", l.OwnerName, l.LeaveType),
			Start:    l.StartDate,
			End:      l.EndDate,
			IsAllDay: true,
			ColorTag: color,
			Kind:     calendar.KindLeave,
			SourceID: l.ID,
		})
	}

	return events, nil
}
