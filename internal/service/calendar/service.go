package calendar

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"golang.org/x/sync/errgroup"
)

type CalendarServiceImpl struct {
	holiday.HolidayRepository
	leave.LeaveRequestRepository
}

func NewCalendarService(holidayRepo holiday.HolidayRepository, leaveRepo leave.LeaveRequestRepository) *CalendarServiceImpl {
	return &CalendarServiceImpl{
		HolidayRepository:      holidayRepo,
		LeaveRequestRepository: leaveRepo,
	}
}

// Events implements calendar.CalendarService.
func (s *CalendarServiceImpl) Events(ctx context.Context) ([]calendar.EventResponse, error) {
	var (
		holidays []holiday.Holiday
		leaves   []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		holidays, err = s.HolidayRepository.List(gCtx, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		leaves, err = s.LeaveRequestRepository.List(gCtx, leave.LeaveFilter{})
		if err != nil {
			return fmt.Errorf("failed to list leave requests: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	events, err := Merge(holidays, leaves)
	if err != nil {
		return nil, err
	}

	out := make([]calendar.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, calendar.EventResponse{
			Title:    e.Title,
			Start:    e.Start.String(),
			End:      e.End.String(),
			AllDay:   e.IsAllDay,
			ColorTag: string(e.ColorTag),
			Kind:     string(e.Kind),
			SourceID: e.SourceID,
		})
	}
	return out, nil
}
