package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/service/session"
	"github.com/google/uuid"
)

// SessionEvent is the SSE event name published after check-in and check-out.
const SessionEvent = "session"

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	holiday.HolidayRepository
	policy Policy
	hub    *sse.Hub
	now    func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepository attendance.AttendanceRepository,
	holidayRepository holiday.HolidayRepository,
	policy Policy,
	hub *sse.Hub,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepository,
		HolidayRepository:    holidayRepository,
		policy:               policy,
		hub:                  hub,
		now:                  time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.CheckInResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	now := a.now()
	today := a.policy.Today(now)

	var created attendance.Record
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(txCtx, identity.UserID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing != nil {
			if existing.CheckOut != nil {
				return attendance.ErrAlreadyCheckedOut
			}
			return attendance.ErrAlreadyCheckedIn
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate attendance id: %w", err)
		}

		checkIn := now.UTC()
		created, err = a.AttendanceRepository.Create(txCtx, attendance.Record{
			ID:         id.String(),
			EmployeeID: identity.UserID,
			Date:       today,
			CheckIn:    &checkIn,
			Status:     a.policy.CheckInStatus(now),
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	a.publishSession(identity.UserID, created)

	return attendance.CheckInResponse{
		ID:        created.ID,
		Date:      created.Date.String(),
		CheckIn:   a.policy.Clock(*created.CheckIn),
		CheckInAt: *created.CheckIn,
		Status:    string(created.Status),
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.CheckOutResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	now := a.now()
	today := a.policy.Today(now)

	var updated attendance.Record
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		record, err := a.AttendanceRepository.GetByEmployeeAndDate(txCtx, identity.UserID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if record == nil || record.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		if record.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		checkOut := now.UTC()
		total, err := timeunit.MinutesBetween(*record.CheckIn, checkOut)
		if err != nil {
			return fmt.Errorf("%w: %w", attendance.ErrInconsistentRecord, err)
		}

		record.CheckOut = &checkOut
		record.TotalMinutes = &total
		record.Status = a.policy.CheckOutStatus(record.Status, total)

		updated, err = a.AttendanceRepository.Update(txCtx, *record)
		if err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	a.publishSession(identity.UserID, updated)

	return attendance.CheckOutResponse{
		ID:           updated.ID,
		Date:         updated.Date.String(),
		CheckOut:     a.policy.Clock(*updated.CheckOut),
		CheckOutAt:   *updated.CheckOut,
		TotalMinutes: *updated.TotalMinutes,
		WorkedTime:   timeunit.Format(*updated.TotalMinutes),
		Status:       string(updated.Status),
	}, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) ([]attendance.RecordResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, identity.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return a.toResponses(records), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (*attendance.Record, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, identity.UserID, a.policy.Today(a.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return record, nil
}

// GetSession implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetSession(ctx context.Context) (attendance.SessionResponse, error) {
	record, err := a.GetToday(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	state, err := session.DeriveState(record)
	if err != nil {
		return attendance.SessionResponse{}, err
	}
	return state.Response(a.now()), nil
}

// GetMySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMySummary(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.SummaryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, identity.UserID, filter)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return Summarize(records).Response(), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return a.toResponses(records), nil
}

// MarkAbsent implements attendance.AttendanceService. Weekends and holidays
// are skipped.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date civil.Date) (int64, error) {
	switch date.In(time.UTC).Weekday() {
	case time.Saturday, time.Sunday:
		return 0, nil
	}

	isHoliday, err := a.HolidayRepository.ExistsOn(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to check holiday: %w", err)
	}
	if isHoliday {
		return 0, nil
	}

	count, err := a.AttendanceRepository.CreateAbsentForMissing(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to mark absences for %s: %w", date, err)
	}
	return count, nil
}

func (a *AttendanceServiceImpl) publishSession(userID string, record attendance.Record) {
	if a.hub == nil || a.hub.SubscriberCount(userID) == 0 {
		return
	}
	state, err := session.DeriveState(&record)
	if err != nil {
		slog.Warn("skip session event", "user_id", userID, "error", err)
		return
	}
	a.hub.Publish(userID, sse.Event{
		UserID: userID,
		Event:  SessionEvent,
		Data:   state.Response(a.now()),
	})
}

func (a *AttendanceServiceImpl) toResponses(records []attendance.Record) []attendance.RecordResponse {
	out := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, a.toResponse(r))
	}
	return out
}

func (a *AttendanceServiceImpl) toResponse(r attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date.String(),
		CheckInAt:    r.CheckIn,
		CheckOutAt:   r.CheckOut,
		TotalMinutes: r.TotalMinutes,
		Status:       string(r.Status),
	}
	if r.CheckIn != nil {
		clock := a.policy.Clock(*r.CheckIn)
		resp.CheckIn = &clock
	}
	if r.CheckOut != nil {
		clock := a.policy.Clock(*r.CheckOut)
		resp.CheckOut = &clock
	}
	if r.TotalMinutes != nil {
		worked := timeunit.Format(*r.TotalMinutes)
		resp.WorkedTime = &worked
	}
	return resp
}
