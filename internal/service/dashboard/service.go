package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	attendanceService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/service/session"
	"golang.org/x/sync/errgroup"
)

// upcomingHolidayDays bounds how far ahead holidays are listed.
const upcomingHolidayDays = 30

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	report.ReportRepository
	holiday.HolidayRepository
	leave.LeaveRequestRepository
	policy attendanceService.Policy
	now    func() time.Time
}

func NewDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	reportRepo report.ReportRepository,
	holidayRepo holiday.HolidayRepository,
	leaveRepo leave.LeaveRequestRepository,
	policy attendanceService.Policy,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		AttendanceRepository:   attendanceRepo,
		ReportRepository:       reportRepo,
		HolidayRepository:      holidayRepo,
		LeaveRequestRepository: leaveRepo,
		policy:                 policy,
		now:                    time.Now,
	}
}

// GetDashboard returns combined dashboard data using parallel goroutines,
// one query each.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := s.policy.Today(now)
	horizon := today.AddDays(upcomingHolidayDays)
	month := fmt.Sprintf("%04d-%02d", today.Year, today.Month)
	approved := string(leave.LeaveRequestStatusApproved)

	var (
		state          session.State
		summary        attendanceService.Summary
		pendingReports int64
		holidays       []holiday.Holiday
		leaves         []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's record -> session state
	g.Go(func() error {
		record, err := s.AttendanceRepository.GetByEmployeeAndDate(gCtx, identity.UserID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		state, err = session.DeriveState(record)
		return err
	})

	// 2. Month-to-date summary
	g.Go(func() error {
		records, err := s.AttendanceRepository.ListByEmployee(gCtx, identity.UserID, attendance.MyAttendanceFilter{Month: &month})
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		summary = attendanceService.Summarize(records)
		return nil
	})

	// 3. Reports still waiting for review
	g.Go(func() error {
		count, err := s.ReportRepository.CountByEmployeeAndStatus(gCtx, identity.UserID, report.StatusSubmitted)
		if err != nil {
			return fmt.Errorf("failed to count pending reports: %w", err)
		}
		pendingReports = count
		return nil
	})

	// 4. Upcoming holidays
	g.Go(func() error {
		var err error
		holidays, err = s.HolidayRepository.List(gCtx, &today, &horizon)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		return nil
	})

	// 5. Approved leaves
	g.Go(func() error {
		var err error
		leaves, err = s.LeaveRequestRepository.List(gCtx, leave.LeaveFilter{Status: &approved})
		if err != nil {
			return fmt.Errorf("failed to list leave requests: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	worked := int(state.ElapsedSeconds(now) / 60)

	upcoming := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		upcoming = append(upcoming, holiday.ToResponse(h))
	}

	return &dashboard.DashboardResponse{
		Session:            state.Response(now),
		TodayWorkedMinutes: worked,
		TodayWorked:        timeunit.Format(worked),
		Summary:            summary.Response(),
		PendingReports:     pendingReports,
		UpcomingHolidays:   upcoming,
		ApprovedLeaves:     leaveService.ToResponses(leaves),
	}, nil
}
