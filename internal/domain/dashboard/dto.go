package dashboard

import (
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
)

// DashboardResponse is a read-only snapshot of everything the home screen
// shows for the authenticated employee.
type DashboardResponse struct {
	Session            attendance.SessionResponse `json:"session"`
	TodayWorkedMinutes int                        `json:"today_worked_minutes"`
	TodayWorked        string                     `json:"today_worked"`
	Summary            attendance.SummaryResponse `json:"summary"`
	PendingReports     int64                      `json:"pending_reports"`
	UpcomingHolidays   []holiday.HolidayResponse  `json:"upcoming_holidays"`
	ApprovedLeaves     []leave.LeaveResponse      `json:"approved_leaves"`
}
