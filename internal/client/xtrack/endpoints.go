package xtrack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

// ========================================
// AUTH
// ========================================

func (c *Client) Login(ctx context.Context, username, password string) (auth.LoginResponse, error) {
	var out auth.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, auth.LoginRequest{Username: username, Password: password}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (user.UserResponse, error) {
	var out user.UserResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// ========================================
// ATTENDANCE
// ========================================

// Mine returns the caller's attendance records as domain records.
func (c *Client) Mine(ctx context.Context) ([]attendance.Record, error) {
	var out []attendance.RecordResponse
	if err := c.do(ctx, http.MethodGet, "/attendance/mine", nil, nil, &out); err != nil {
		return nil, err
	}

	records := make([]attendance.Record, 0, len(out))
	for _, r := range out {
		record, err := toRecord(r)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func toRecord(r attendance.RecordResponse) (attendance.Record, error) {
	date, err := civil.Parse(r.Date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("attendance %s: %w", r.ID, err)
	}
	return attendance.Record{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         date,
		CheckIn:      r.CheckInAt,
		CheckOut:     r.CheckOutAt,
		TotalMinutes: r.TotalMinutes,
		Status:       attendance.Status(r.Status),
		EmployeeName: r.EmployeeName,
	}, nil
}

func (c *Client) CheckIn(ctx context.Context) (attendance.CheckInResponse, error) {
	var out attendance.CheckInResponse
	err := c.do(ctx, http.MethodPost, "/attendance/check-in", nil, nil, &out)
	return out, err
}

func (c *Client) CheckOut(ctx context.Context) (attendance.CheckOutResponse, error) {
	var out attendance.CheckOutResponse
	err := c.do(ctx, http.MethodPost, "/attendance/check-out", nil, nil, &out)
	return out, err
}

// Summary aggregates the given YYYY-MM month, or all records when empty.
func (c *Client) Summary(ctx context.Context, month string) (attendance.SummaryResponse, error) {
	var query url.Values
	if month != "" {
		query = url.Values{"month": {month}}
	}
	var out attendance.SummaryResponse
	err := c.do(ctx, http.MethodGet, "/attendance/summary", query, nil, &out)
	return out, err
}

func (c *Client) Session(ctx context.Context) (attendance.SessionResponse, error) {
	var out attendance.SessionResponse
	err := c.do(ctx, http.MethodGet, "/attendance/session", nil, nil, &out)
	return out, err
}

// ========================================
// REPORTS
// ========================================

func (c *Client) SubmitReport(ctx context.Context, req report.CreateReportRequest) (report.EntryResponse, error) {
	var out report.EntryResponse
	err := c.do(ctx, http.MethodPost, "/reports", nil, req, &out)
	return out, err
}

func (c *Client) MyReports(ctx context.Context) ([]report.EntryResponse, error) {
	var out []report.EntryResponse
	err := c.do(ctx, http.MethodGet, "/reports/mine", nil, nil, &out)
	return out, err
}

func (c *Client) MyDailyReports(ctx context.Context) ([]report.DailySummaryResponse, error) {
	var out []report.DailySummaryResponse
	err := c.do(ctx, http.MethodGet, "/reports/mine/daily", nil, nil, &out)
	return out, err
}

// ========================================
// CALENDAR / DASHBOARD
// ========================================

func (c *Client) CalendarEvents(ctx context.Context) ([]calendar.EventResponse, error) {
	var out []calendar.EventResponse
	err := c.do(ctx, http.MethodGet, "/calendar/events", nil, nil, &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	var out dashboard.DashboardResponse
	err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &out)
	return out, err
}
