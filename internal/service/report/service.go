package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	"github.com/google/uuid"
)

type ReportServiceImpl struct {
	report.ReportRepository
	attendance.AttendanceRepository
}

func NewReportService(reportRepo report.ReportRepository, attendanceRepo attendance.AttendanceRepository) *ReportServiceImpl {
	return &ReportServiceImpl{
		ReportRepository:     reportRepo,
		AttendanceRepository: attendanceRepo,
	}
}

// Submit implements report.ReportService. A report can only be filed for a
// day the employee has already checked out of.
func (s *ReportServiceImpl) Submit(ctx context.Context, req report.CreateReportRequest) (report.EntryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return report.EntryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.EntryResponse{}, err
	}

	date, err := civil.Parse(req.Date)
	if err != nil {
		return report.EntryResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, identity.UserID, date)
	if err != nil {
		return report.EntryResponse{}, fmt.Errorf("failed to get attendance for %s: %w", date, err)
	}
	if record == nil || record.CheckOut == nil {
		return report.EntryResponse{}, report.ErrNotCheckedOut
	}

	id, err := uuid.NewV7()
	if err != nil {
		return report.EntryResponse{}, fmt.Errorf("failed to generate report id: %w", err)
	}

	created, err := s.ReportRepository.Create(ctx, report.Entry{
		ID:              id.String(),
		EmployeeID:      identity.UserID,
		Date:            date,
		TaskDescription: strings.TrimSpace(req.TaskDescription),
		MinutesSpent:    req.Minutes(),
		RelatedAdmin:    trimmed(req.RelatedAdmin),
		Blockers:        trimmed(req.Blockers),
		Status:          report.StatusSubmitted,
	})
	if err != nil {
		return report.EntryResponse{}, fmt.Errorf("failed to create report: %w", err)
	}

	return toResponse(created), nil
}

// Update implements report.ReportService.
func (s *ReportServiceImpl) Update(ctx context.Context, req report.UpdateReportRequest) (report.EntryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return report.EntryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.EntryResponse{}, err
	}

	entry, err := s.ReportRepository.GetByID(ctx, req.ID)
	if err != nil {
		return report.EntryResponse{}, err
	}
	if entry.EmployeeID != identity.UserID && !identity.IsAdmin() {
		return report.EntryResponse{}, report.ErrNotReportOwner
	}

	if req.Status != nil {
		if !identity.IsAdmin() {
			return report.EntryResponse{}, user.ErrAdminPrivilegeRequired
		}
		next := report.Status(strings.ToLower(*req.Status))
		if !entry.Status.CanReassign(next) {
			return report.EntryResponse{}, fmt.Errorf("%w: %s to %s", report.ErrInvalidStatusTransition, entry.Status, next)
		}
		// Guarded on the status read above; a review in between wins
		if next != entry.Status {
			if _, err := s.ReportRepository.UpdateStatus(ctx, entry.ID, entry.Status, next); err != nil {
				return report.EntryResponse{}, err
			}
		}
	}

	entry.TaskDescription = strings.TrimSpace(req.TaskDescription)
	entry.MinutesSpent = req.MinutesSpent
	entry.RelatedAdmin = trimmed(req.RelatedAdmin)

	updated, err := s.ReportRepository.Update(ctx, entry)
	if err != nil {
		return report.EntryResponse{}, fmt.Errorf("failed to update report: %w", err)
	}
	return toResponse(updated), nil
}

// Approve implements report.ReportService.
func (s *ReportServiceImpl) Approve(ctx context.Context, id string) (report.EntryResponse, error) {
	return s.review(ctx, id, report.StatusApproved)
}

// Reject implements report.ReportService.
func (s *ReportServiceImpl) Reject(ctx context.Context, id string) (report.EntryResponse, error) {
	return s.review(ctx, id, report.StatusRejected)
}

func (s *ReportServiceImpl) review(ctx context.Context, id string, to report.Status) (report.EntryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return report.EntryResponse{}, err
	}
	if !identity.IsAdmin() {
		return report.EntryResponse{}, user.ErrAdminPrivilegeRequired
	}

	updated, err := s.ReportRepository.UpdateStatus(ctx, id, report.StatusSubmitted, to)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) || errors.Is(err, report.ErrReportAlreadyReviewed) {
			return report.EntryResponse{}, err
		}
		return report.EntryResponse{}, fmt.Errorf("failed to %s report: %w", strings.TrimSuffix(string(to), "d"), err)
	}
	return toResponse(updated), nil
}

// GetMine implements report.ReportService.
func (s *ReportServiceImpl) GetMine(ctx context.Context) ([]report.EntryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ReportRepository.ListByEmployee(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return toResponses(entries), nil
}

// GetMineDaily implements report.ReportService.
func (s *ReportServiceImpl) GetMineDaily(ctx context.Context) ([]report.DailySummaryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ReportRepository.ListByEmployee(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	records, err := s.AttendanceRepository.ListByEmployee(ctx, identity.UserID, attendance.MyAttendanceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	refs := make([]*report.Entry, len(entries))
	for i := range entries {
		refs[i] = &entries[i]
	}
	days := GroupByDay(refs)
	Reconcile(days, records)

	out := make([]report.DailySummaryResponse, 0, len(days))
	for _, day := range days {
		out = append(out, toDailyResponse(day))
	}
	return out, nil
}

// List implements report.ReportService.
func (s *ReportServiceImpl) List(ctx context.Context, filter report.ReportFilter) ([]report.EntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.ReportRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return toResponses(entries), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toResponses(entries []report.Entry) []report.EntryResponse {
	out := make([]report.EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResponse(e))
	}
	return out
}

func toResponse(e report.Entry) report.EntryResponse {
	return report.EntryResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		EmployeeName:    e.EmployeeName,
		Date:            e.Date.String(),
		TaskDescription: e.TaskDescription,
		MinutesSpent:    e.MinutesSpent,
		TimeSpent:       timeunit.Format(e.MinutesSpent),
		RelatedAdmin:    e.RelatedAdmin,
		Blockers:        e.Blockers,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toDailyResponse(day report.DailySummary) report.DailySummaryResponse {
	entries := make([]report.EntryResponse, 0, len(day.Entries))
	for _, e := range day.Entries {
		entries = append(entries, toResponse(*e))
	}
	total := day.TotalMinutes()
	return report.DailySummaryResponse{
		Date:              day.Date.String(),
		Entries:           entries,
		TotalMinutes:      total,
		TotalTime:         timeunit.Format(total),
		AttendanceMinutes: day.AttendanceMinutes,
		UnreportedMinutes: day.UnreportedMinutes(),
	}
}
