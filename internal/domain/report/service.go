package report

import (
	"context"
)

type ReportService interface {
	// Submit files a new entry for the authenticated employee
	Submit(ctx context.Context, req CreateReportRequest) (EntryResponse, error)

	// Update edits content; administrators may also re-review status
	Update(ctx context.Context, req UpdateReportRequest) (EntryResponse, error)

	Approve(ctx context.Context, id string) (EntryResponse, error)
	Reject(ctx context.Context, id string) (EntryResponse, error)

	GetMine(ctx context.Context) ([]EntryResponse, error)

	// GetMineDaily groups the employee's entries per day and reconciles
	// each day against the attendance total
	GetMineDaily(ctx context.Context) ([]DailySummaryResponse, error)

	// List returns entries of all employees (admin)
	List(ctx context.Context, filter ReportFilter) ([]EntryResponse, error)
}
