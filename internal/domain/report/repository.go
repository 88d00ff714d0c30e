package report

import (
	"context"
)

type ReportRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	GetByID(ctx context.Context, id string) (Entry, error)

	// Update persists content fields only and returns the stored row
	Update(ctx context.Context, entry Entry) (Entry, error)

	// UpdateStatus sets status only when the current status equals from
	UpdateStatus(ctx context.Context, id string, from Status, to Status) (Entry, error)

	// ListByEmployee returns entries in submission order
	ListByEmployee(ctx context.Context, employeeID string) ([]Entry, error)
	List(ctx context.Context, filter ReportFilter) ([]Entry, error)
	CountByEmployeeAndStatus(ctx context.Context, employeeID string, status Status) (int64, error)
}
