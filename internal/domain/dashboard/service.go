package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard loads the snapshot with parallel reads
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}
