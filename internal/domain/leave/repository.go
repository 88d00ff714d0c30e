package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequest, error)

	// UpdateStatus moves a request out of from; it returns
	// ErrLeaveRequestAlreadyProcessed when the current status differs
	UpdateStatus(ctx context.Context, id string, from, to LeaveRequestStatus, reviewerID string) (LeaveRequest, error)
}
