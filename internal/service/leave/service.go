package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
}

func NewLeaveService(leaveRequestRepo leave.LeaveRequestRepository) *LeaveServiceImpl {
	return &LeaveServiceImpl{LeaveRequestRepository: leaveRequestRepo}
}

// Create implements leave.LeaveService.
func (l *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	start, err := civil.Parse(req.StartDate)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	end, err := civil.Parse(req.EndDate)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		ID:         id.String(),
		EmployeeID: identity.UserID,
		LeaveType:  leave.LeaveType(strings.ToLower(req.LeaveType)),
		StartDate:  start,
		EndDate:    end,
		TotalDays:  leave.InclusiveDays(start, end),
		Reason:     strings.TrimSpace(req.Reason),
		Status:     leave.LeaveRequestStatusPending,
		OwnerName:  identity.Name,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return ToResponse(created), nil
}

// GetMine implements leave.LeaveService.
func (l *LeaveServiceImpl) GetMine(ctx context.Context) ([]leave.LeaveResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := l.LeaveRequestRepository.List(ctx, leave.LeaveFilter{EmployeeID: &identity.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to get my leave requests: %w", err)
	}
	return ToResponses(requests), nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave requests: %w", err)
	}
	return ToResponses(requests), nil
}

// Approve implements leave.LeaveService.
func (l *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return l.review(ctx, id, leave.LeaveRequestStatusApproved)
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return l.review(ctx, id, leave.LeaveRequestStatusRejected)
}

func (l *LeaveServiceImpl) review(ctx context.Context, id string, to leave.LeaveRequestStatus) (leave.LeaveResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !identity.IsAdmin() {
		return leave.LeaveResponse{}, user.ErrAdminPrivilegeRequired
	}

	updated, err := l.LeaveRequestRepository.UpdateStatus(ctx, id, leave.LeaveRequestStatusPending, to, identity.UserID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) || errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) {
			return leave.LeaveResponse{}, err
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return ToResponse(updated), nil
}

func ToResponses(requests []leave.LeaveRequest) []leave.LeaveResponse {
	out := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, ToResponse(r))
	}
	return out
}

func ToResponse(r leave.LeaveRequest) leave.LeaveResponse {
	return leave.LeaveResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		OwnerName:  r.OwnerName,
		LeaveType:  string(r.LeaveType),
		StartDate:  r.StartDate.String(),
		EndDate:    r.EndDate.String(),
		TotalDays:  r.TotalDays,
		Reason:     r.Reason,
		Status:     string(r.Status),
		ReviewedBy: r.ReviewedBy,
		ReviewedAt: r.ReviewedAt,
		CreatedAt:  r.CreatedAt,
	}
}
