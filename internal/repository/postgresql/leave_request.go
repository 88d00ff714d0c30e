package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `l.id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.total_days, l.reason, l.status, l.reviewed_by, l.reviewed_at, l.created_at, l.updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.LeaveType,
		&l.StartDate,
		&l.EndDate,
		&l.TotalDays,
		&l.Reason,
		&l.Status,
		&l.ReviewedBy,
		&l.ReviewedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.OwnerName,
	)
	return l, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, total_days, reason, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + leaveColumns + `, u.name
		FROM inserted l
		JOIN users u ON u.id = l.employee_id
	`

	created, err := scanLeave(q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.LeaveType,
		req.StartDate,
		req.EndDate,
		req.TotalDays,
		req.Reason,
		req.Status,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `, u.name
		FROM leave_requests l
		JOIN users u ON u.id = l.employee_id
		WHERE l.id = $1
	`

	found, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return found, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var where []string
	var args []any
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		args = append(args, *filter.EmployeeID)
		where = append(where, fmt.Sprintf("l.employee_id = $%d", len(args)))
	}
	if filter.Status != nil && *filter.Status != "" {
		args = append(args, strings.ToLower(*filter.Status))
		where = append(where, fmt.Sprintf("l.status = $%d", len(args)))
	}

	query := `
		SELECT ` + leaveColumns + `, u.name
		FROM leave_requests l
		JOIN users u ON u.id = l.employee_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY l.start_date ASC, l.created_at ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	return requests, rows.Err()
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to leave.LeaveRequestStatus, reviewerID string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE leave_requests
			SET status = $3, reviewed_by = $4, reviewed_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING *
		)
		SELECT ` + leaveColumns + `, u.name
		FROM updated l
		JOIN users u ON u.id = l.employee_id
	`

	updated, err := scanLeave(q.QueryRow(ctx, query, id, from, to, reviewerID))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return leave.LeaveRequest{}, err
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
}
