package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const reportColumns = `r.id, r.employee_id, r.date, r.task_description, r.minutes_spent, r.related_admin, r.blockers, r.status, r.created_at, r.updated_at`

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

func scanEntry(row pgx.Row, extra ...any) (report.Entry, error) {
	var e report.Entry
	dest := []any{
		&e.ID, &e.EmployeeID, &e.Date, &e.TaskDescription, &e.MinutesSpent, &e.RelatedAdmin,
		&e.Blockers, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return e, err
}

// Create implements report.ReportRepository.
func (r *reportRepository) Create(ctx context.Context, entry report.Entry) (report.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_reports (id, employee_id, date, task_description, minutes_spent, related_admin, blockers, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.EmployeeID,
		entry.Date,
		entry.TaskDescription,
		entry.MinutesSpent,
		entry.RelatedAdmin,
		entry.Blockers,
		entry.Status,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return report.Entry{}, fmt.Errorf("failed to create report: %w", err)
	}
	return entry, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepository) GetByID(ctx context.Context, id string) (report.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + ` FROM work_reports r WHERE r.id = $1`

	entry, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Entry{}, report.ErrReportNotFound
		}
		return report.Entry{}, fmt.Errorf("failed to get report: %w", err)
	}
	return entry, nil
}

// Update implements report.ReportRepository. Status is left alone so a
// concurrent review is never overwritten by a content edit.
func (r *reportRepository) Update(ctx context.Context, entry report.Entry) (report.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_reports r
		SET task_description = $2, minutes_spent = $3, related_admin = $4, updated_at = NOW()
		WHERE r.id = $1
		RETURNING ` + reportColumns

	updated, err := scanEntry(q.QueryRow(ctx, query, entry.ID, entry.TaskDescription, entry.MinutesSpent, entry.RelatedAdmin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Entry{}, report.ErrReportNotFound
		}
		return report.Entry{}, fmt.Errorf("failed to update report: %w", err)
	}
	return updated, nil
}

// UpdateStatus implements report.ReportRepository. The status guard lives in
// the WHERE clause so concurrent reviews cannot both succeed.
func (r *reportRepository) UpdateStatus(ctx context.Context, id string, from, to report.Status) (report.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_reports r
		SET status = $3, updated_at = NOW()
		WHERE r.id = $1 AND r.status = $2
		RETURNING ` + reportColumns

	entry, err := scanEntry(q.QueryRow(ctx, query, id, from, to))
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return report.Entry{}, fmt.Errorf("failed to update report status: %w", err)
	}

	// Distinguish a missing report from one already moved on
	if _, err := r.GetByID(ctx, id); err != nil {
		return report.Entry{}, err
	}
	return report.Entry{}, report.ErrReportAlreadyReviewed
}

// ListByEmployee implements report.ReportRepository.
func (r *reportRepository) ListByEmployee(ctx context.Context, employeeID string) ([]report.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM work_reports r
		WHERE r.employee_id = $1
		ORDER BY r.created_at ASC, r.id ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var entries []report.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// List implements report.ReportRepository.
func (r *reportRepository) List(ctx context.Context, filter report.ReportFilter) ([]report.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var where []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("r.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Date != nil && *filter.Date != "" {
		add("r.date = $%d", *filter.Date)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("r.status = $%d", strings.ToLower(*filter.Status))
	}
	if filter.Search != nil && *filter.Search != "" {
		add("r.task_description ILIKE $%d", "%"+*filter.Search+"%")
	}

	query := `
		SELECT ` + reportColumns + `, u.name
		FROM work_reports r
		JOIN users u ON u.id = r.employee_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.date DESC, r.created_at ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var entries []report.Entry
	for rows.Next() {
		var name string
		entry, err := scanEntry(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		entry.EmployeeName = &name
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountByEmployeeAndStatus implements report.ReportRepository.
func (r *reportRepository) CountByEmployeeAndStatus(ctx context.Context, employeeID string, status report.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM work_reports WHERE employee_id = $1 AND status = $2`, employeeID, status).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}
