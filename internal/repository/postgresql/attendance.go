package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `a.id, a.employee_id, a.date, a.check_in, a.check_out, a.total_minutes, a.status, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row, extra ...any) (attendance.Record, error) {
	var r attendance.Record
	dest := []any{
		&r.ID, &r.EmployeeID, &r.Date, &r.CheckIn, &r.CheckOut, &r.TotalMinutes, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return r, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, check_in, check_out, total_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.CheckIn,
		record.CheckOut,
		record.TotalMinutes,
		record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return record, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out = $2, total_minutes = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, record.ID, record.CheckOut, record.TotalMinutes, record.Status).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date civil.Date) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
		LIMIT 1
	`

	record, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &record, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where := []string{"a.employee_id = $1"}
	args := []any{employeeID}

	start, end := filter.Range()
	if start != nil {
		args = append(args, *start)
		where = append(where, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		where = append(where, fmt.Sprintf("a.date <= $%d", len(args)))
	}
	if filter.Status != nil && *filter.Status != "" {
		args = append(args, strings.ToLower(*filter.Status))
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.date DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var where []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Date != nil && *filter.Date != "" {
		add("a.date = $%d", *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add("a.date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add("a.date <= $%d", *filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("a.status = $%d", strings.ToLower(*filter.Status))
	}

	query := `
		SELECT ` + attendanceColumns + `, u.name
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset())
	query += fmt.Sprintf(" ORDER BY a.date DESC, u.name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var name string
		record, err := scanRecord(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		record.EmployeeName = &name
		records = append(records, record)
	}

	return records, rows.Err()
}

// CreateAbsentForMissing implements attendance.AttendanceRepository.
// Employees on approved leave for date are not marked.
func (a *attendanceRepository) CreateAbsentForMissing(ctx context.Context, date civil.Date) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, status)
		SELECT gen_random_uuid(), u.id, $1, 'absent'
		FROM users u
		WHERE u.role = 'employee'
		  AND NOT EXISTS (
			SELECT 1 FROM attendances a WHERE a.employee_id = u.id AND a.date = $1
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM leave_requests l
			WHERE l.employee_id = u.id AND l.status = 'approved'
			  AND $1 BETWEEN l.start_date AND l.end_date
		  )
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to create absences: %w", err)
	}
	return tag.RowsAffected(), nil
}
