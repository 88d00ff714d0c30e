package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{"id", "employee_id", "date", "check_in", "check_out", "total_minutes", "status", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return database.New(mock), mock
}

func TestAttendanceRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	checkIn := time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)
	date := civil.Date{Year: 2026, Month: time.October, Day: 15}
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO attendances`).
		WithArgs("rec-1", "emp-1", date, &checkIn, (*time.Time)(nil), (*int)(nil), attendance.StatusOnTime).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), attendance.Record{
		ID:         "rec-1",
		EmployeeID: "emp-1",
		Date:       date,
		CheckIn:    &checkIn,
		Status:     attendance.StatusOnTime,
	})
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)
}

func TestAttendanceRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(`INSERT INTO attendances`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Create(context.Background(), attendance.Record{ID: "rec-1", EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceRepository_GetByEmployeeAndDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)
	date := civil.Date{Year: 2026, Month: time.October, Day: 15}

	checkIn := time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(510 * time.Minute)
	total := 510
	mock.ExpectQuery(`FROM attendances a\s+WHERE a.employee_id = \$1 AND a.date = \$2`).
		WithArgs("emp-1", date).
		WillReturnRows(pgxmock.NewRows(recordColumns).
			AddRow("rec-1", "emp-1", date, &checkIn, &checkOut, &total, attendance.StatusOnTime, checkIn, checkOut))

	record, err := repo.GetByEmployeeAndDate(context.Background(), "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 510, *record.TotalMinutes)
	assert.Equal(t, date, record.Date)
	assert.False(t, record.IsOpen())

	mock.ExpectQuery(`FROM attendances a`).
		WithArgs("emp-2", date).
		WillReturnError(pgx.ErrNoRows)

	record, err = repo.GetByEmployeeAndDate(context.Background(), "emp-2", date)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestAttendanceRepository_ListByEmployee_MonthFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	month := "2026-02"
	status := "LATE"
	first := civil.Date{Year: 2026, Month: time.February, Day: 1}
	last := civil.Date{Year: 2026, Month: time.February, Day: 28}

	mock.ExpectQuery(`WHERE a.employee_id = \$1 AND a.date >= \$2 AND a.date <= \$3 AND a.status = \$4`).
		WithArgs("emp-1", first, last, "late").
		WillReturnRows(pgxmock.NewRows(recordColumns).
			AddRow("rec-1", "emp-1", first, (*time.Time)(nil), (*time.Time)(nil), (*int)(nil), attendance.StatusLate, time.Now(), time.Now()))

	records, err := repo.ListByEmployee(context.Background(), "emp-1", attendance.MyAttendanceFilter{Month: &month, Status: &status})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceRepository_CreateAbsentForMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)
	date := civil.Date{Year: 2026, Month: time.October, Day: 14}

	mock.ExpectExec(`INSERT INTO attendances \(id, employee_id, date, status\)`).
		WithArgs(date).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))

	count, err := repo.CreateAbsentForMissing(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		assert.NotEqual(t, db.Pool, GetQuerier(ctx, db), "repositories must see the transaction")
		return attendance.ErrAlreadyCheckedIn
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestWithTransaction_Commit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		calls++
		// nested calls join the outer transaction
		return WithTransaction(ctx, db, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
