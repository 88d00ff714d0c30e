package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to a migrated database named by TEST_DATABASE_URL and
// empties every table. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Pool.Exec(context.Background(),
		`TRUNCATE TABLE work_reports, attendances, leave_requests, holidays, users CASCADE`)
	require.NoError(t, err)
	return db
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func seedEmployee(t *testing.T, db *database.DB, username string) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		ID:           newID(t),
		Username:     username,
		Name:         "Test " + username,
		PasswordHash: "x",
		Role:         user.RoleEmployee,
	})
	require.NoError(t, err)
	return u
}

func TestIntegration_CheckInTwiceConflicts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	emp := seedEmployee(t, db, "budi")
	repo := postgresql.NewAttendanceRepository(db)

	today := civil.Date{Year: 2026, Month: time.October, Day: 15}
	checkIn := time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, attendance.Record{ID: newID(t), EmployeeID: emp.ID, Date: today, CheckIn: &checkIn, Status: attendance.StatusOnTime})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Record{ID: newID(t), EmployeeID: emp.ID, Date: today, CheckIn: &checkIn, Status: attendance.StatusOnTime})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	found, err := repo.GetByEmployeeAndDate(ctx, emp.ID, today)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.IsOpen())
	assert.Equal(t, today, found.Date)
}

func TestIntegration_ReportReviewOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	emp := seedEmployee(t, db, "sari")
	repo := postgresql.NewReportRepository(db)

	entry, err := repo.Create(ctx, report.Entry{
		ID:              newID(t),
		EmployeeID:      emp.ID,
		Date:            civil.Date{Year: 2026, Month: time.October, Day: 15},
		TaskDescription: "Write migration",
		MinutesSpent:    90,
		Status:          report.StatusSubmitted,
	})
	require.NoError(t, err)

	approved, err := repo.UpdateStatus(ctx, entry.ID, report.StatusSubmitted, report.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, report.StatusApproved, approved.Status)

	_, err = repo.UpdateStatus(ctx, entry.ID, report.StatusSubmitted, report.StatusRejected)
	assert.ErrorIs(t, err, report.ErrReportAlreadyReviewed)
}

func TestIntegration_AbsentSkipsApprovedLeave(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	present := seedEmployee(t, db, "andi")
	onLeave := seedEmployee(t, db, "dewi")
	missing := seedEmployee(t, db, "eka")
	day := civil.Date{Year: 2026, Month: time.October, Day: 14}

	checkIn := time.Date(2026, 10, 14, 2, 0, 0, 0, time.UTC)
	_, err := postgresql.NewAttendanceRepository(db).Create(ctx, attendance.Record{
		ID: newID(t), EmployeeID: present.ID, Date: day, CheckIn: &checkIn, Status: attendance.StatusOnTime,
	})
	require.NoError(t, err)

	leaves := postgresql.NewLeaveRequestRepository(db)
	req, err := leaves.Create(ctx, leave.LeaveRequest{
		ID: newID(t), EmployeeID: onLeave.ID, LeaveType: leave.LeaveTypeSick,
		StartDate: day, EndDate: day, TotalDays: 1, Reason: "Flu", Status: leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	_, err = leaves.UpdateStatus(ctx, req.ID, leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved, present.ID)
	require.NoError(t, err)

	count, err := postgresql.NewAttendanceRepository(db).CreateAbsentForMissing(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	record, err := postgresql.NewAttendanceRepository(db).GetByEmployeeAndDate(ctx, missing.ID, day)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, attendance.StatusAbsent, record.Status)
}
