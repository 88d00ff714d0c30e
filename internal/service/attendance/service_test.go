package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records     map[string]attendance.Record // employee|date -> record
	absentCalls []civil.Date
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.Record{}}
}

func key(employeeID string, date civil.Date) string {
	return employeeID + "|" + date.String()
}

func (f *fakeAttendanceRepo) Create(_ context.Context, r attendance.Record) (attendance.Record, error) {
	f.records[key(r.EmployeeID, r.Date)] = r
	return r, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, r attendance.Record) (attendance.Record, error) {
	f.records[key(r.EmployeeID, r.Date)] = r
	return r, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date civil.Date) (*attendance.Record, error) {
	r, ok := f.records[key(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID string, _ attendance.MyAttendanceFilter) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) CreateAbsentForMissing(_ context.Context, date civil.Date) (int64, error) {
	f.absentCalls = append(f.absentCalls, date)
	return 3, nil
}

type fakeHolidayRepo struct {
	holiday.HolidayRepository
	dates map[civil.Date]bool
}

func (f fakeHolidayRepo) ExistsOn(_ context.Context, date civil.Date) (bool, error) {
	return f.dates[date], nil
}

type harness struct {
	svc  *AttendanceServiceImpl
	repo *fakeAttendanceRepo
	mock pgxmock.PgxPoolIface
	hub  *sse.Hub
	now  time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	h := &harness{
		repo: newFakeAttendanceRepo(),
		mock: mock,
		hub:  sse.NewHub(),
	}
	policy := Policy{Location: time.UTC, WorkStart: 9 * time.Hour, GracePeriod: 15 * time.Minute, HalfDayMinutes: 240}
	h.svc = NewAttendanceService(database.New(mock), h.repo, fakeHolidayRepo{}, policy, h.hub)
	h.svc.now = func() time.Time { return h.now }
	return h
}

func workerCtx(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	ctx, err := jwt.ContextWithIdentity(context.Background(), ja, jwt.Identity{UserID: "emp-1", Name: "Budi", Role: user.RoleEmployee})
	require.NoError(t, err)
	return ctx
}

func TestCheckInCheckOut_FullDay(t *testing.T) {
	h := newHarness(t)
	ctx := workerCtx(t)
	events, unsubscribe := h.hub.Subscribe("emp-1")
	defer unsubscribe()

	h.now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	in, err := h.svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "09:00", in.CheckIn)
	assert.Equal(t, "on_time", in.Status)
	assert.Equal(t, "2025-03-10", in.Date)

	ev := <-events
	assert.Equal(t, SessionEvent, ev.Event)
	assert.Equal(t, "checked_in", ev.Data.(attendance.SessionResponse).State)

	h.now = time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	out, err := h.svc.CheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, "17:30", out.CheckOut)
	assert.Equal(t, 510, out.TotalMinutes)
	assert.Equal(t, "8h 30m", out.WorkedTime)
	assert.Equal(t, "on_time", out.Status)

	ev = <-events
	assert.Equal(t, "checked_out", ev.Data.(attendance.SessionResponse).State)

	session, err := h.svc.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "checked_out", session.State)
	require.NotNil(t, session.TotalMinutes)
	assert.Equal(t, 510, *session.TotalMinutes)
}

func TestCheckIn_RejectsSecondSession(t *testing.T) {
	h := newHarness(t)
	ctx := workerCtx(t)
	h.now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	in, err := h.svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", in.Status)

	h.mock.ExpectBegin()
	h.mock.ExpectRollback()
	_, err = h.svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	h.now = h.now.Add(time.Hour)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	out, err := h.svc.CheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, out.TotalMinutes)
	assert.Equal(t, "late", out.Status)

	h.mock.ExpectBegin()
	h.mock.ExpectRollback()
	_, err = h.svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	h := newHarness(t)
	h.now = time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

	h.mock.ExpectBegin()
	h.mock.ExpectRollback()
	_, err := h.svc.CheckOut(workerCtx(t))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_ShortDayIsHalfDay(t *testing.T) {
	h := newHarness(t)
	ctx := workerCtx(t)

	h.now = time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	_, err := h.svc.CheckIn(ctx)
	require.NoError(t, err)

	h.now = time.Date(2025, 3, 10, 11, 55, 30, 0, time.UTC)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	out, err := h.svc.CheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 180, out.TotalMinutes)
	assert.Equal(t, "half_day", out.Status)
}

func TestGetSession_Idle(t *testing.T) {
	h := newHarness(t)
	h.now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	session, err := h.svc.GetSession(workerCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "idle", session.State)
	assert.Nil(t, session.Since)
}

func TestGetMySummary(t *testing.T) {
	h := newHarness(t)
	for i, s := range []attendance.Status{attendance.StatusOnTime, attendance.StatusLate, attendance.StatusHalfDay, attendance.StatusAbsent} {
		date := civil.Date{Year: 2025, Month: 3, Day: 3 + i}
		h.repo.records[key("emp-1", date)] = attendance.Record{EmployeeID: "emp-1", Date: date, Status: s}
	}

	summary, err := h.svc.GetMySummary(workerCtx(t), attendance.MyAttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, attendance.SummaryResponse{Present: 2, Late: 1, Absent: 1, Rate: 67}, summary)
}

func TestMarkAbsent(t *testing.T) {
	h := newHarness(t)
	holidayDate := civil.Date{Year: 2025, Month: 3, Day: 31}
	h.svc.HolidayRepository = fakeHolidayRepo{dates: map[civil.Date]bool{holidayDate: true}}

	// Saturday
	n, err := h.svc.MarkAbsent(context.Background(), civil.Date{Year: 2025, Month: 3, Day: 8})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = h.svc.MarkAbsent(context.Background(), holidayDate)
	require.NoError(t, err)
	assert.Zero(t, n)

	monday := civil.Date{Year: 2025, Month: 3, Day: 10}
	n, err = h.svc.MarkAbsent(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []civil.Date{monday}, h.repo.absentCalls)
}
