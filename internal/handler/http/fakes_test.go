package http

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/config"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeAuthService struct {
	loginErr    error
	logoutToken string
	created     *user.CreateUserRequest
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if f.loginErr != nil {
		return auth.LoginResponse{}, f.loginErr
	}
	return auth.LoginResponse{
		Token:     "signed-token",
		ExpiresAt: 1760000000,
		User:      user.UserResponse{ID: "u-1", Username: req.Username, Name: "Budi", Role: "employee"},
	}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	f.logoutToken = token
	return nil
}

func (f *fakeAuthService) Me(ctx context.Context) (user.UserResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.UserResponse{ID: id.UserID, Username: id.Username, Name: id.Name, Role: string(id.Role)}, nil
}

func (f *fakeAuthService) CreateUser(_ context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	f.created = &req
	return user.UserResponse{ID: "u-2", Username: req.Username, Name: req.Name, Role: req.Role}, nil
}

func (f *fakeAuthService) ListUsers(context.Context) ([]user.UserResponse, error) {
	return []user.UserResponse{{ID: "u-1", Username: "budi"}}, nil
}

type fakeAttendanceService struct {
	mu          sync.Mutex
	checkInErr  error
	session     attendance.SessionResponse
	sessionUser string
	listFilter  *attendance.AttendanceFilter
}

func (f *fakeAttendanceService) CheckIn(context.Context) (attendance.CheckInResponse, error) {
	if f.checkInErr != nil {
		return attendance.CheckInResponse{}, f.checkInErr
	}
	return attendance.CheckInResponse{ID: "a-1", Date: "2025-03-03", CheckIn: "09:00", Status: "on_time"}, nil
}

func (f *fakeAttendanceService) CheckOut(context.Context) (attendance.CheckOutResponse, error) {
	return attendance.CheckOutResponse{}, attendance.ErrNotCheckedIn
}

func (f *fakeAttendanceService) GetMyAttendance(context.Context, attendance.MyAttendanceFilter) ([]attendance.RecordResponse, error) {
	return []attendance.RecordResponse{}, nil
}

func (f *fakeAttendanceService) GetToday(context.Context) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeAttendanceService) GetSession(ctx context.Context) (attendance.SessionResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionUser = id.UserID
	return f.session, nil
}

func (f *fakeAttendanceService) GetMySummary(context.Context, attendance.MyAttendanceFilter) (attendance.SummaryResponse, error) {
	return attendance.SummaryResponse{Present: 3, Late: 1, Absent: 1, Rate: 75}, nil
}

func (f *fakeAttendanceService) ListAttendance(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.RecordResponse, error) {
	f.listFilter = &filter
	return []attendance.RecordResponse{}, nil
}

func (f *fakeAttendanceService) MarkAbsent(context.Context, civil.Date) (int64, error) {
	return 0, nil
}

type fakeReportService struct {
	submitted *report.CreateReportRequest
	updated   *report.UpdateReportRequest
	reviewErr error
}

func (f *fakeReportService) Submit(_ context.Context, req report.CreateReportRequest) (report.EntryResponse, error) {
	f.submitted = &req
	return report.EntryResponse{ID: "r-1", Date: req.Date, MinutesSpent: req.Minutes(), Status: "submitted"}, nil
}

func (f *fakeReportService) Update(_ context.Context, req report.UpdateReportRequest) (report.EntryResponse, error) {
	f.updated = &req
	return report.EntryResponse{ID: req.ID, MinutesSpent: req.MinutesSpent, Status: "submitted"}, nil
}

func (f *fakeReportService) Approve(_ context.Context, id string) (report.EntryResponse, error) {
	if f.reviewErr != nil {
		return report.EntryResponse{}, f.reviewErr
	}
	return report.EntryResponse{ID: id, Status: "approved"}, nil
}

func (f *fakeReportService) Reject(_ context.Context, id string) (report.EntryResponse, error) {
	if f.reviewErr != nil {
		return report.EntryResponse{}, f.reviewErr
	}
	return report.EntryResponse{ID: id, Status: "rejected"}, nil
}

func (f *fakeReportService) GetMine(context.Context) ([]report.EntryResponse, error) {
	return []report.EntryResponse{}, nil
}

func (f *fakeReportService) GetMineDaily(context.Context) ([]report.DailySummaryResponse, error) {
	return []report.DailySummaryResponse{}, nil
}

func (f *fakeReportService) List(context.Context, report.ReportFilter) ([]report.EntryResponse, error) {
	return []report.EntryResponse{}, nil
}

type fakeLeaveService struct{}

func (fakeLeaveService) Create(_ context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{ID: "l-1", LeaveType: req.LeaveType, Status: "pending"}, nil
}

func (fakeLeaveService) GetMine(context.Context) ([]leave.LeaveResponse, error) {
	return []leave.LeaveResponse{}, nil
}

func (fakeLeaveService) List(context.Context, leave.LeaveFilter) ([]leave.LeaveResponse, error) {
	return []leave.LeaveResponse{}, nil
}

func (fakeLeaveService) Approve(_ context.Context, id string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, leave.ErrLeaveRequestAlreadyProcessed
}

func (fakeLeaveService) Reject(_ context.Context, id string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{ID: id, Status: "rejected"}, nil
}

type fakeHolidayService struct {
	filter *holiday.HolidayFilter
}

func (f *fakeHolidayService) List(_ context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	f.filter = &filter
	return []holiday.HolidayResponse{{ID: "h-1", Name: "Nyepi", Date: "2025-03-29"}}, nil
}

func (f *fakeHolidayService) Create(_ context.Context, req holiday.HolidayRequest) (holiday.HolidayResponse, error) {
	return holiday.HolidayResponse{}, holiday.ErrHolidayDateExists
}

func (f *fakeHolidayService) Update(_ context.Context, req holiday.HolidayRequest) (holiday.HolidayResponse, error) {
	return holiday.HolidayResponse{ID: req.ID, Name: req.Name, Date: req.Date}, nil
}

func (f *fakeHolidayService) Delete(_ context.Context, id string) error {
	return holiday.ErrHolidayNotFound
}

type fakeCalendarService struct{}

func (fakeCalendarService) Events(context.Context) ([]calendar.EventResponse, error) {
	return []calendar.EventResponse{{Title: "Nyepi", Start: "2025-03-29", End: "2025-03-29", AllDay: true, ColorTag: "info", Kind: "holiday"}}, nil
}

type fakeDashboardService struct{}

func (fakeDashboardService) GetDashboard(context.Context) (*dashboard.DashboardResponse, error) {
	return &dashboard.DashboardResponse{PendingReports: 2}, nil
}

type testServer struct {
	router     *chi.Mux
	jwt        *jwt.JWTService
	hub        *sse.Hub
	auth       *fakeAuthService
	attendance *fakeAttendanceService
	report     *fakeReportService
	holiday    *fakeHolidayService
}

func newTestServer() *testServer {
	s := &testServer{
		jwt:        jwt.NewJWTService(handlerTestSecret, time.Hour),
		hub:        sse.NewHub(),
		auth:       &fakeAuthService{},
		attendance: &fakeAttendanceService{},
		report:     &fakeReportService{},
		holiday:    &fakeHolidayService{},
	}

	sessionHandler := &sessionHandlerImpl{
		attendanceService: s.attendance,
		jwtService:        s.jwt,
		hub:               s.hub,
		tickInterval:      10 * time.Millisecond,
		keepaliveInterval: time.Minute,
		now:               time.Now,
	}

	s.router = NewRouter(s.jwt, config.AppConfig{Env: "test", CORSAllowedOrigins: []string{"*"}}, Handlers{
		Auth:       NewAuthHandler(s.auth),
		Attendance: NewAttendanceHandler(s.attendance),
		Session:    sessionHandler,
		Report:     NewReportHandler(s.report),
		Leave:      NewLeaveHandler(fakeLeaveService{}),
		Holiday:    NewHolidayHandler(s.holiday),
		Calendar:   NewCalendarHandler(fakeCalendarService{}),
		Dashboard:  NewDashboardHandler(fakeDashboardService{}),
	})
	return s
}

func (s *testServer) token(role user.Role) string {
	token, _, err := s.jwt.GenerateAccessToken(user.User{
		ID:       "user-" + string(role),
		Username: string(role),
		Name:     "Test " + string(role),
		Role:     role,
	})
	if err != nil {
		panic(err)
	}
	return token
}
