package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/xtrack-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/xtrack-backend-go/internal/service/auth"
	calendarService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/calendar"
	dashboardService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/dashboard"
	holidayService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/xtrack-backend-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	accessExpiration, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("parse JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExpiration)
	hub := sse.NewHub()
	policy := attendanceService.Policy{
		Location:       cfg.Attendance.Location,
		WorkStart:      cfg.Attendance.WorkStart,
		GracePeriod:    cfg.Attendance.GracePeriod,
		HalfDayMinutes: cfg.Attendance.HalfDayMinutes,
	}

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, holidayRepo, policy, hub)
	reportSvc := reportService.NewReportService(reportRepo, attendanceRepo)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	calendarSvc := calendarService.NewCalendarService(holidayRepo, leaveRequestRepo)
	dashboardSvc := dashboardService.NewDashboardService(attendanceRepo, reportRepo, holidayRepo, leaveRequestRepo, policy)

	router := appHTTP.NewRouter(JWTService, cfg.App, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Session:    appHTTP.NewSessionHandler(attendanceSvc, JWTService, hub),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
		Calendar:   appHTTP.NewCalendarHandler(calendarSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
	})

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.Location).RegisterJobs(scheduler, cfg.Attendance.AbsentJobEvery)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// SSE streams end when the signal context is cancelled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
