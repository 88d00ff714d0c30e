package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/config"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Session    SessionHandler
	Report     ReportHandler
	Leave      LeaveHandler
	Holiday    HolidayHandler
	Calendar   CalendarHandler
	Dashboard  DashboardHandler
}

func NewRouter(JWTService jwt.Service, app config.AppConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "xtrack"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				authenticated(r, JWTService)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// Token comes in the query string, EventSource cannot set headers
			r.Get("/session/stream", h.Session.Stream)

			r.Group(func(r chi.Router) {
				authenticated(r, JWTService)
				r.Get("/mine", h.Attendance.GetMyAttendance)
				r.Get("/summary", h.Attendance.GetMySummary)
				r.Get("/session", h.Attendance.GetSession)
				r.Get("/session/stream-token", h.Session.StreamToken)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceCreate))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
				})

				// Admin only
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			authenticated(r, JWTService)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Get("/", h.Auth.ListUsers)
				r.Post("/", h.Auth.CreateUser)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/mine", h.Report.GetMine)
				r.Get("/mine/daily", h.Report.GetMineDaily)
				r.With(middleware.RequirePermission(user.PermissionReportCreate)).Post("/", h.Report.Create)
				// Owner or admin, checked by the service
				r.Put("/{id}", h.Report.Update)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Report.List)
					r.Post("/{id}/approve", h.Report.Approve)
					r.Post("/{id}/reject", h.Report.Reject)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.List)
				r.Get("/mine", h.Leave.GetMine)
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.Create)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Holiday.List)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
					r.Post("/", h.Holiday.Create)
					r.Put("/{id}", h.Holiday.Update)
					r.Delete("/{id}", h.Holiday.Delete)
				})
			})

			r.Get("/calendar/events", h.Calendar.Events)
			r.Get("/dashboard", h.Dashboard.GetDashboard)
		})
	})
	return r
}

func authenticated(r chi.Router, JWTService jwt.Service) {
	r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
	r.Use(middleware.AuthRequired(JWTService))
}
