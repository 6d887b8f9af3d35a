package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/session"
)

func NewRouter(
	jwtService jwt.Service,
	tracker *session.Tracker,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	statsHandler StatsHandler,
	teamHandler TeamHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/magic-link", authHandler.RequestMagicLink)
			r.Get("/magic-link/verify", authHandler.VerifyMagicLink)
			r.Post("/magic-link/verify", authHandler.VerifyMagicLink)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService, tracker))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Post("/break/start", attendanceHandler.StartBreak)
				r.Post("/break/end", attendanceHandler.EndBreak)
				r.Get("/today", attendanceHandler.Today)
				r.Get("/history", attendanceHandler.History)
				r.Get("/timeline", attendanceHandler.Timeline)
			})

			r.Route("/user", func(r chi.Router) {
				r.Get("/stats", statsHandler.MyStats)
				r.Get("/summary", statsHandler.Summary)
				r.Get("/analytics", statsHandler.Analytics)
			})

			// Manager only
			r.Route("/manager", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/team-summary", teamHandler.TeamSummary)
				r.Get("/today-overview", teamHandler.TodayOverview)
				r.Get("/export", teamHandler.ExportDayCSV)
			})
		})
	})
	return r
}
