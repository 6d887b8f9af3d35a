package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/config"
	appHTTP "github.com/attendly-hq/attendance-backend-go/internal/handler/http"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/cron"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/email"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/geo"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/session"
	"github.com/attendly-hq/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly-hq/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/attendly-hq/attendance-backend-go/internal/service/auth"
	statsService "github.com/attendly-hq/attendance-backend-go/internal/service/stats"
	teamService "github.com/attendly-hq/attendance-backend-go/internal/service/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	location, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		log.Fatal("Invalid attendance timezone:", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	statsRepo := postgresql.NewStatsRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	// An idle session's refresh tokens are revoked when its timer fires.
	tracker := session.NewTracker(cfg.Session.IdleTimeout, func(userID string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
			log.Println("Failed to revoke tokens for idle session:", err)
		}
	})
	defer tracker.Stop()

	office := geo.Geofence{
		Latitude:     cfg.Office.Latitude,
		Longitude:    cfg.Office.Longitude,
		RadiusMeters: cfg.Office.RadiusMeters,
	}

	authSvc := serviceAuth.NewAuthService(userRepo, refreshTokenRepo, JWTService, emailService, tracker, cfg.App.FrontendURL)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, userRepo, office, cfg.Attendance.LateCutoff, location)
	statsSvc := statsService.NewStatsService(statsRepo, userRepo, location)
	teamSvc := teamService.NewTeamService(teamRepo, location)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	statsHandler := appHTTP.NewStatsHandler(statsSvc)
	teamHandler := appHTTP.NewTeamHandler(teamSvc)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, userRepo, location).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		tracker,
		authHandler,
		attendanceHandler,
		statsHandler,
		teamHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
