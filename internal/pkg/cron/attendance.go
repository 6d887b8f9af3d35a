package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/user"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	location       *time.Location
	nowFn          func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	location *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		location:       location,
		nowFn:          time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_users", 1*time.Hour, j.MarkAbsentUsers)
}

// MarkAbsentUsers backfills an absent record for every user who has no
// attendance row for the previous day. Runs hourly but only acts in the
// first hour after local midnight, so each day is settled exactly once.
func (j *AttendanceJobs) MarkAbsentUsers(ctx context.Context) error {
	now := j.nowFn().In(j.location)
	if now.Hour() != 0 {
		return nil
	}

	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.location).AddDate(0, 0, -1)

	slog.Info("Cron: Starting mark-absent job", "date", yesterday.Format("2006-01-02"))

	userIDs, err := j.userRepo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	marked := 0
	for _, userID := range userIDs {
		_, err := j.attendanceRepo.GetByUserAndDate(ctx, userID, yesterday)
		if err == nil {
			continue
		}
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			slog.Error("Cron: Failed to load attendance", "user_id", userID, "error", err)
			continue
		}

		record := &attendance.Attendance{
			UserID:     userID,
			Date:       yesterday,
			Status:     attendance.StatusAbsent,
			TotalHours: decimal.Zero,
		}
		if err := j.attendanceRepo.Create(ctx, record); err != nil {
			slog.Error("Cron: Failed to mark user absent", "user_id", userID, "error", err)
			continue
		}
		marked++
	}

	slog.Info("Cron: Mark-absent job completed", "date", yesterday.Format("2006-01-02"), "marked", marked)
	return nil
}
