package team

import (
	"context"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
)

type TeamRepository interface {
	// ListAllInRange returns attendance rows for every user in the
	// inclusive range, joined with the owner's name and department.
	ListAllInRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error)
	// ListForDay returns attendance rows for a single day, joined with
	// the owner's name and department.
	ListForDay(ctx context.Context, day time.Time) ([]attendance.Attendance, error)
	CountActiveUsers(ctx context.Context) (int, error)
}
