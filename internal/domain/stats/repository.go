package stats

import (
	"context"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
)

type StatsRepository interface {
	// ListInRange returns the user's attendance rows with date inside the
	// inclusive range, oldest first. Zero times leave that bound open.
	ListInRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error)
}
