package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create inserts the day record. A unique violation on (user_id, date)
	// is returned as-is so the service layer can translate it.
	Create(ctx context.Context, a *Attendance) error
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	GetByID(ctx context.Context, id string) (*Attendance, error)
	Update(ctx context.Context, a *Attendance) error
	AddBreak(ctx context.Context, b *Break) error
	// CloseEarliestOpenBreak sets end_time on the open break with the
	// earliest start_time for the given attendance. Returns
	// ErrNoActiveBreak when every break is already closed.
	CloseEarliestOpenBreak(ctx context.Context, attendanceID string, endTime time.Time) (*Break, error)
	ListBreaks(ctx context.Context, attendanceID string) ([]Break, error)
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int, error)
}
