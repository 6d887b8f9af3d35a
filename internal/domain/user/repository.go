package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, newUser *User) error

	// ApplyOnTimeCheckIn bumps total_present_days and on_time_streak and
	// raises best_on_time_streak, all in one UPDATE.
	ApplyOnTimeCheckIn(ctx context.Context, userID string) (*User, error)

	// ApplyLateCheckIn bumps total_present_days and total_late_days and
	// resets on_time_streak to zero, all in one UPDATE.
	ApplyLateCheckIn(ctx context.Context, userID string) (*User, error)

	SetMagicLink(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetByMagicLinkToken(ctx context.Context, token string) (*User, error)
	ClearMagicLink(ctx context.Context, userID string) error

	// ListActiveIDs returns the ids of non-suspended users, used by the
	// absence-marking job.
	ListActiveIDs(ctx context.Context) ([]string, error)
}
