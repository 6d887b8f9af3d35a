package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string // nil for pure magic-link accounts
	Role         Role
	Department   *string
	IsActive     bool

	// magic-link login
	MagicLinkToken     *string
	MagicLinkExpiresAt *time.Time

	// streak bookkeeping, mutated only by the check-in transition
	OnTimeStreak     int
	BestOnTimeStreak int
	TotalPresentDays int
	TotalLateDays    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsManager checks if the user can see team-level data
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin || u.Role == RoleHR
}
