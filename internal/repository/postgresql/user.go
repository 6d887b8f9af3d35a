package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/user"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, name, email, password_hash, role, department, is_active,
	magic_link_token, magic_link_expires_at,
	on_time_streak, best_on_time_streak, total_present_days, total_late_days,
	created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.IsActive,
		&u.MagicLinkToken, &u.MagicLinkExpiresAt,
		&u.OnTimeStreak, &u.BestOnTimeStreak, &u.TotalPresentDays, &u.TotalLateDays,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (name, email, password_hash, role, department, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Department,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ApplyOnTimeCheckIn advances the streak counters in a single statement so
// concurrent check-ins cannot interleave between read and write.
func (r *userRepository) ApplyOnTimeCheckIn(ctx context.Context, userID string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET total_present_days = total_present_days + 1,
			on_time_streak = on_time_streak + 1,
			best_on_time_streak = GREATEST(best_on_time_streak, on_time_streak + 1),
			updated_at = NOW()
		WHERE id = $1
		RETURNING` + userColumns + `
	`

	u, err := scanUser(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to apply on-time check-in: %w", err)
	}
	return u, nil
}

func (r *userRepository) ApplyLateCheckIn(ctx context.Context, userID string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET total_present_days = total_present_days + 1,
			total_late_days = total_late_days + 1,
			on_time_streak = 0,
			updated_at = NOW()
		WHERE id = $1
		RETURNING` + userColumns + `
	`

	u, err := scanUser(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to apply late check-in: %w", err)
	}
	return u, nil
}

func (r *userRepository) SetMagicLink(ctx context.Context, userID, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET magic_link_token = $2, magic_link_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set magic link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetByMagicLinkToken(ctx context.Context, token string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + userColumns + ` FROM users WHERE magic_link_token = $1`

	u, err := scanUser(q.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by magic link token: %w", err)
	}
	return u, nil
}

func (r *userRepository) ClearMagicLink(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET magic_link_token = NULL, magic_link_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear magic link: %w", err)
	}
	return nil
}

func (r *userRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM users WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
