package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/team"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
)

type teamRepository struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.TeamRepository {
	return &teamRepository{db: db}
}

const teamAttendanceColumns = `
	a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.status, a.total_hours,
	a.check_in_latitude, a.check_in_longitude, a.check_out_latitude, a.check_out_longitude,
	a.notes, a.created_at, a.updated_at, u.name, u.department`

func (r *teamRepository) listJoined(ctx context.Context, where string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + teamAttendanceColumns + `
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		` + where + `
		ORDER BY u.name ASC, a.date ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		err := rows.Scan(
			&a.ID, &a.UserID, &a.Date, &a.CheckInTime, &a.CheckOutTime, &a.Status, &a.TotalHours,
			&a.CheckInLatitude, &a.CheckInLongitude, &a.CheckOutLatitude, &a.CheckOutLongitude,
			&a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.UserName, &a.Department,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *teamRepository) ListAllInRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	where := "WHERE 1=1"
	var args []interface{}
	if !start.IsZero() {
		args = append(args, start)
		where += fmt.Sprintf(" AND a.date >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		where += fmt.Sprintf(" AND a.date <= $%d", len(args))
	}
	return r.listJoined(ctx, where, args...)
}

func (r *teamRepository) ListForDay(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	return r.listJoined(ctx, "WHERE a.date = $1", day)
}

func (r *teamRepository) CountActiveUsers(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}
