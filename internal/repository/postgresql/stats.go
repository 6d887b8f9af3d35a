package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/stats"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
)

type statsRepository struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) stats.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	if !start.IsZero() {
		args = append(args, start)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query := `SELECT` + attendanceColumns + ` FROM attendances ` + where + ` ORDER BY date ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances in range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}
