package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, date, check_in_time, check_out_time, status, total_hours,
	check_in_latitude, check_in_longitude, check_out_latitude, check_out_longitude,
	notes, created_at, updated_at`

func scanAttendance(row pgx.Row) (*attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.UserID, &a.Date, &a.CheckInTime, &a.CheckOutTime, &a.Status, &a.TotalHours,
		&a.CheckInLatitude, &a.CheckInLongitude, &a.CheckOutLatitude, &a.CheckOutLongitude,
		&a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			user_id, date, check_in_time, status, total_hours,
			check_in_latitude, check_in_longitude, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	// The unique violation on (user_id, date) is passed through untranslated
	// so the service can map it to its own error.
	err := q.QueryRow(ctx, query,
		a.UserID, a.Date, a.CheckInTime, a.Status, a.TotalHours,
		a.CheckInLatitude, a.CheckInLongitude, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + attendanceColumns + ` FROM attendances WHERE user_id = $1 AND date = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	a.Breaks, err = r.ListBreaks(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + attendanceColumns + ` FROM attendances WHERE id = $1`

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	a.Breaks, err = r.ListBreaks(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in_time = $2, check_out_time = $3, status = $4, total_hours = $5,
			check_in_latitude = $6, check_in_longitude = $7,
			check_out_latitude = $8, check_out_longitude = $9,
			notes = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.CheckInTime, a.CheckOutTime, a.Status, a.TotalHours,
		a.CheckInLatitude, a.CheckInLongitude,
		a.CheckOutLatitude, a.CheckOutLongitude,
		a.Notes,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	return nil
}

func (r *attendanceRepository) AddBreak(ctx context.Context, b *attendance.Break) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_breaks (attendance_id, start_time)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := q.QueryRow(ctx, query, b.AttendanceID, b.StartTime).Scan(&b.ID); err != nil {
		return fmt.Errorf("failed to add break: %w", err)
	}
	return nil
}

// CloseEarliestOpenBreak targets the oldest open break so that with several
// breaks open at once they close in the order they were started.
func (r *attendanceRepository) CloseEarliestOpenBreak(ctx context.Context, attendanceID string, endTime time.Time) (*attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_breaks
		SET end_time = $2
		WHERE id = (
			SELECT id FROM attendance_breaks
			WHERE attendance_id = $1 AND end_time IS NULL
			ORDER BY start_time ASC
			LIMIT 1
		)
		RETURNING id, attendance_id, start_time, end_time
	`

	var b attendance.Break
	err := q.QueryRow(ctx, query, attendanceID, endTime).Scan(
		&b.ID, &b.AttendanceID, &b.StartTime, &b.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrNoActiveBreak
		}
		return nil, fmt.Errorf("failed to close break: %w", err)
	}
	return &b, nil
}

func (r *attendanceRepository) ListBreaks(ctx context.Context, attendanceID string) ([]attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, start_time, end_time
		FROM attendance_breaks
		WHERE attendance_id = $1
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	var breaks []attendance.Break
	for rows.Next() {
		var b attendance.Break
		if err := rows.Scan(&b.ID, &b.AttendanceID, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 30
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := `SELECT` + attendanceColumns + ` FROM attendances ` + where +
		fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range records {
		records[i].Breaks, err = r.ListBreaks(ctx, records[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return records, total, nil
}
