package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/user"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/geo"
	"github.com/attendly-hq/attendance-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	user.UserRepository
	office     geo.Geofence
	lateCutoff string // "15:04"
	location   *time.Location
	nowFn      func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	office geo.Geofence,
	lateCutoff string,
	location *time.Location,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		office:               office,
		lateCutoff:           lateCutoff,
		location:             location,
		nowFn:                time.Now,
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// dayStart truncates a local timestamp to midnight, the day key for the
// unique (user_id, date) constraint.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isLate compares the local check-in instant against the HH:MM cutoff.
// Arriving exactly at the cutoff still counts as on time.
func (s *AttendanceServiceImpl) isLate(now time.Time) bool {
	cutoff, err := time.Parse("15:04", s.lateCutoff)
	if err != nil {
		return false
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	cutoffMinutes := cutoff.Hour()*60 + cutoff.Minute()
	if nowMinutes != cutoffMinutes {
		return nowMinutes > cutoffMinutes
	}
	return now.Second() > 0 || now.Nanosecond() > 0
}

// withTx runs fn in a transaction when a pool is configured. Tests exercise
// the service with in-memory repositories and no pool.
func (s *AttendanceServiceImpl) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req *attendance.CheckInRequest) (*attendance.AttendanceResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, attendance.ErrLocationRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.office.WithinBounds(req.Latitude, req.Longitude) {
		return nil, attendance.ErrOutsideOfficeRadius
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().In(s.location)
	record := &attendance.Attendance{
		UserID:           userID,
		Date:             dayStart(now),
		CheckInTime:      &now,
		Status:           attendance.StatusPresent,
		TotalHours:       decimal.Zero,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		Notes:            req.Notes,
	}
	late := s.isLate(now)
	if late {
		record.Status = attendance.StatusLate
	}

	// The insert and the streak update commit together. A duplicate
	// check-in loses on the (user_id, date) unique index and never touches
	// the streak counters.
	err = s.withTx(ctx, func(txCtx context.Context) error {
		if err := s.AttendanceRepository.Create(txCtx, record); err != nil {
			if isUniqueViolation(err) {
				return attendance.ErrAlreadyCheckedIn
			}
			return fmt.Errorf("failed to create attendance: %w", err)
		}

		if late {
			_, err = s.UserRepository.ApplyLateCheckIn(txCtx, userID)
		} else {
			_, err = s.UserRepository.ApplyOnTimeCheckIn(txCtx, userID)
		}
		if err != nil {
			return fmt.Errorf("failed to update streak counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := attendance.ToAttendanceResponse(record)
	return &resp, nil
}

// CheckOut implements attendance.AttendanceService. Total hours is the raw
// span between check-in and check-out rounded to two decimals; breaks are
// recorded but not subtracted.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req *attendance.CheckOutRequest) (*attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().In(s.location)
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, dayStart(now))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, attendance.ErrNotCheckedIn
		}
		return nil, err
	}
	if record.CheckInTime == nil {
		return nil, attendance.ErrNotCheckedIn
	}
	if record.CheckedOut() {
		return nil, attendance.ErrAlreadyCheckedOut
	}

	record.CheckOutTime = &now
	record.CheckOutLatitude = req.Latitude
	record.CheckOutLongitude = req.Longitude
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	record.TotalHours = workedHours(*record.CheckInTime, now)

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return nil, err
	}

	resp := attendance.ToAttendanceResponse(record)
	return &resp, nil
}

// workedHours rounds the span to two decimals and clamps negatives, which
// can appear around DST shifts or clock corrections, to zero.
func workedHours(checkIn, checkOut time.Time) decimal.Decimal {
	hours := decimal.NewFromFloat(checkOut.Sub(checkIn).Hours()).Round(2)
	if hours.IsNegative() {
		return decimal.Zero
	}
	return hours
}

// StartBreak implements attendance.AttendanceService. Breaks are appended
// unconditionally; starting another while one is open is allowed, and
// EndBreak closes the earliest open one first.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context) (*attendance.BreakResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().In(s.location)
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, dayStart(now))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, attendance.ErrNotCheckedIn
		}
		return nil, err
	}
	if record.CheckInTime == nil {
		return nil, attendance.ErrNotCheckedIn
	}
	if record.CheckedOut() {
		return nil, attendance.ErrAlreadyCheckedOut
	}

	b := &attendance.Break{
		AttendanceID: record.ID,
		StartTime:    now,
	}
	if err := s.AttendanceRepository.AddBreak(ctx, b); err != nil {
		return nil, err
	}

	return &attendance.BreakResponse{ID: b.ID, StartTime: b.StartTime, EndTime: b.EndTime}, nil
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context) (*attendance.BreakResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().In(s.location)
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, dayStart(now))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, attendance.ErrNotCheckedIn
		}
		return nil, err
	}
	if record.CheckInTime == nil {
		return nil, attendance.ErrNotCheckedIn
	}

	b, err := s.AttendanceRepository.CloseEarliestOpenBreak(ctx, record.ID, now)
	if err != nil {
		return nil, err
	}

	return &attendance.BreakResponse{ID: b.ID, StartTime: b.StartTime, EndTime: b.EndTime}, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context) (*attendance.AttendanceResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().In(s.location)
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, dayStart(now))
	if err != nil {
		return nil, err
	}

	resp := attendance.ToAttendanceResponse(record)
	return &resp, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	records, total, err := s.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for i := range records {
		responses = append(responses, attendance.ToAttendanceResponse(&records[i]))
	}
	return responses, total, nil
}

// Timeline implements attendance.AttendanceService. The last 30 days are
// flattened into individual events, newest first.
func (s *AttendanceServiceImpl) Timeline(ctx context.Context) ([]attendance.TimelineEvent, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, _, err := s.AttendanceRepository.ListByUser(ctx, userID, attendance.HistoryFilter{Page: 1, Limit: 30})
	if err != nil {
		return nil, err
	}

	var events []attendance.TimelineEvent
	for i := range records {
		rec := &records[i]
		day := rec.Date.Format("2006-01-02")
		if rec.CheckInTime != nil {
			events = append(events, attendance.TimelineEvent{Type: attendance.EventCheckIn, Date: day, Time: *rec.CheckInTime})
		}
		for _, b := range rec.Breaks {
			events = append(events, attendance.TimelineEvent{Type: attendance.EventBreakStart, Date: day, Time: b.StartTime})
			if b.EndTime != nil {
				events = append(events, attendance.TimelineEvent{Type: attendance.EventBreakEnd, Date: day, Time: *b.EndTime})
			}
		}
		if rec.CheckOutTime != nil {
			events = append(events, attendance.TimelineEvent{Type: attendance.EventCheckOut, Date: day, Time: *rec.CheckOutTime})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Time.After(events[j].Time)
	})
	return events, nil
}
