package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/stats"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/user"
)

type StatsServiceImpl struct {
	stats.StatsRepository
	user.UserRepository
	location *time.Location
	nowFn    func() time.Time
}

func NewStatsService(statsRepo stats.StatsRepository, userRepo user.UserRepository, location *time.Location) *StatsServiceImpl {
	return &StatsServiceImpl{
		StatsRepository: statsRepo,
		UserRepository:  userRepo,
		location:        location,
		nowFn:           time.Now,
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

func parseDay(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Summary implements stats.StatsService.
func (s *StatsServiceImpl) Summary(ctx context.Context, filter stats.SummaryFilter) (*stats.SummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.StatsRepository.ListInRange(ctx, userID,
		parseDay(filter.StartDate, s.location), parseDay(filter.EndDate, s.location))
	if err != nil {
		return nil, err
	}

	resp := &stats.SummaryResponse{TotalHours: decimal.Zero, AverageHours: decimal.Zero}
	workedDays := 0
	for i := range records {
		rec := &records[i]
		resp.TotalDays++
		switch rec.Status {
		case attendance.StatusPresent:
			resp.PresentDays++
		case attendance.StatusLate:
			resp.LateDays++
		case attendance.StatusAbsent:
			resp.AbsentDays++
		case attendance.StatusHalfDay:
			resp.HalfDays++
		}
		if rec.Status != attendance.StatusAbsent {
			resp.TotalHours = resp.TotalHours.Add(rec.TotalHours)
			workedDays++
		}
	}
	if workedDays > 0 {
		resp.AverageHours = resp.TotalHours.Div(decimal.NewFromInt(int64(workedDays))).Round(2)
	}
	return resp, nil
}

// MyStats implements stats.StatsService. Streak counters come from the user
// row as maintained at check-in; they are not recomputed from history.
func (s *StatsServiceImpl) MyStats(ctx context.Context) (*stats.MyStatsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.StatsRepository.ListInRange(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	resp := &stats.MyStatsResponse{
		OnTimeStreak:      u.OnTimeStreak,
		BestOnTimeStreak:  u.BestOnTimeStreak,
		TotalPresentDays:  u.TotalPresentDays,
		TotalLateDays:     u.TotalLateDays,
		AverageHours:      decimal.Zero,
		AttendancePercent: decimal.Zero,
	}

	totalHours := decimal.Zero
	workedDays := 0
	attended := decimal.Zero
	for i := range records {
		rec := &records[i]
		switch rec.Status {
		case attendance.StatusAbsent:
		case attendance.StatusHalfDay:
			// A half-day counts half toward the attendance rate.
			attended = attended.Add(decimal.NewFromFloat(0.5))
			totalHours = totalHours.Add(rec.TotalHours)
			workedDays++
		default:
			attended = attended.Add(decimal.NewFromInt(1))
			totalHours = totalHours.Add(rec.TotalHours)
			workedDays++
		}
	}
	if workedDays > 0 {
		resp.AverageHours = totalHours.Div(decimal.NewFromInt(int64(workedDays))).Round(2)
	}
	if len(records) > 0 {
		resp.AttendancePercent = attended.
			Div(decimal.NewFromInt(int64(len(records)))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return resp, nil
}

// Analytics implements stats.StatsService. Both series are chart-ready:
// the weekly one covers the trailing seven days keyed by weekday name, the
// monthly one groups the current year's records by month name.
func (s *StatsServiceImpl) Analytics(ctx context.Context) (*stats.AnalyticsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	weekStart := today.AddDate(0, 0, -6)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.location)

	from := yearStart
	if weekStart.Before(from) {
		from = weekStart
	}
	records, err := s.StatsRepository.ListInRange(ctx, userID, from, today)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*attendance.Attendance, len(records))
	for i := range records {
		byDay[records[i].Date.Format("2006-01-02")] = &records[i]
	}

	resp := &stats.AnalyticsResponse{
		Weekly:  make([]stats.DayBucket, 0, 7),
		Monthly: make([]stats.MonthBucket, 0, 12),
	}

	for d := weekStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		bucket := stats.DayBucket{Label: d.Weekday().String(), Date: key, Hours: decimal.Zero}
		if rec, ok := byDay[key]; ok {
			bucket.Hours = rec.TotalHours
		}
		resp.Weekly = append(resp.Weekly, bucket)
	}

	monthly := make(map[time.Month]*stats.MonthBucket)
	for i := range records {
		rec := &records[i]
		if rec.Date.Before(yearStart) {
			continue
		}
		m := rec.Date.Month()
		bucket, ok := monthly[m]
		if !ok {
			bucket = &stats.MonthBucket{Label: m.String(), TotalHours: decimal.Zero}
			monthly[m] = bucket
		}
		switch rec.Status {
		case attendance.StatusPresent:
			bucket.PresentDays++
		case attendance.StatusLate:
			bucket.LateDays++
		}
		if rec.Status != attendance.StatusAbsent {
			bucket.TotalHours = bucket.TotalHours.Add(rec.TotalHours)
		}
	}
	for m := time.January; m <= now.Month(); m++ {
		if bucket, ok := monthly[m]; ok {
			resp.Monthly = append(resp.Monthly, *bucket)
		} else {
			resp.Monthly = append(resp.Monthly, stats.MonthBucket{Label: m.String(), TotalHours: decimal.Zero})
		}
	}
	return resp, nil
}
