package stats

import (
	"github.com/shopspring/decimal"

	"github.com/attendly-hq/attendance-backend-go/internal/pkg/validator"
)

// SummaryFilter bounds the per-user aggregate to an inclusive date range.
// Empty dates leave that side of the range open.
type SummaryFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (f *SummaryFilter) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(f.StartDate); f.StartDate != "" && !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	if _, ok := validator.IsValidDate(f.EndDate); f.EndDate != "" && !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	TotalDays    int             `json:"total_days"`
	PresentDays  int             `json:"present_days"`
	LateDays     int             `json:"late_days"`
	AbsentDays   int             `json:"absent_days"`
	HalfDays     int             `json:"half_days"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	AverageHours decimal.Decimal `json:"average_hours"`
}

// MyStatsResponse reports the streak counters straight from the user row
// rather than recomputing them from attendance history. Average hours and
// attendance percent are derived from the records; a half-day counts 0.5
// toward the percent.
type MyStatsResponse struct {
	OnTimeStreak      int             `json:"on_time_streak"`
	BestOnTimeStreak  int             `json:"best_on_time_streak"`
	TotalPresentDays  int             `json:"total_present_days"`
	TotalLateDays     int             `json:"total_late_days"`
	AverageHours      decimal.Decimal `json:"average_hours"`
	AttendancePercent decimal.Decimal `json:"attendance_percent"`
}

// DayBucket is one point in the weekly trailing-7-day series, labelled by
// weekday name.
type DayBucket struct {
	Label string          `json:"label"`
	Date  string          `json:"date"`
	Hours decimal.Decimal `json:"hours"`
}

// MonthBucket is one point in the monthly series, labelled by month name.
type MonthBucket struct {
	Label       string          `json:"label"`
	PresentDays int             `json:"present_days"`
	LateDays    int             `json:"late_days"`
	TotalHours  decimal.Decimal `json:"total_hours"`
}

type AnalyticsResponse struct {
	Weekly  []DayBucket   `json:"weekly"`
	Monthly []MonthBucket `json:"monthly"`
}
