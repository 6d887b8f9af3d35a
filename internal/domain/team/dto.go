package team

import (
	"github.com/shopspring/decimal"

	"github.com/attendly-hq/attendance-backend-go/internal/pkg/validator"
)

type RangeFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (f *RangeFilter) Validate() error {
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

type DayFilter struct {
	Date string `json:"date"`
}

func (f *DayFilter) Validate() error {
	if _, ok := validator.IsValidDate(f.Date); f.Date != "" && !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return nil
}

// MemberSummary is one row of the team summary, aggregated per user over
// the requested range.
type MemberSummary struct {
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Department  *string         `json:"department"`
	PresentDays int             `json:"present_days"`
	LateDays    int             `json:"late_days"`
	AbsentDays  int             `json:"absent_days"`
	HalfDays    int             `json:"half_days"`
	TotalHours  decimal.Decimal `json:"total_hours"`
}

type TeamSummaryResponse struct {
	Members []MemberSummary `json:"members"`
}

// TodayOverviewResponse counts the team's state for a single day. Present
// counts every row whose status marks the user as physically in, which
// includes late and half-day arrivals.
type TodayOverviewResponse struct {
	Date         string `json:"date"`
	TotalMembers int    `json:"total_members"`
	Present      int    `json:"present"`
	Late         int    `json:"late"`
	HalfDay      int    `json:"half_day"`
	Absent       int    `json:"absent"`
	NotCheckedIn int    `json:"not_checked_in"`
}
