package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/attendly-hq/attendance-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Latitude == nil || r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude are required",
		})
	} else {
		if !validator.IsValidLatitude(*r.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(*r.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(f.StartDate); f.StartDate != "" && !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(f.EndDate); f.EndDate != "" && !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		return ErrInvalidDateRange
	}
	return nil
}

type BreakResponse struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type AttendanceResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Date         string          `json:"date"`
	CheckInTime  *time.Time      `json:"check_in_time"`
	CheckOutTime *time.Time      `json:"check_out_time"`
	Status       Status          `json:"status"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	Breaks       []BreakResponse `json:"breaks"`
	Notes        *string         `json:"notes,omitempty"`
}

// TimelineEvent is one point in the flattened activity feed: a check-in,
// break boundary, or check-out.
type TimelineEvent struct {
	Type string    `json:"type"`
	Date string    `json:"date"`
	Time time.Time `json:"time"`
}

const (
	EventCheckIn    = "check_in"
	EventCheckOut   = "check_out"
	EventBreakStart = "break_start"
	EventBreakEnd   = "break_end"
)

func ToAttendanceResponse(a *Attendance) AttendanceResponse {
	breaks := make([]BreakResponse, 0, len(a.Breaks))
	for _, b := range a.Breaks {
		breaks = append(breaks, BreakResponse{
			ID:        b.ID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}
	return AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         a.Date.Format("2006-01-02"),
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		Status:       a.Status,
		TotalHours:   a.TotalHours,
		Breaks:       breaks,
		Notes:        a.Notes,
	}
}
