package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// Attendance is the single record for one (user, calendar day). Date is
// stored at day start in the reference timezone; the (UserID, Date) pair is
// unique at the store level and that constraint is what serializes
// concurrent same-day writes.
type Attendance struct {
	ID                string
	UserID            string
	Date              time.Time
	CheckInTime       *time.Time
	CheckOutTime      *time.Time
	Status            Status
	TotalHours        decimal.Decimal
	Breaks            []Break
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	UserName   *string
	Department *string
}

// Break is one break interval inside a day. EndTime is nil while the break
// is still open; any number of breaks may exist per day.
type Break struct {
	ID           string
	AttendanceID string
	StartTime    time.Time
	EndTime      *time.Time
}

// CheckedOut reports whether the day has been closed.
func (a *Attendance) CheckedOut() bool {
	return a.CheckOutTime != nil
}

// OpenBreak returns the earliest-started break without an end time, or nil.
func (a *Attendance) OpenBreak() *Break {
	for i := range a.Breaks {
		if a.Breaks[i].EndTime == nil {
			return &a.Breaks[i]
		}
	}
	return nil
}
