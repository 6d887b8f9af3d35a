package attendance

import "errors"

var (
	ErrLocationRequired    = errors.New("latitude and longitude are required")
	ErrOutsideOfficeRadius = errors.New("you are outside the office radius")
	ErrAlreadyCheckedIn    = errors.New("already checked in today")
	ErrAlreadyCheckedOut   = errors.New("already checked out today")
	ErrNotCheckedIn        = errors.New("no check-in found for today")
	ErrNoActiveBreak       = errors.New("no active break to end")
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrInvalidDateRange    = errors.New("invalid date range")
)
