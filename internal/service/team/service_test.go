package team

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/team"
)

type fakeTeamRepo struct {
	records   []attendance.Attendance
	userCount int
}

func (f *fakeTeamRepo) ListAllInRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range f.records {
		if !start.IsZero() && rec.Date.Before(start) {
			continue
		}
		if !end.IsZero() && rec.Date.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeTeamRepo) ListForDay(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.Date.Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) CountActiveUsers(ctx context.Context) (int, error) {
	return f.userCount, nil
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func teamRecord(userID, name, dept string, date time.Time, status attendance.Status, hours float64) attendance.Attendance {
	return attendance.Attendance{
		UserID:     userID,
		UserName:   strPtr(name),
		Department: strPtr(dept),
		Date:       date,
		Status:     status,
		TotalHours: decimal.NewFromFloat(hours),
	}
}

func TestTeamSummary_GroupsByUser(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeTeamRepo{records: []attendance.Attendance{
		teamRecord("u1", "Asha", "Engineering", monday, attendance.StatusPresent, 8),
		teamRecord("u1", "Asha", "Engineering", monday.AddDate(0, 0, 1), attendance.StatusLate, 7),
		teamRecord("u1", "Asha", "Engineering", monday.AddDate(0, 0, 2), attendance.StatusAbsent, 0),
		teamRecord("u2", "Ravi", "Sales", monday, attendance.StatusPresent, 9),
	}}
	svc := NewTeamService(repo, time.UTC)

	resp, err := svc.TeamSummary(context.Background(), team.RangeFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Members, 2)

	asha := resp.Members[0]
	assert.Equal(t, "Asha", asha.Name)
	assert.Equal(t, 1, asha.PresentDays)
	assert.Equal(t, 1, asha.LateDays)
	assert.Equal(t, 1, asha.AbsentDays)
	assert.True(t, asha.TotalHours.Equal(decimal.NewFromInt(15)), "got %s", asha.TotalHours)

	ravi := resp.Members[1]
	assert.Equal(t, "Ravi", ravi.Name)
	assert.Equal(t, 1, ravi.PresentDays)
	assert.True(t, ravi.TotalHours.Equal(decimal.NewFromInt(9)))
}

func TestTodayOverview_PresentIncludesLateAndHalfDay(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeTeamRepo{
		userCount: 8,
		records: []attendance.Attendance{
			teamRecord("u1", "A", "Eng", today, attendance.StatusPresent, 8),
			teamRecord("u2", "B", "Eng", today, attendance.StatusPresent, 8),
			teamRecord("u3", "C", "Eng", today, attendance.StatusLate, 7),
			teamRecord("u4", "D", "Eng", today, attendance.StatusHalfDay, 4),
			teamRecord("u5", "E", "Eng", today, attendance.StatusAbsent, 0),
		},
	}
	svc := NewTeamService(repo, time.UTC)
	svc.nowFn = func() time.Time { return today.Add(14 * time.Hour) }

	resp, err := svc.TodayOverview(context.Background(), team.DayFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, 8, resp.TotalMembers)
	assert.Equal(t, 4, resp.Present)
	assert.Equal(t, 1, resp.Late)
	assert.Equal(t, 1, resp.HalfDay)
	assert.Equal(t, 1, resp.Absent)
	assert.Equal(t, 3, resp.NotCheckedIn)
}

func TestExportDayCSV(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := today.Add(8*time.Hour + 45*time.Minute)
	checkOut := today.Add(17 * time.Hour)

	rec := teamRecord("u1", "Asha", "Engineering", today, attendance.StatusPresent, 8.25)
	rec.CheckInTime = timePtr(checkIn)
	rec.CheckOutTime = timePtr(checkOut)

	repo := &fakeTeamRepo{records: []attendance.Attendance{rec}}
	svc := NewTeamService(repo, time.UTC)

	data, filename, err := svc.ExportDayCSV(context.Background(), team.DayFilter{Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "attendance-2025-03-10.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Department,Status,Check In,Check Out,Total Hours", lines[0])
	assert.Equal(t, "Asha,Engineering,present,08:45:00,17:00:00,8.25", lines[1])
}

func TestExportDayCSV_MissingCheckOut(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := teamRecord("u1", "Asha", "Engineering", today, attendance.StatusLate, 0)
	rec.CheckInTime = timePtr(today.Add(10 * time.Hour))

	repo := &fakeTeamRepo{records: []attendance.Attendance{rec}}
	svc := NewTeamService(repo, time.UTC)

	data, _, err := svc.ExportDayCSV(context.Background(), team.DayFilter{Date: "2025-03-10"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Asha,Engineering,late,10:00:00,,0.00", lines[1])
}
