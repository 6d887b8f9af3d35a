package team

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/team"
)

type TeamServiceImpl struct {
	team.TeamRepository
	location *time.Location
	nowFn    func() time.Time
}

func NewTeamService(teamRepo team.TeamRepository, location *time.Location) *TeamServiceImpl {
	return &TeamServiceImpl{
		TeamRepository: teamRepo,
		location:       location,
		nowFn:          time.Now,
	}
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

// TeamSummary implements team.TeamService.
func (s *TeamServiceImpl) TeamSummary(ctx context.Context, filter team.RangeFilter) (*team.TeamSummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.TeamRepository.ListAllInRange(ctx,
		parseDay(filter.StartDate, s.location), parseDay(filter.EndDate, s.location))
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*team.MemberSummary)
	var order []string
	for i := range records {
		rec := &records[i]
		member, ok := byUser[rec.UserID]
		if !ok {
			member = &team.MemberSummary{UserID: rec.UserID, Department: rec.Department, TotalHours: decimal.Zero}
			if rec.UserName != nil {
				member.Name = *rec.UserName
			}
			byUser[rec.UserID] = member
			order = append(order, rec.UserID)
		}
		switch rec.Status {
		case attendance.StatusPresent:
			member.PresentDays++
		case attendance.StatusLate:
			member.LateDays++
		case attendance.StatusAbsent:
			member.AbsentDays++
		case attendance.StatusHalfDay:
			member.HalfDays++
		}
		if rec.Status != attendance.StatusAbsent {
			member.TotalHours = member.TotalHours.Add(rec.TotalHours)
		}
	}

	resp := &team.TeamSummaryResponse{Members: make([]team.MemberSummary, 0, len(order))}
	for _, id := range order {
		resp.Members = append(resp.Members, *byUser[id])
	}
	return resp, nil
}

// TodayOverview implements team.TeamService. Present counts everyone who
// showed up at all, so late and half-day rows are included in it.
func (s *TeamServiceImpl) TodayOverview(ctx context.Context, filter team.DayFilter) (*team.TodayOverviewResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	day := parseDay(filter.Date, s.location)
	if day.IsZero() {
		now := s.nowFn().In(s.location)
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	}

	records, err := s.TeamRepository.ListForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	total, err := s.TeamRepository.CountActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	resp := &team.TodayOverviewResponse{
		Date:         day.Format("2006-01-02"),
		TotalMembers: total,
	}
	for i := range records {
		switch records[i].Status {
		case attendance.StatusPresent:
			resp.Present++
		case attendance.StatusLate:
			resp.Present++
			resp.Late++
		case attendance.StatusHalfDay:
			resp.Present++
			resp.HalfDay++
		case attendance.StatusAbsent:
			resp.Absent++
		}
	}
	resp.NotCheckedIn = total - resp.Present - resp.Absent
	if resp.NotCheckedIn < 0 {
		resp.NotCheckedIn = 0
	}
	return resp, nil
}

// ExportDayCSV implements team.TeamService.
func (s *TeamServiceImpl) ExportDayCSV(ctx context.Context, filter team.DayFilter) ([]byte, string, error) {
	if err := filter.Validate(); err != nil {
		return nil, "", err
	}

	day := parseDay(filter.Date, s.location)
	if day.IsZero() {
		now := s.nowFn().In(s.location)
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	}

	records, err := s.TeamRepository.ListForDay(ctx, day)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Name", "Department", "Status", "Check In", "Check Out", "Total Hours"}); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range records {
		rec := &records[i]
		row := []string{"", "", string(rec.Status), "", "", rec.TotalHours.StringFixed(2)}
		if rec.UserName != nil {
			row[0] = *rec.UserName
		}
		if rec.Department != nil {
			row[1] = *rec.Department
		}
		if rec.CheckInTime != nil {
			row[3] = rec.CheckInTime.In(s.location).Format("15:04:05")
		}
		if rec.CheckOutTime != nil {
			row[4] = rec.CheckOutTime.In(s.location).Format("15:04:05")
		}
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("attendance-%s.csv", day.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
