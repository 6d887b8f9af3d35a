package team

import "context"

type TeamService interface {
	TeamSummary(ctx context.Context, filter RangeFilter) (*TeamSummaryResponse, error)
	TodayOverview(ctx context.Context, filter DayFilter) (*TodayOverviewResponse, error)
	// ExportDayCSV writes the day's per-member report as CSV and returns
	// the suggested download filename.
	ExportDayCSV(ctx context.Context, filter DayFilter) ([]byte, string, error)
}
