package stats

import "context"

type StatsService interface {
	Summary(ctx context.Context, filter SummaryFilter) (*SummaryResponse, error)
	MyStats(ctx context.Context) (*MyStatsResponse, error)
	Analytics(ctx context.Context) (*AnalyticsResponse, error)
}
