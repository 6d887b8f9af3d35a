package attendance

import "context"

type AttendanceService interface {
	CheckIn(ctx context.Context, req *CheckInRequest) (*AttendanceResponse, error)
	CheckOut(ctx context.Context, req *CheckOutRequest) (*AttendanceResponse, error)
	StartBreak(ctx context.Context) (*BreakResponse, error)
	EndBreak(ctx context.Context) (*BreakResponse, error)
	Today(ctx context.Context) (*AttendanceResponse, error)
	History(ctx context.Context, filter HistoryFilter) ([]AttendanceResponse, int, error)
	Timeline(ctx context.Context) ([]TimelineEvent, error)
}
