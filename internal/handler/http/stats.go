package http

import (
	"net/http"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/stats"
	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/response"
)

type StatsHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	MyStats(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
}

type statsHandlerImpl struct {
	statsService stats.StatsService
}

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &statsHandlerImpl{statsService: statsService}
}

// Summary implements StatsHandler.
func (h *statsHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := stats.SummaryFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	summary, err := h.statsService.Summary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

// MyStats implements StatsHandler.
func (h *statsHandlerImpl) MyStats(w http.ResponseWriter, r *http.Request) {
	myStats, err := h.statsService.MyStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, myStats)
}

// Analytics implements StatsHandler.
func (h *statsHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.statsService.Analytics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, analytics)
}
