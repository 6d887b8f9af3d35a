package http

import (
	"fmt"
	"net/http"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/team"
	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/response"
)

type TeamHandler interface {
	TeamSummary(w http.ResponseWriter, r *http.Request)
	TodayOverview(w http.ResponseWriter, r *http.Request)
	ExportDayCSV(w http.ResponseWriter, r *http.Request)
}

type teamHandlerImpl struct {
	teamService team.TeamService
}

func NewTeamHandler(teamService team.TeamService) TeamHandler {
	return &teamHandlerImpl{teamService: teamService}
}

// TeamSummary implements TeamHandler.
func (h *teamHandlerImpl) TeamSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := team.RangeFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	summary, err := h.teamService.TeamSummary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

// TodayOverview implements TeamHandler.
func (h *teamHandlerImpl) TodayOverview(w http.ResponseWriter, r *http.Request) {
	filter := team.DayFilter{Date: r.URL.Query().Get("date")}

	overview, err := h.teamService.TodayOverview(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, overview)
}

// ExportDayCSV implements TeamHandler.
func (h *teamHandlerImpl) ExportDayCSV(w http.ResponseWriter, r *http.Request) {
	filter := team.DayFilter{Date: r.URL.Query().Get("date")}

	data, filename, err := h.teamService.ExportDayCSV(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
