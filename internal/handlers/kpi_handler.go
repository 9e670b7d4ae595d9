package handlers

import (
	"net/http"
	"time"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/services"
	"staffboard-backend/internal/timeutil"
	"staffboard-backend/pkg/utils"
)

type KPIHandler struct {
	Service *services.KPIService
}

func NewKPIHandler(s *services.KPIService) *KPIHandler {
	return &KPIHandler{Service: s}
}

// parseWindow reads optional from/to date query params (YYYY-MM-DD)
func parseWindow(r *http.Request) (from, to time.Time, windowed bool, err error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	if fromStr != "" {
		from, err = time.ParseInLocation(timeutil.DateLayout, fromStr, timeutil.Loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, err
		}
	}
	to = timeutil.Now().Add(24 * time.Hour)
	if toStr != "" {
		to, err = time.ParseInLocation(timeutil.DateLayout, toStr, timeutil.Loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, err
		}
		// Window end is exclusive of the day after 'to'
		to = to.Add(24 * time.Hour)
	}
	return from, to, true, nil
}

// GetLeaderboard handles GET /api/kpi/leaderboard
func (h *KPIHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	from, to, windowed, err := parseWindow(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var kpis []*models.StaffKPI
	if windowed {
		kpis, err = h.Service.LeaderboardBetween(r.Context(), from, to)
	} else {
		kpis, err = h.Service.Leaderboard(r.Context())
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if kpis == nil {
		kpis = []*models.StaffKPI{}
	}
	utils.JSON(w, http.StatusOK, kpis)
}

// GetTopPerformer handles GET /api/kpi/top-performer
func (h *KPIHandler) GetTopPerformer(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.Service.Leaderboard(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	top := h.Service.TopPerformer(kpis)
	if top == nil {
		utils.Error(w, http.StatusNotFound, "no staff performance data yet")
		return
	}
	utils.JSON(w, http.StatusOK, top)
}
