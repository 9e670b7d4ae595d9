package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/internal/services"
	"staffboard-backend/internal/timeutil"
	"staffboard-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type AttendanceHandler struct {
	Service *services.AttendanceService
}

func NewAttendanceHandler(s *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{Service: s}
}

func attendanceStatusCode(err error) int {
	switch {
	case errors.Is(err, repositories.ErrAlreadyMarked):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrRecordNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// MarkAttendance handles POST /api/attendance
func (h *AttendanceHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req models.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Service.MarkAttendance(r.Context(), &req)
	if err != nil {
		utils.Error(w, attendanceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, rec)
}

// QuickMark handles POST /api/attendance/quick
func (h *AttendanceHandler) QuickMark(w http.ResponseWriter, r *http.Request) {
	var req models.QuickMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Service.QuickMark(r.Context(), req.StaffID, models.ParseStatus(req.Status))
	if err != nil {
		utils.Error(w, attendanceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, rec)
}

// EditRecord handles PUT /api/attendance/{id}
func (h *AttendanceHandler) EditRecord(w http.ResponseWriter, r *http.Request) {
	var patch models.EditAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Service.EditRecord(r.Context(), mux.Vars(r)["id"], &patch)
	if err != nil {
		utils.Error(w, attendanceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// ListByDate handles GET /api/attendance?date=YYYY-MM-DD (defaults to today)
func (h *AttendanceHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = timeutil.DateKey(timeutil.Now())
	}

	records, err := h.Service.ListByDate(r.Context(), date)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*models.AttendanceRecord{}
	}
	utils.JSON(w, http.StatusOK, records)
}

// ListByStaff handles GET /api/attendance/staff/{staff_id}
func (h *AttendanceHandler) ListByStaff(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListByStaff(r.Context(), mux.Vars(r)["staff_id"])
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*models.AttendanceRecord{}
	}
	utils.JSON(w, http.StatusOK, records)
}
