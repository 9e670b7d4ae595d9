package handlers

import (
	"encoding/json"
	"net/http"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type StaffHandler struct {
	Repo *repositories.StaffRepository
}

func NewStaffHandler(repo *repositories.StaffRepository) *StaffHandler {
	return &StaffHandler{Repo: repo}
}

// CreateStaff handles POST /api/staff
func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	staff := &models.Staff{
		Name:   req.Name,
		Role:   req.Role,
		Active: true,
	}
	if err := h.Repo.Create(r.Context(), staff); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, staff)
}

// ListStaff handles GET /api/staff
func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if staff == nil {
		staff = []*models.Staff{}
	}
	utils.JSON(w, http.StatusOK, staff)
}

// GetStaff handles GET /api/staff/{id}
func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, staff)
}

// ToggleActiveStatus handles PATCH /api/staff/{id}/toggle-active
func (h *StaffHandler) ToggleActiveStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	staff, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	if err := h.Repo.SetActive(r.Context(), id, !staff.Active); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	staff.Active = !staff.Active
	utils.JSON(w, http.StatusOK, staff)
}
