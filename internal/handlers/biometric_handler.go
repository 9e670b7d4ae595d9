package handlers

import (
	"encoding/json"
	"net/http"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/internal/services"
	"staffboard-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type BiometricHandler struct {
	Service *services.BiometricService
	LogRepo *repositories.BiometricLogRepository
}

func NewBiometricHandler(s *services.BiometricService, logRepo *repositories.BiometricLogRepository) *BiometricHandler {
	return &BiometricHandler{Service: s, LogRepo: logRepo}
}

// ListDevices handles GET /api/biometric/devices
func (h *BiometricHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.Service.Devices.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if devices == nil {
		devices = []*models.BiometricDevice{}
	}
	utils.JSON(w, http.StatusOK, devices)
}

// RegisterDevice handles POST /api/biometric/devices
func (h *BiometricHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var dev models.BiometricDevice
	if err := json.NewDecoder(r.Body).Decode(&dev); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if dev.Name == "" {
		utils.Error(w, http.StatusBadRequest, "device name is required")
		return
	}

	if err := h.Service.Devices.Register(r.Context(), &dev); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, dev)
}

// SetDeviceConnection handles PATCH /api/biometric/devices/{id}/connection
func (h *BiometricHandler) SetDeviceConnection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Connected bool `json:"connected"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Service.Devices.SetConnected(r.Context(), id, body.Connected); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	dev, err := h.Service.Devices.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, dev)
}

// StartScan handles POST /api/biometric/scan
func (h *BiometricHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	var req models.StartScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := h.Service.StartScan(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusAccepted, status)
}

// GetScan handles GET /api/biometric/scan/{device_id}
func (h *BiometricHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.GetScan(r.Context(), mux.Vars(r)["device_id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, status)
}

// CancelScan handles DELETE /api/biometric/scan/{device_id}
func (h *BiometricHandler) CancelScan(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CancelScan(r.Context(), mux.Vars(r)["device_id"]); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Scan cancelled"})
}

// ListAuditLog handles GET /api/biometric/log
func (h *BiometricHandler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	var entries []*models.BiometricLogEntry
	var err error

	if staffID := r.URL.Query().Get("staff_id"); staffID != "" {
		entries, err = h.LogRepo.ListByStaff(r.Context(), staffID)
	} else {
		entries, err = h.LogRepo.List(r.Context())
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []*models.BiometricLogEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}
