package handlers

import (
	"encoding/json"
	"net/http"

	"staffboard-backend/internal/cache"
	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/pkg/utils"
)

type TransactionHandler struct {
	Repo *repositories.TransactionRepository
}

func NewTransactionHandler(repo *repositories.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{Repo: repo}
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TotalAmount < 0 {
		utils.Error(w, http.StatusBadRequest, "total amount must not be negative")
		return
	}
	for _, item := range req.LineItems {
		if item.Quantity < 0 || item.UnitPrice < 0 {
			utils.Error(w, http.StatusBadRequest, "line item quantity and price must not be negative")
			return
		}
	}

	txn := &models.TransactionRecord{
		TotalAmount:      req.TotalAmount,
		CashierStaffName: req.CashierStaffName,
		LineItems:        req.LineItems,
	}
	if req.Timestamp != nil {
		txn.Timestamp = *req.Timestamp
	}

	if err := h.Repo.Create(r.Context(), txn); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// New sales change the leaderboard
	cache.InvalidateLeaderboard(r.Context())

	utils.JSON(w, http.StatusCreated, txn)
}

// ListTransactions handles GET /api/transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txns == nil {
		txns = []*models.TransactionRecord{}
	}
	utils.JSON(w, http.StatusOK, txns)
}
