package handler

import (
	"net/http"

	"github.com/mcoot/warfront/internal/api/middleware"
	"github.com/mcoot/warfront/internal/api/request"
	"github.com/mcoot/warfront/internal/api/response"
	"github.com/mcoot/warfront/internal/services/gold"
)

// DevHandler handles developer currency endpoints
type DevHandler struct {
	goldService *gold.Service
}

// NewDevHandler creates a new developer handler
func NewDevHandler(goldService *gold.Service) *DevHandler {
	return &DevHandler{goldService: goldService}
}

// SetGold handles POST /api/v1/dev/set-gold
func (h *DevHandler) SetGold(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	var req request.SetGoldRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Amount == nil {
		WriteError(w, NewInvalidRequestError("amount is required"))
		return
	}

	bal, err := h.goldService.SetGold(r.Context(), username, req.Target, *req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Balance{Username: bal.Username, Gold: bal.Gold})
}

// SendGold handles POST /api/v1/dev/send-gold
func (h *DevHandler) SendGold(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	var req request.SendGoldRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Amount == nil {
		WriteError(w, NewInvalidRequestError("amount is required"))
		return
	}

	bal, err := h.goldService.SendGold(r.Context(), username, req.To, *req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Balance{Username: bal.Username, Gold: bal.Gold})
}

// Ledger handles GET /api/v1/dev/ledger
func (h *DevHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	records, err := h.goldService.Transactions(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TransactionsFromModel(records))
}
