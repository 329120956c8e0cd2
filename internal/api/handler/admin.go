package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hollyoak/warden/internal/api/apierr"
	"github.com/hollyoak/warden/internal/api/request"
	"github.com/hollyoak/warden/internal/api/response"
	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/services/ban"
	"github.com/hollyoak/warden/internal/services/tracking"
)

// AdminHandler handles admin-authenticated player management endpoints
type AdminHandler struct {
	engine   *ban.Engine
	tracking *tracking.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(engine *ban.Engine, trackingService *tracking.Service) *AdminHandler {
	return &AdminHandler{
		engine:   engine,
		tracking: trackingService,
	}
}

// ListPlayers handles GET /api/players
func (h *AdminHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.engine.ListPlayers(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Ban handles POST /api/ban
func (h *AdminHandler) Ban(w http.ResponseWriter, r *http.Request) {
	var req request.BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ProductUserID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("productUserId is required"))
		return
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	if _, err := h.engine.Ban(r.Context(), model.PlayerID(req.ProductUserID), req.Reason, duration); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// Unban handles POST /api/unban
func (h *AdminHandler) Unban(w http.ResponseWriter, r *http.Request) {
	var req request.UnbanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ProductUserID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("productUserId is required"))
		return
	}

	if _, err := h.engine.Unban(r.Context(), model.PlayerID(req.ProductUserID)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// Delete handles POST /api/delete
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req request.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ProductUserID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("productUserId is required"))
		return
	}

	if err := h.tracking.Delete(r.Context(), model.PlayerID(req.ProductUserID)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}
