package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hollyoak/warden/internal/api/apierr"
	"github.com/hollyoak/warden/internal/api/request"
	"github.com/hollyoak/warden/internal/api/response"
	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/services/tracking"
)

// TrackHandler handles the game-facing presence endpoint
type TrackHandler struct {
	tracking *tracking.Service
	logger   *slog.Logger
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(trackingService *tracking.Service, logger *slog.Logger) *TrackHandler {
	return &TrackHandler{
		tracking: trackingService,
		logger:   logger,
	}
}

// Track handles POST /api/players/track
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req request.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	rec, err := h.tracking.Track(r.Context(), tracking.Presence{
		ID:          model.PlayerID(req.ProductUserID),
		DisplayName: req.Username,
		Sheckles:    req.Sheckles,
		Scrap:       req.Scrap,
	})
	if err != nil {
		// Game clients get a generic failure; internal detail stays in
		// the server log
		if errors.Is(err, model.ErrInvalidIdentity) {
			apierr.WriteError(w, apierr.NewInvalidRequestError("invalid player id"))
			return
		}
		h.logger.Error("track failed",
			slog.String("player_id", req.ProductUserID),
			slog.String("error", err.Error()),
		)
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}

	response.JSON(w, http.StatusOK, response.TrackResponse{Success: true, IsBanned: rec.Banned})
}
