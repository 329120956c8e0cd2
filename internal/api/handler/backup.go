package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hollyoak/warden/internal/api/apierr"
	"github.com/hollyoak/warden/internal/api/request"
	"github.com/hollyoak/warden/internal/api/response"
	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/services/backup"
)

// maxRestorePayload bounds externally supplied restore bodies (8 MiB)
const maxRestorePayload = 8 << 20

// BackupHandler handles admin-authenticated snapshot endpoints
type BackupHandler struct {
	backup *backup.Service
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *backup.Service) *BackupHandler {
	return &BackupHandler{backup: backupService}
}

// Take handles POST /api/backups
func (h *BackupHandler) Take(w http.ResponseWriter, r *http.Request) {
	var req request.TakeBackupRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
			return
		}
	}

	snap, err := h.backup.Take(r.Context(), req.Label)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if snap == nil {
		// Empty store; nothing was persisted
		response.JSON(w, http.StatusOK, response.OK)
		return
	}

	response.JSON(w, http.StatusCreated, response.BackupResponse{Success: true, Backup: snap})
}

// List handles GET /api/backups
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.backup.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BackupsFromModel(snaps))
}

// Get handles GET /api/backups/{id}
func (h *BackupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SnapshotID(mux.Vars(r)["id"])
	snap, err := h.backup.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BackupResponse{Success: true, Backup: snap})
}

// Restore handles POST /api/backups/{id}/restore
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := model.SnapshotID(mux.Vars(r)["id"])
	restored, err := h.backup.Restore(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RestoreResponse{Success: true, Restored: restored})
}

// RestoreRaw handles POST /api/backups/restore with a raw export payload.
// Tolerates legacy-shaped entries; unusable ones are skipped.
func (h *BackupHandler) RestoreRaw(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxRestorePayload))
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("could not read request body"))
		return
	}

	restored, err := h.backup.RestoreRaw(r.Context(), payload)
	if err != nil {
		if errors.Is(err, model.ErrStorageUnavailable) {
			apierr.WriteError(w, err)
			return
		}
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid restore payload"))
		return
	}
	response.JSON(w, http.StatusOK, response.RestoreResponse{Success: true, Restored: restored})
}

// Delete handles DELETE /api/backups/{id}
func (h *BackupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.SnapshotID(mux.Vars(r)["id"])
	if err := h.backup.Delete(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.OK)
}
