package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hollyoak/warden/internal/model"
)

// ErrorResponse is the failure envelope shared by all endpoints
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInvalidIdentity        = "INVALID_IDENTITY"
	CodePlayerNotFound         = "PLAYER_NOT_FOUND"
	CodeSnapshotNotFound       = "SNAPSHOT_NOT_FOUND"
	CodeExternalSanctionFailed = "EXTERNAL_SANCTION_FAILED"
	CodeStorageUnavailable     = "STORAGE_UNAVAILABLE"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInternalError          = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an error payload
type httpError struct {
	status  int
	code    string
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Success: false, Code: he.code, Error: he.message})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidIdentity):
		return &httpError{http.StatusBadRequest, CodeInvalidIdentity, "Invalid player identity"}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, CodePlayerNotFound, "Player not found"}
	case errors.Is(err, model.ErrSnapshotNotFound):
		return &httpError{http.StatusNotFound, CodeSnapshotNotFound, "Snapshot not found"}
	case errors.Is(err, model.ErrExternalSanction):
		// Carry upstream detail so the admin can diagnose the rejection
		return &httpError{http.StatusBadGateway, CodeExternalSanctionFailed, err.Error()}
	case errors.Is(err, model.ErrStorageUnavailable):
		return &httpError{http.StatusServiceUnavailable, CodeStorageUnavailable, "Storage unavailable"}
	default:
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, CodeUnauthorized, "Admin authentication required"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
}
