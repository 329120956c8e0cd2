package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hollyoak/warden/internal/api/handler"
	"github.com/hollyoak/warden/internal/api/middleware"
	"github.com/hollyoak/warden/internal/services/backup"
	"github.com/hollyoak/warden/internal/services/ban"
	"github.com/hollyoak/warden/internal/services/tracking"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AdminSecret     string
	TrackingService *tracking.Service
	BanEngine       *ban.Engine
	BackupService   *backup.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	trackHandler := handler.NewTrackHandler(cfg.TrackingService, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.BanEngine, cfg.TrackingService)
	backupHandler := handler.NewBackupHandler(cfg.BackupService)

	// Create middleware
	adminAuth := middleware.AdminAuth(cfg.AdminSecret)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game-facing ingestion (no admin auth)
	api.HandleFunc("/players/track", trackHandler.Track).Methods(http.MethodPost)

	// Admin player management
	admin := api.NewRoute().Subrouter()
	admin.Use(adminAuth)
	admin.HandleFunc("/players", adminHandler.ListPlayers).Methods(http.MethodGet)
	admin.HandleFunc("/ban", adminHandler.Ban).Methods(http.MethodPost)
	admin.HandleFunc("/unban", adminHandler.Unban).Methods(http.MethodPost)
	admin.HandleFunc("/delete", adminHandler.Delete).Methods(http.MethodPost)

	// Admin backup management
	admin.HandleFunc("/backups", backupHandler.Take).Methods(http.MethodPost)
	admin.HandleFunc("/backups", backupHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/backups/restore", backupHandler.RestoreRaw).Methods(http.MethodPost)
	admin.HandleFunc("/backups/{id}", backupHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/backups/{id}/restore", backupHandler.Restore).Methods(http.MethodPost)
	admin.HandleFunc("/backups/{id}", backupHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
