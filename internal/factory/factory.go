package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/hollyoak/warden/internal/delivery"
	"github.com/hollyoak/warden/internal/dependencies/clock"
	"github.com/hollyoak/warden/internal/dependencies/random"
	"github.com/hollyoak/warden/internal/sanctions"
	"github.com/hollyoak/warden/internal/services/backup"
	"github.com/hollyoak/warden/internal/services/ban"
	"github.com/hollyoak/warden/internal/services/tracking"
	"github.com/hollyoak/warden/internal/storage"
	"github.com/hollyoak/warden/internal/storage/memory"
	redisstorage "github.com/hollyoak/warden/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	TrackingService *tracking.Service
	BanEngine       *ban.Engine
	BackupService   *backup.Service
	BackupScheduler *backup.Scheduler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional; no-op when nil)
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis");
	// empty defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if
	// StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Authority is the external sanctions mirror (optional)
	Authority sanctions.Authority
	// Delivery receives snapshot exports (optional)
	Delivery delivery.Channel
	// SnapshotRetention caps stored snapshots; <= 0 uses the default
	SnapshotRetention int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	engine := ban.NewEngine(store, clk, cfg.Authority, logger)
	trackingService := tracking.New(store, clk, logger)
	backupService := backup.New(store, engine, clk, rnd, cfg.Delivery, cfg.SnapshotRetention, logger)
	scheduler := backup.NewScheduler(backupService, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		TrackingService: trackingService,
		BanEngine:       engine,
		BackupService:   backupService,
		BackupScheduler: scheduler,
	}
}
