package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hollyoak/warden/internal/api"
	"github.com/hollyoak/warden/internal/config"
	"github.com/hollyoak/warden/internal/delivery"
	"github.com/hollyoak/warden/internal/delivery/discord"
	"github.com/hollyoak/warden/internal/dependencies/clock"
	"github.com/hollyoak/warden/internal/factory"
	"github.com/hollyoak/warden/internal/sanctions"
	redisstorage "github.com/hollyoak/warden/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	factoryCfg := factory.Config{
		Logger:            logger,
		StorageType:       cfg.StorageType,
		SnapshotRetention: cfg.SnapshotRetention,
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Optional snapshot delivery to Discord
	if cfg.DiscordEnabled() {
		channel, err := discord.New(cfg.DiscordToken, cfg.DiscordChannelID, logger)
		if err != nil {
			logger.Error("failed to create discord channel", slog.String("error", err.Error()))
			os.Exit(1)
		}
		factoryCfg.Delivery = channel
	} else {
		factoryCfg.Delivery = delivery.Noop{}
	}

	// Optional external sanctions mirroring
	if cfg.SanctionsEnabled {
		sanctionsCfg := sanctions.DefaultConfig()
		sanctionsCfg.BaseURL = cfg.SanctionsBaseURL
		sanctionsCfg.DeploymentID = cfg.SanctionsDeploymentID
		sanctionsCfg.ClientID = cfg.SanctionsClientID
		sanctionsCfg.ClientSecret = cfg.SanctionsClientSecret
		factoryCfg.Authority = sanctions.NewClient(sanctionsCfg, clock.New(), nil, logger)
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Arm the recurring snapshot schedule
	app.BackupScheduler.Start(cfg.SnapshotInterval)
	defer app.BackupScheduler.Stop()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AdminSecret:     cfg.AdminSecret,
		TrackingService: app.TrackingService,
		BanEngine:       app.BanEngine,
		BackupService:   app.BackupService,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
