package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all service configuration, loaded from environment
// variables (with an optional .env file for local development)
type Config struct {
	// HTTP server
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8080"`

	// AdminSecret is the shared secret matched against the x-admin-auth
	// header on admin endpoints
	AdminSecret string `env:"ADMIN_SECRET,required"`

	// Storage
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// Snapshots
	SnapshotInterval  time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"1h"`
	SnapshotRetention int           `env:"SNAPSHOT_RETENTION" envDefault:"30"`

	// Discord delivery (optional; both required to enable)
	DiscordToken     string `env:"DISCORD_TOKEN"`
	DiscordChannelID string `env:"DISCORD_BACKUP_CHANNEL_ID"`

	// External sanctions authority (optional)
	SanctionsEnabled      bool   `env:"SANCTIONS_ENABLED" envDefault:"false"`
	SanctionsBaseURL      string `env:"SANCTIONS_BASE_URL"`
	SanctionsClientID     string `env:"SANCTIONS_CLIENT_ID"`
	SanctionsClientSecret string `env:"SANCTIONS_CLIENT_SECRET"`
	SanctionsDeploymentID string `env:"SANCTIONS_DEPLOYMENT_ID"`
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements env tags cannot express
func (c *Config) Validate() error {
	if c.SnapshotInterval < time.Minute {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be at least 1m, got %s", c.SnapshotInterval)
	}
	if c.SnapshotRetention < 1 {
		return fmt.Errorf("SNAPSHOT_RETENTION must be at least 1, got %d", c.SnapshotRetention)
	}
	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		return fmt.Errorf("DISCORD_TOKEN and DISCORD_BACKUP_CHANNEL_ID must be set together")
	}
	if c.SanctionsEnabled {
		switch {
		case c.SanctionsBaseURL == "":
			return fmt.Errorf("SANCTIONS_BASE_URL required when SANCTIONS_ENABLED")
		case c.SanctionsClientID == "" || c.SanctionsClientSecret == "":
			return fmt.Errorf("SANCTIONS_CLIENT_ID and SANCTIONS_CLIENT_SECRET required when SANCTIONS_ENABLED")
		case c.SanctionsDeploymentID == "":
			return fmt.Errorf("SANCTIONS_DEPLOYMENT_ID required when SANCTIONS_ENABLED")
		}
	}
	return nil
}

// DiscordEnabled reports whether snapshot delivery is configured
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}
