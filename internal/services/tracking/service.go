package tracking

import (
	"context"
	"log/slog"

	"github.com/hollyoak/warden/internal/dependencies/clock"
	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/storage"
)

// Service ingests presence heartbeats into the player store
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a tracking service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger,
	}
}

// Presence is one heartbeat from a game client. Nil economy fields mean
// "not reported this beat" and leave the stored values untouched.
type Presence struct {
	ID          model.PlayerID
	DisplayName string
	Sheckles    *int64
	Scrap       *int64
}

// Track validates the identity and atomically upserts the record: first
// sighting sets FirstSeenAt, every sighting bumps LastSeenAt and records
// the display name. A lapsed timed ban is resolved inside the same
// upsert, so the returned ban status is always current and callers can
// use it to decide whether to disconnect the player.
func (s *Service) Track(ctx context.Context, p Presence) (*model.PlayerRecord, error) {
	if err := model.ValidateIdentity(p.ID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec, err := s.storage.UpsertPlayer(ctx, p.ID, func(rec *model.PlayerRecord, created bool) error {
		if created {
			rec.FirstSeenAt = now
		}
		if rec.BanExpired(now) {
			rec.ClearBan()
		}
		rec.LastSeenAt = now
		rec.RecordName(p.DisplayName)
		if p.Sheckles != nil {
			rec.Sheckles = *p.Sheckles
		}
		if p.Scrap != nil {
			rec.Scrap = *p.Scrap
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("presence tracked",
		slog.String("player_id", string(p.ID)),
		slog.Bool("banned", rec.Banned),
	)
	return rec, nil
}

// Delete removes a record. Deleting an absent identity succeeds.
func (s *Service) Delete(ctx context.Context, id model.PlayerID) error {
	if err := model.ValidateIdentity(id); err != nil {
		return err
	}
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("player deleted", slog.String("player_id", string(id)))
	return nil
}
