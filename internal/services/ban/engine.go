package ban

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hollyoak/warden/internal/dependencies/clock"
	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/sanctions"
	"github.com/hollyoak/warden/internal/storage"
)

// Engine reconciles local ban state with timed expiry and, when
// configured, an external sanctions authority.
//
// Unknown-identity policy: ban and unban targets must already exist in
// the store. A ban action never creates a ghost record; the caller gets
// ErrPlayerNotFound instead.
//
// External ordering: the authority call runs first, outside any storage
// transaction. Local state is only mutated once the authority has
// accepted the change, so a failed external call leaves the record
// exactly as it was.
type Engine struct {
	storage   storage.Storage
	clock     clock.Clock
	authority sanctions.Authority // nil disables external mirroring
	logger    *slog.Logger
}

// NewEngine creates a ban engine. authority may be nil for local-only
// deployments.
func NewEngine(store storage.Storage, clk clock.Clock, authority sanctions.Authority, logger *slog.Logger) *Engine {
	return &Engine{
		storage:   store,
		clock:     clk,
		authority: authority,
		logger:    logger,
	}
}

// Ban transitions a player to banned. A non-positive duration means
// permanent; otherwise the ban expires duration from now. BanCount
// increments unconditionally, including on a re-ban that only refreshes
// reason and expiry.
func (e *Engine) Ban(ctx context.Context, id model.PlayerID, reason string, duration time.Duration) (*model.PlayerRecord, error) {
	if err := model.ValidateIdentity(id); err != nil {
		return nil, err
	}

	// Strict policy check before touching the authority, so an unknown
	// identity never produces a remote-only sanction
	if _, err := e.storage.GetPlayer(ctx, id); err != nil {
		return nil, err
	}

	if reason == "" {
		reason = model.DefaultBanReason
	}

	now := e.clock.Now()
	var expiresAt *time.Time
	if duration > 0 {
		t := now.Add(duration)
		expiresAt = &t
	}

	if e.authority != nil {
		if err := e.authority.CreateSanction(ctx, id, reason, expiresAt); err != nil {
			return nil, err
		}
	}

	rec, err := e.storage.UpsertPlayer(ctx, id, func(rec *model.PlayerRecord, created bool) error {
		if created {
			// Deleted between the existence check and the upsert
			return model.ErrPlayerNotFound
		}
		rec.Banned = true
		rec.BanReason = reason
		rec.BanExpiresAt = expiresAt
		rec.BanCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("player banned",
		slog.String("player_id", string(id)),
		slog.String("reason", reason),
		slog.Bool("permanent", expiresAt == nil),
		slog.Int("ban_count", rec.BanCount),
	)
	return rec, nil
}

// Unban transitions a player to clean, from either banned sub-state.
// Unbanning an already-clean player is a no-op success and makes no
// external call.
func (e *Engine) Unban(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	if err := model.ValidateIdentity(id); err != nil {
		return nil, err
	}

	current, err := e.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Banned {
		return current, nil
	}

	if e.authority != nil {
		if err := e.authority.DeleteSanction(ctx, id); err != nil {
			return nil, err
		}
	}

	rec, err := e.storage.UpsertPlayer(ctx, id, func(rec *model.PlayerRecord, created bool) error {
		if created {
			return model.ErrPlayerNotFound
		}
		rec.ClearBan()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("player unbanned", slog.String("player_id", string(id)))
	return rec, nil
}

// GetPlayer reads a record with lazy expiry applied: a timed ban whose
// expiry has passed is resolved to clean (and persisted) before the
// record is returned.
func (e *Engine) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	rec, err := e.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.reconcile(ctx, rec)
}

// ListPlayers reads all records with lazy expiry applied to each
func (e *Engine) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	players, err := e.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for i, rec := range players {
		resolved, err := e.reconcile(ctx, rec)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue // deleted mid-scan
			}
			return nil, err
		}
		players[i] = resolved
	}
	return players, nil
}

// reconcile resolves a lapsed timed ban at access time. The transition is
// persisted through the same atomic upsert path all writes use.
func (e *Engine) reconcile(ctx context.Context, rec *model.PlayerRecord) (*model.PlayerRecord, error) {
	if !rec.BanExpired(e.clock.Now()) {
		return rec, nil
	}

	resolved, err := e.storage.UpsertPlayer(ctx, rec.ID, func(r *model.PlayerRecord, created bool) error {
		if created {
			return model.ErrPlayerNotFound
		}
		if r.BanExpired(e.clock.Now()) {
			r.ClearBan()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("timed ban expired", slog.String("player_id", string(rec.ID)))
	return resolved, nil
}
