package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hollyoak/warden/internal/delivery"
	"github.com/hollyoak/warden/internal/dependencies/clock"
	"github.com/hollyoak/warden/internal/dependencies/random"
	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/services/ban"
	"github.com/hollyoak/warden/internal/storage"
)

// DefaultRetention is the number of snapshots kept when no limit is
// configured.
//
// Retention is count-based only: after every take, snapshots beyond the
// limit are pruned oldest-first. Age-based pruning is deliberately not
// mixed in.
const DefaultRetention = 30

// Service takes, restores, prunes, and delivers player store snapshots
type Service struct {
	storage   storage.Storage
	engine    *ban.Engine
	clock     clock.Clock
	random    random.Random
	channel   delivery.Channel
	retention int
	logger    *slog.Logger
}

// New creates a backup service. channel may be nil when no delivery
// target is configured.
func New(store storage.Storage, engine *ban.Engine, clk clock.Clock, rnd random.Random, channel delivery.Channel, retention int, logger *slog.Logger) *Service {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if channel == nil {
		channel = delivery.Noop{}
	}
	return &Service{
		storage:   store,
		engine:    engine,
		clock:     clk,
		random:    rnd,
		channel:   channel,
		retention: retention,
		logger:    logger,
	}
}

// Take exports the full player store as a new immutable snapshot,
// enforces retention, and hands the export to the delivery channel.
// An empty store is a no-op returning a nil snapshot, so startup races
// never pollute retention history with empty exports.
func (s *Service) Take(ctx context.Context, label string) (*model.Snapshot, error) {
	// Read through the ban engine so lazy expiry is applied before the
	// state is frozen
	players, err := s.engine.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		s.logger.Info("skipping snapshot of empty store")
		return nil, nil
	}

	takenAt := s.clock.Now()
	if label == "" {
		label = "backup-" + takenAt.UTC().Format("2006-01-02T15-04-05Z")
	}
	id := model.SnapshotID("bk_" + s.random.ID(8))

	snap := model.NewSnapshot(id, label, takenAt, players)
	if err := s.storage.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot taken",
		slog.String("snapshot_id", string(snap.ID)),
		slog.String("label", snap.Label),
		slog.Int("total", snap.TotalCount),
		slog.Int("banned", snap.BannedCount),
	)

	if err := s.prune(ctx); err != nil {
		// The snapshot itself succeeded; pruning gets another chance on
		// the next take
		s.logger.Error("retention pruning failed", slog.String("error", err.Error()))
	}

	s.deliver(ctx, snap)
	return snap, nil
}

// Get returns a stored snapshot
func (s *Service) Get(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error) {
	return s.storage.GetSnapshot(ctx, id)
}

// List returns all stored snapshots, newest first
func (s *Service) List(ctx context.Context) ([]*model.Snapshot, error) {
	return s.storage.ListSnapshots(ctx)
}

// Delete removes a snapshot. Deleting an absent snapshot succeeds.
func (s *Service) Delete(ctx context.Context, id model.SnapshotID) error {
	return s.storage.DeleteSnapshot(ctx, id)
}

// Restore writes every record of a stored snapshot back into the player
// store, overwriting by identity. It reports how many records were
// written; entries without a usable identity are skipped, not fatal.
func (s *Service) Restore(ctx context.Context, id model.SnapshotID) (int, error) {
	snap, err := s.storage.GetSnapshot(ctx, id)
	if err != nil {
		return 0, err
	}

	restored := 0
	for i := range snap.Players {
		rec := snap.Players[i]
		if model.ValidateIdentity(rec.ID) != nil {
			continue
		}
		if err := s.storage.SavePlayer(ctx, &rec); err != nil {
			return restored, err
		}
		restored++
	}

	s.logger.Info("snapshot restored",
		slog.String("snapshot_id", string(id)),
		slog.Int("restored", restored),
	)
	return restored, nil
}

// RestoreRaw restores from an externally supplied payload (e.g. an old
// export file), tolerating the legacy playerId identity field. Entries
// that normalize to no usable identity are skipped.
func (s *Service) RestoreRaw(ctx context.Context, payload []byte) (int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return 0, fmt.Errorf("decode restore payload: %w", err)
	}

	restored := 0
	for _, entry := range entries {
		rec, ok := normalizeEntry(entry)
		if !ok {
			continue
		}
		if err := s.storage.SavePlayer(ctx, rec); err != nil {
			return restored, err
		}
		restored++
	}

	s.logger.Info("raw payload restored", slog.Int("restored", restored))
	return restored, nil
}

// normalizeEntry maps a canonical or legacy-shaped record to the
// canonical PlayerRecord. Executed once at the restore boundary; nothing
// downstream ever sees the legacy shape.
func normalizeEntry(raw json.RawMessage) (*model.PlayerRecord, bool) {
	var entry struct {
		model.PlayerRecord
		LegacyID model.PlayerID `json:"playerId"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}

	rec := entry.PlayerRecord
	if rec.ID == "" {
		rec.ID = entry.LegacyID
	}
	if model.ValidateIdentity(rec.ID) != nil {
		return nil, false
	}
	return &rec, true
}

// prune deletes the oldest snapshots beyond the retention limit
func (s *Service) prune(ctx context.Context) error {
	snaps, err := s.storage.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	if len(snaps) <= s.retention {
		return nil
	}

	for _, old := range snaps[s.retention:] {
		if err := s.storage.DeleteSnapshot(ctx, old.ID); err != nil {
			return err
		}
		s.logger.Info("pruned snapshot",
			slog.String("snapshot_id", string(old.ID)),
			slog.Time("taken_at", old.TakenAt),
		)
	}
	return nil
}

// deliver hands the export to the configured channel. Delivery failure
// never fails the snapshot; the data is already durable in the store.
func (s *Service) deliver(ctx context.Context, snap *model.Snapshot) {
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.logger.Error("marshal snapshot for delivery", slog.String("error", err.Error()))
		return
	}

	message := fmt.Sprintf("Backup **%s** — %d players (%d banned, %d clean)",
		snap.Label, snap.TotalCount, snap.BannedCount, snap.CleanCount)
	filename := fmt.Sprintf("%s.json", snap.Label)

	if err := s.channel.Send(ctx, message, filename, payload); err != nil {
		s.logger.Error("snapshot delivery failed",
			slog.String("snapshot_id", string(snap.ID)),
			slog.String("error", err.Error()),
		)
	}
}
