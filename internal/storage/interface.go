package storage

import (
	"context"

	"github.com/hollyoak/warden/internal/model"
)

// MutateFunc is applied to a player record inside an atomic upsert.
// created is true when no record existed for the identity; in that case rec
// is a fresh record carrying only its ID. Returning an error aborts the
// upsert without persisting anything.
type MutateFunc func(rec *model.PlayerRecord, created bool) error

// Storage defines the interface for data persistence
type Storage interface {
	// UpsertPlayer atomically loads (or initializes) the record for id,
	// applies mutate, and persists the result. Two concurrent upserts for
	// the same previously-unseen identity must produce exactly one record.
	UpsertPlayer(ctx context.Context, id model.PlayerID, mutate MutateFunc) (*model.PlayerRecord, error)

	// SavePlayer overwrites the full record for its identity
	SavePlayer(ctx context.Context, rec *model.PlayerRecord) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error)
	// ListPlayers returns all records ordered by LastSeenAt descending
	ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error)
	// DeletePlayer succeeds regardless of prior existence
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Snapshot operations
	SaveSnapshot(ctx context.Context, snap *model.Snapshot) error
	GetSnapshot(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error)
	// ListSnapshots returns all snapshots ordered by TakenAt descending
	ListSnapshots(ctx context.Context) ([]*model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id model.SnapshotID) error
}
