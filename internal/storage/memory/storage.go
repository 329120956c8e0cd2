package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// A single mutex serializes all mutations, which gives UpsertPlayer its
// per-key atomicity for free.
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.PlayerRecord
	snapshots map[model.SnapshotID]*model.Snapshot
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]*model.PlayerRecord),
		snapshots: make(map[model.SnapshotID]*model.Snapshot),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) UpsertPlayer(ctx context.Context, id model.PlayerID, mutate storage.MutateFunc) (*model.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.players[id]
	var rec model.PlayerRecord
	if ok {
		rec = clonePlayer(existing)
	} else {
		rec = model.PlayerRecord{ID: id}
	}

	if err := mutate(&rec, !ok); err != nil {
		return nil, err
	}

	s.players[id] = &rec
	out := clonePlayer(&rec)
	return &out, nil
}

func (s *Storage) SavePlayer(ctx context.Context, rec *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := clonePlayer(rec)
	s.players[rec.ID] = &copied
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	out := clonePlayer(rec)
	return &out, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*model.PlayerRecord, 0, len(s.players))
	for _, rec := range s.players {
		out := clonePlayer(rec)
		players = append(players, &out)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].LastSeenAt.After(players[j].LastSeenAt)
	})
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Snapshot operations

func (s *Storage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *snap
	copied.Players = append([]model.PlayerRecord(nil), snap.Players...)
	s.snapshots[snap.ID] = &copied
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	copied := *snap
	copied.Players = append([]model.PlayerRecord(nil), snap.Players...)
	return &copied, nil
}

func (s *Storage) ListSnapshots(ctx context.Context) ([]*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := make([]*model.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		copied := *snap
		copied.Players = append([]model.PlayerRecord(nil), snap.Players...)
		snaps = append(snaps, &copied)
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].TakenAt.After(snaps[j].TakenAt)
	})
	return snaps, nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, id model.SnapshotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	return nil
}

// clonePlayer copies a record so callers never share slices or pointers
// with the stored value
func clonePlayer(rec *model.PlayerRecord) model.PlayerRecord {
	copied := *rec
	copied.NameHistory = append([]string(nil), rec.NameHistory...)
	if rec.BanExpiresAt != nil {
		t := *rec.BanExpiresAt
		copied.BanExpiresAt = &t
	}
	return copied
}
