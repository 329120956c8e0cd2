package model

import "time"

// SnapshotID uniquely identifies a stored snapshot
type SnapshotID string

// Snapshot is an immutable point-in-time export of the player store.
// Aggregates are computed when the snapshot is taken and never re-derived.
type Snapshot struct {
	ID          SnapshotID `json:"id"`
	Label       string     `json:"label"`
	TakenAt     time.Time  `json:"takenAt"`
	TotalCount  int        `json:"totalCount"`
	BannedCount int        `json:"bannedCount"`
	CleanCount  int        `json:"cleanCount"`

	// Players is value-copied at snapshot time; later mutation of live
	// records must never alter a stored snapshot.
	Players []PlayerRecord `json:"players"`
}

// NewSnapshot builds a snapshot over a copy of the given records
func NewSnapshot(id SnapshotID, label string, takenAt time.Time, players []*PlayerRecord) *Snapshot {
	snap := &Snapshot{
		ID:      id,
		Label:   label,
		TakenAt: takenAt,
		Players: make([]PlayerRecord, 0, len(players)),
	}
	for _, p := range players {
		copied := *p
		copied.NameHistory = append([]string(nil), p.NameHistory...)
		if p.BanExpiresAt != nil {
			t := *p.BanExpiresAt
			copied.BanExpiresAt = &t
		}
		snap.Players = append(snap.Players, copied)
		if copied.Banned {
			snap.BannedCount++
		} else {
			snap.CleanCount++
		}
	}
	snap.TotalCount = len(snap.Players)
	return snap
}
