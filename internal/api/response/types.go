package response

import (
	"time"

	"github.com/hollyoak/warden/internal/model"
)

// Success is the minimal success envelope
type Success struct {
	Success bool `json:"success"`
}

// OK is the canonical success response
var OK = Success{Success: true}

// TrackResponse answers a presence heartbeat with the player's current
// ban status so the game can react immediately
type TrackResponse struct {
	Success  bool `json:"success"`
	IsBanned bool `json:"isBanned"`
}

// Player is the API view of a PlayerRecord
type Player struct {
	ProductUserID string     `json:"productUserId"`
	Username      string     `json:"username"`
	NameHistory   []string   `json:"nameHistory"`
	FirstSeenAt   time.Time  `json:"firstSeenAt"`
	LastSeenAt    time.Time  `json:"lastSeenAt"`
	IsBanned      bool       `json:"isBanned"`
	BanReason     string     `json:"banReason"`
	BanExpiresAt  *time.Time `json:"banExpiresAt"`
	BanCount      int        `json:"banCount"`
	Sheckles      int64      `json:"sheckles"`
	Scrap         int64      `json:"scrap"`
}

// PlayerFromModel converts a model.PlayerRecord to a response Player
func PlayerFromModel(p *model.PlayerRecord) Player {
	history := p.NameHistory
	if history == nil {
		history = []string{}
	}
	return Player{
		ProductUserID: string(p.ID),
		Username:      p.DisplayName,
		NameHistory:   history,
		FirstSeenAt:   p.FirstSeenAt,
		LastSeenAt:    p.LastSeenAt,
		IsBanned:      p.Banned,
		BanReason:     p.BanReason,
		BanExpiresAt:  p.BanExpiresAt,
		BanCount:      p.BanCount,
		Sheckles:      p.Sheckles,
		Scrap:         p.Scrap,
	}
}

// PlayersResponse is the admin player listing
type PlayersResponse struct {
	Success bool     `json:"success"`
	Players []Player `json:"players"`
}

// PlayersFromModel converts a record list to the listing response
func PlayersFromModel(players []*model.PlayerRecord) PlayersResponse {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return PlayersResponse{Success: true, Players: out}
}

// BackupSummary is a snapshot without its payload, for listings
type BackupSummary struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	TakenAt     time.Time `json:"takenAt"`
	TotalCount  int       `json:"totalCount"`
	BannedCount int       `json:"bannedCount"`
	CleanCount  int       `json:"cleanCount"`
}

// BackupSummaryFromModel converts model.Snapshot metadata
func BackupSummaryFromModel(s *model.Snapshot) BackupSummary {
	return BackupSummary{
		ID:          string(s.ID),
		Label:       s.Label,
		TakenAt:     s.TakenAt,
		TotalCount:  s.TotalCount,
		BannedCount: s.BannedCount,
		CleanCount:  s.CleanCount,
	}
}

// BackupsResponse is the snapshot listing
type BackupsResponse struct {
	Success bool            `json:"success"`
	Backups []BackupSummary `json:"backups"`
}

// BackupsFromModel converts a snapshot list to the listing response
func BackupsFromModel(snaps []*model.Snapshot) BackupsResponse {
	out := make([]BackupSummary, len(snaps))
	for i, s := range snaps {
		out[i] = BackupSummaryFromModel(s)
	}
	return BackupsResponse{Success: true, Backups: out}
}

// BackupResponse is a single snapshot including its payload
type BackupResponse struct {
	Success bool            `json:"success"`
	Backup  *model.Snapshot `json:"backup"`
}

// RestoreResponse reports how many records a restore wrote
type RestoreResponse struct {
	Success  bool `json:"success"`
	Restored int  `json:"restored"`
}
