package request

// TrackRequest is the presence heartbeat body. Nil economy fields mean
// the client did not report them this beat.
type TrackRequest struct {
	ProductUserID string `json:"productUserId"`
	Username      string `json:"username"`
	Sheckles      *int64 `json:"sheckles,omitempty"`
	Scrap         *int64 `json:"scrap,omitempty"`
}

// BanRequest is the request body for banning a player.
// DurationMinutes <= 0 (or absent) means permanent.
type BanRequest struct {
	ProductUserID   string `json:"productUserId"`
	Reason          string `json:"reason,omitempty"`
	DurationMinutes int64  `json:"durationMinutes,omitempty"`
}

// UnbanRequest is the request body for unbanning a player
type UnbanRequest struct {
	ProductUserID string `json:"productUserId"`
}

// DeleteRequest is the request body for deleting a player record
type DeleteRequest struct {
	ProductUserID string `json:"productUserId"`
}

// TakeBackupRequest is the request body for creating a snapshot
type TakeBackupRequest struct {
	Label string `json:"label,omitempty"`
}
