package model

import (
	"slices"
	"time"
)

// PlayerID uniquely identifies a player across sessions
type PlayerID string

const (
	// MinIdentityLength is the shortest identity the service will accept
	MinIdentityLength = 5
	// SentinelUndefined is the literal string some clients send when they
	// have no identity; it must never become a record key
	SentinelUndefined = "undefined"
)

// DefaultBanReason is recorded when a ban is issued without a reason
const DefaultBanReason = "No reason provided"

// PlayerRecord is the canonical per-player state tracked by the service
type PlayerRecord struct {
	ID          PlayerID  `json:"productUserId"`
	DisplayName string    `json:"username"`
	NameHistory []string  `json:"nameHistory,omitempty"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`

	Banned       bool       `json:"banned"`
	BanReason    string     `json:"banReason"`
	BanExpiresAt *time.Time `json:"banExpiresAt,omitempty"`
	BanCount     int        `json:"banCount"`

	Sheckles int64 `json:"sheckles"`
	Scrap    int64 `json:"scrap"`
}

// ValidateIdentity rejects identities that must never reach storage
func ValidateIdentity(id PlayerID) error {
	if len(id) < MinIdentityLength || string(id) == SentinelUndefined {
		return ErrInvalidIdentity
	}
	return nil
}

// RecordName appends a display name to the history if it is new
func (p *PlayerRecord) RecordName(name string) {
	if name == "" {
		return
	}
	p.DisplayName = name
	if !slices.Contains(p.NameHistory, name) {
		p.NameHistory = append(p.NameHistory, name)
	}
}

// BanExpired reports whether a timed ban has lapsed as of now.
// Permanent bans (nil expiry) never expire.
func (p *PlayerRecord) BanExpired(now time.Time) bool {
	return p.Banned && p.BanExpiresAt != nil && !now.Before(*p.BanExpiresAt)
}

// ClearBan resets the record to the clean state. BanCount is preserved.
func (p *PlayerRecord) ClearBan() {
	p.Banned = false
	p.BanReason = ""
	p.BanExpiresAt = nil
}
