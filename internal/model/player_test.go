package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentity(t *testing.T) {
	for name, tc := range map[string]struct {
		id PlayerID
		ok bool
	}{
		"normal identity":        {"abc123", true},
		"minimum length":         {"abcde", true},
		"hex product user id":    {"000102030405060708090a0b0c0d0e0f", true},
		"empty":                  {"", false},
		"below minimum length":   {"abcd", false},
		"undefined sentinel":     {"undefined", false},
		"undefined with casing":  {"Undefined", true}, // only the exact literal is a sentinel
		"undefined as substring": {"undefined2", true},
	} {
		t.Run(name, func(t *testing.T) {
			err := ValidateIdentity(tc.id)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidIdentity)
			}
		})
	}
}

func TestRecordName(t *testing.T) {
	var p PlayerRecord

	p.RecordName("Holly")
	p.RecordName("Holly")
	p.RecordName("Oak")
	p.RecordName("")
	p.RecordName("Holly")

	assert.Equal(t, "Holly", p.DisplayName)
	assert.Equal(t, []string{"Holly", "Oak"}, p.NameHistory)
}

func TestBanExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	for name, tc := range map[string]struct {
		rec     PlayerRecord
		expired bool
	}{
		"clean record":           {PlayerRecord{}, false},
		"permanent ban":          {PlayerRecord{Banned: true}, false},
		"timed ban still active": {PlayerRecord{Banned: true, BanExpiresAt: &future}, false},
		"timed ban lapsed":       {PlayerRecord{Banned: true, BanExpiresAt: &past}, true},
		"expiry exactly now":     {PlayerRecord{Banned: true, BanExpiresAt: &now}, true},
		"stale expiry on clean record": {PlayerRecord{BanExpiresAt: &past}, false},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expired, tc.rec.BanExpired(now))
		})
	}
}

func TestClearBanPreservesCount(t *testing.T) {
	expires := time.Now()
	p := PlayerRecord{
		Banned:       true,
		BanReason:    "cheating",
		BanExpiresAt: &expires,
		BanCount:     3,
	}

	p.ClearBan()

	assert.False(t, p.Banned)
	assert.Empty(t, p.BanReason)
	assert.Nil(t, p.BanExpiresAt)
	assert.Equal(t, 3, p.BanCount)
}
