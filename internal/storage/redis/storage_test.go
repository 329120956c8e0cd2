package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hollyoak/warden/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) seedPlayer(id model.PlayerID, lastSeen time.Time) {
	rec := &model.PlayerRecord{
		ID:          id,
		DisplayName: "Player " + string(id),
		FirstSeenAt: lastSeen,
		LastSeenAt:  lastSeen,
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, rec))
}

// Player tests

func (s *StorageSuite) TestUpsertCreatesAndIndexes() {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec, err := s.storage.UpsertPlayer(s.ctx, "player-1", func(rec *model.PlayerRecord, created bool) error {
		s.True(created)
		rec.DisplayName = "Alice"
		rec.FirstSeenAt = now
		rec.LastSeenAt = now
		return nil
	})
	s.Require().NoError(err)
	s.Equal("Alice", rec.DisplayName)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("player-1"), players[0].ID)
}

func (s *StorageSuite) TestUpsertUpdatesExisting() {
	s.seedPlayer("player-1", time.Now())

	rec, err := s.storage.UpsertPlayer(s.ctx, "player-1", func(rec *model.PlayerRecord, created bool) error {
		s.False(created)
		rec.BanCount++
		return nil
	})
	s.Require().NoError(err)
	s.Equal(1, rec.BanCount)

	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(1, stored.BanCount)
}

func (s *StorageSuite) TestUpsertMutateErrorPersistsNothing() {
	_, err := s.storage.UpsertPlayer(s.ctx, "player-1", func(rec *model.PlayerRecord, created bool) error {
		return model.ErrPlayerNotFound
	})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "ghost-id")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersOrderedByLastSeenDesc() {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.seedPlayer("oldest-1", base)
	s.seedPlayer("newest-1", base.Add(2*time.Hour))
	s.seedPlayer("middle-1", base.Add(time.Hour))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.PlayerID("newest-1"), players[0].ID)
	s.Equal(model.PlayerID("oldest-1"), players[2].ID)
}

func (s *StorageSuite) TestDeletePlayerRemovesFromIndex() {
	s.seedPlayer("player-1", time.Now())
	s.seedPlayer("player-2", time.Now())

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))
	// Deleting again succeeds
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("player-2"), players[0].ID)
}

func (s *StorageSuite) TestBanFieldsRoundTrip() {
	expiry := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	rec := &model.PlayerRecord{
		ID:           "player-1",
		Banned:       true,
		BanReason:    "cheating",
		BanExpiresAt: &expiry,
		BanCount:     3,
		NameHistory:  []string{"Old", "New"},
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, rec))

	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.True(stored.Banned)
	s.Equal("cheating", stored.BanReason)
	s.Require().NotNil(stored.BanExpiresAt)
	s.True(expiry.Equal(*stored.BanExpiresAt))
	s.Equal(3, stored.BanCount)
	s.Equal([]string{"Old", "New"}, stored.NameHistory)
}

// Snapshot tests

func (s *StorageSuite) TestSnapshotRoundTrip() {
	snap := &model.Snapshot{
		ID:          "bk_test1",
		Label:       "nightly",
		TakenAt:     time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC),
		TotalCount:  2,
		BannedCount: 1,
		CleanCount:  1,
		Players: []model.PlayerRecord{
			{ID: "player-1", Banned: true, BanReason: "cheating"},
			{ID: "player-2"},
		},
	}
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, snap))

	stored, err := s.storage.GetSnapshot(s.ctx, "bk_test1")
	s.Require().NoError(err)
	s.Equal("nightly", stored.Label)
	s.Equal(2, stored.TotalCount)
	s.Require().Len(stored.Players, 2)
	s.True(stored.Players[0].Banned)
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "bk_missing")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestListSnapshotsNewestFirst() {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []model.SnapshotID{"bk_a", "bk_b", "bk_c"} {
		snap := &model.Snapshot{ID: id, TakenAt: base.Add(time.Duration(i) * time.Hour)}
		s.Require().NoError(s.storage.SaveSnapshot(s.ctx, snap))
	}

	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snaps, 3)
	s.Equal(model.SnapshotID("bk_c"), snaps[0].ID)
}

func (s *StorageSuite) TestDeleteSnapshotIsIdempotent() {
	snap := &model.Snapshot{ID: "bk_test1", TakenAt: time.Now()}
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, snap))

	s.Require().NoError(s.storage.DeleteSnapshot(s.ctx, "bk_test1"))
	s.Require().NoError(s.storage.DeleteSnapshot(s.ctx, "bk_test1"))

	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Empty(snaps)
}
