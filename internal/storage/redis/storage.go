package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, unavailable(err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

// UpsertPlayer runs an optimistic WATCH transaction on the player key so
// that a concurrent write to the same identity aborts and retries rather
// than clobbering. Mutate errors abort the transaction and pass through
// to the caller untouched.
func (s *Storage) UpsertPlayer(ctx context.Context, id model.PlayerID, mutate storage.MutateFunc) (*model.PlayerRecord, error) {
	key := playerKey(id)
	var result *model.PlayerRecord

	txn := func(tx *redis.Tx) error {
		var rec model.PlayerRecord
		created := false

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			created = true
			rec = model.PlayerRecord{ID: id}
		case err != nil:
			return unavailable(err)
		default:
			if err := json.Unmarshal(data, &rec); err != nil {
				return err
			}
		}

		if err := mutate(&rec, created); err != nil {
			return err
		}

		out, err := json.Marshal(&rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			pipe.SAdd(ctx, playerIndexKey(), string(id))
			return nil
		})
		if err != nil {
			return err
		}

		result = &rec
		return nil
	}

	retries := s.cfg.UpsertRetries
	if retries <= 0 {
		retries = DefaultConfig().UpsertRetries
	}
	for attempt := 0; attempt < retries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, unavailable(fmt.Errorf("upsert contention on player %s", id))
}

func (s *Storage) SavePlayer(ctx context.Context, rec *model.PlayerRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Pipeline keeps the record and the index in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(rec.ID), data, 0)
	pipe.SAdd(ctx, playerIndexKey(), string(rec.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, unavailable(err)
	}

	var rec model.PlayerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	ids, err := s.client.SMembers(ctx, playerIndexKey()).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(ids) == 0 {
		return []*model.PlayerRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	players := make([]*model.PlayerRecord, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // index can lag a delete
		}
		var rec model.PlayerRecord
		if err := json.Unmarshal([]byte(val.(string)), &rec); err != nil {
			continue // skip invalid data
		}
		players = append(players, &rec)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].LastSeenAt.After(players[j].LastSeenAt)
	})
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playerIndexKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

// Snapshot operations

func (s *Storage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, snapshotKey(snap.ID), data, 0)
	pipe.SAdd(ctx, snapshotIndexKey(), string(snap.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, unavailable(err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Storage) ListSnapshots(ctx context.Context) ([]*model.Snapshot, error) {
	ids, err := s.client.SMembers(ctx, snapshotIndexKey()).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(ids) == 0 {
		return []*model.Snapshot{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = snapshotKey(model.SnapshotID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	snaps := make([]*model.Snapshot, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var snap model.Snapshot
		if err := json.Unmarshal([]byte(val.(string)), &snap); err != nil {
			continue
		}
		snaps = append(snaps, &snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].TakenAt.After(snaps[j].TakenAt)
	})
	return snaps, nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, id model.SnapshotID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, snapshotKey(id))
	pipe.SRem(ctx, snapshotIndexKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

// unavailable tags transport-level failures so callers can distinguish
// them from domain errors
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
}
