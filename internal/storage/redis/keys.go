package redis

import (
	"fmt"

	"github.com/hollyoak/warden/internal/model"
)

// Key prefix for all service data
const keyPrefix = "warden"

// playerKey returns the Redis key for a PlayerRecord
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerIndexKey returns the Redis key for the SET of all player keys
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// snapshotKey returns the Redis key for a Snapshot
func snapshotKey(id model.SnapshotID) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, id)
}

// snapshotIndexKey returns the Redis key for the SET of all snapshot keys
func snapshotIndexKey() string {
	return fmt.Sprintf("%s:idx:snapshots", keyPrefix)
}
