package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrInvalidIdentity = errors.New("invalid player identity")
	ErrPlayerNotFound  = errors.New("player not found")

	// Snapshot errors
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// External sanctions authority errors
	ErrExternalSanction = errors.New("external sanction call failed")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)
