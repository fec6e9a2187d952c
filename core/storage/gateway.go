package storage

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the underlying medium cannot be reached.
// Callers surface it as-is; no automatic retry happens at this layer.
var ErrUnavailable = errors.New("storage unavailable")

// Gateway persists one opaque serialized collection per (entity, owner) key.
// Load returns (nil, nil) when the key has never been written; absence is a
// valid empty state, not an error.
type Gateway interface {
	Save(ctx context.Context, entity, ownerID string, data []byte) error
	Load(ctx context.Context, entity, ownerID string) ([]byte, error)
	Remove(ctx context.Context, entity, ownerID string) error
}

// Key builds the storage key for an entity collection scoped to an owner.
// The key scheme partitions data by owner, so cross-owner interference is
// structurally impossible.
func Key(entity, ownerID string) string {
	return entity + "_" + ownerID
}
