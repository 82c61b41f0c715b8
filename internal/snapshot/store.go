// Package snapshot exports and imports whole collections as JSON blobs.
// Each collection travels as one blob under a fixed key, so a snapshot
// can be copied around, inspected, or restored as a unit.
package snapshot

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when a snapshot key has never been written.
var ErrBlobNotFound = errors.New("snapshot blob not found")

// Store is a blob store keyed by collection name. Implementations
// replace the whole value on every Put.
type Store interface {
	// Put writes the blob for the key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the blob for the key.
	// Returns ErrBlobNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
}
