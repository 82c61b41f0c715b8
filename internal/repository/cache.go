// Package repository defines data access interfaces for the Galaxy store.
package repository

import (
	"context"
	"time"
)

// =============================================================================
// Cache Interface (Redis)
// =============================================================================

// Cache defines the interface for caching operations. Backed by Redis
// in multi-node deployments and by an in-memory store otherwise. The
// session layer keeps its tokens here.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX sets a value only if the key doesn't exist.
	// Returns true if the value was set, false if the key already exists.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Expire sets or updates the TTL for a key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// =============================================================================
// Common Cache Keys
// =============================================================================

// CacheKey generates cache keys for common scenarios.
type CacheKey struct{}

// Session returns the cache key holding the user id for a session token.
func (CacheKey) Session(token string) string {
	return "session:" + token
}

// UserSession returns the reverse-index key mapping a user id to their
// current session token. Needed to revoke the session when the account
// is banned.
func (CacheKey) UserSession(userID string) string {
	return "session:user:" + userID
}

// FrameList returns the cache key for the frame catalog listing.
func (CacheKey) FrameList() string {
	return "cache:frames"
}
