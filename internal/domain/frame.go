// Package domain contains the core business entities for the Galaxy store.
package domain

import "time"

// Frame is a purchasable profile decoration. Unlike games, frames are
// persisted: administrators may append new ones to the catalog at
// runtime, and created frames are immediately purchasable. Frames are
// never deleted.
type Frame struct {
	// ID is the unique frame identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Price is the cost in store currency. Always >= 0.
	Price int64 `json:"price"`

	// BorderStyle is an opaque style token interpreted only by
	// rendering clients. Stored as-is, no validation.
	BorderStyle string `json:"border_style"`

	// CreatedAt is the timestamp when the frame was added.
	CreatedAt time.Time `json:"created_at"`
}

// NewFrame creates a frame with the given id and attributes.
func NewFrame(id, name string, price int64, borderStyle string) *Frame {
	return &Frame{
		ID:          id,
		Name:        name,
		Price:       price,
		BorderStyle: borderStyle,
		CreatedAt:   time.Now().UTC(),
	}
}

// DefaultFrames returns the three seed frames provisioned on first run.
func DefaultFrames() []*Frame {
	return []*Frame{
		NewFrame("frame-neon", "Neon Pulse", 150, "neon"),
		NewFrame("frame-gold", "Golden Ring", 300, "gold"),
		NewFrame("frame-stars", "Star Halo", 500, "stars"),
	}
}
