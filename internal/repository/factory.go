// Package repository provides the data access layer for the Galaxy store.
// This file contains the aggregate types shared by the concrete backends.
package repository

import (
	"context"
)

// Repositories holds all repository instances.
type Repositories struct {
	User       UserRepository
	Frame      FrameRepository
	Submission SubmissionRepository
}

// DatabaseHealth is an interface for database health checks.
// Both the sqlite and postgres wrappers satisfy it; the health endpoint
// and the server shutdown path depend only on this.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
