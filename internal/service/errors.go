// Package service provides business logic services for the Galaxy store.
package service

import "errors"

// Common service errors. Business rule violations are reported with the
// sentinels in the domain package; these cover infrastructure failures.
var (
	// ErrInternalError wraps unexpected repository or cache failures.
	ErrInternalError = errors.New("internal server error")
)
