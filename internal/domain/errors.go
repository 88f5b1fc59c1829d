package domain

import "errors"

// Sentinel errors used across layers.
var (
	// ErrNotFound is returned by storage backends for a missing key.
	ErrNotFound = errors.New("not found")
)
