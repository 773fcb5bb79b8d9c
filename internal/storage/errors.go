package storage

import "errors"

// Sentinel errors for infrastructure facts. Callers translate them into
// domain errors or degrade, depending on whether the read is hard or cached.
var (
	// ErrNotFound means the key does not exist in the remote store.
	ErrNotFound = errors.New("key not found")

	// ErrConnLost means the remote store stayed unreachable after the retry
	// budget was exhausted.
	ErrConnLost = errors.New("store connection lost")
)
