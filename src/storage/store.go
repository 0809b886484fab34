// Package storage defines the opaque key-value persistence collaborator the
// ledger writes through. Implementations include SQLite (the real store) and
// in-memory (for testing).
package storage

import "errors"

// ErrWriteFailed marks a rejected persistence write. A batch whose write
// fails is fully not-applied; callers must not assume partial commits.
var ErrWriteFailed = errors.New("storage: write failed")

// Store is the persistence interface. Values are opaque blobs; the store
// never interprets them.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// does not exist.
	Get(key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// ListKeys returns every key starting with the given prefix.
	ListKeys(prefix string) ([]string, error)
}
