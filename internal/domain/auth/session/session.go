// Package session tracks which issued tokens are still live, independent of
// their cryptographic validity. Deleting an entry revokes the token
// immediately even though its signature stays valid until natural expiry.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no entry exists for the key.
var ErrNotFound = errors.New("session entry not found")

// KeyPrefix namespaces revocation entries in the store.
const KeyPrefix = "token:"

// TokenKey builds the store key for a token string.
func TokenKey(token string) string {
	return KeyPrefix + token
}

// Store is the four-operation contract both backends satisfy. Callers must
// never branch on which backend is active.
type Store interface {
	// Set stores value under key. A positive ttl makes the entry
	// unreadable once it elapses.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Delete removes the entry. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a live entry is present.
	Exists(ctx context.Context, key string) (bool, error)
	// Close releases backend resources.
	Close() error
}

// Logger is the minimal logging contract this package needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
