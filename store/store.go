// Package store provides the expiring key-value backends the admission
// engine keeps per-client state in.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no live value exists for a key. An
// expired entry is indistinguishable from one that was never written.
var ErrNotFound = errors.New("not found")

// Store is an expiring key-value store. Implementations must be safe for
// concurrent use; the engine hits them up to twice per checked request.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key. A positive ttl bounds the entry's
	// lifetime; zero or negative keeps it until overwritten.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
