package session

import (
	"context"
	"time"
)

// Store persists encoded session payloads keyed by session id.
// Implementations must return ErrSessionNotFound (possibly wrapped) for
// unknown or expired ids. Concurrent writes to the same id are resolved by
// the backend, usually last write wins.
type Store interface {
	// Read returns the payload stored under id.
	Read(ctx context.Context, id string) ([]byte, error)

	// Write stores data under id. A non-positive ttl means no expiry.
	Write(ctx context.Context, id string, data []byte, ttl time.Duration) error

	// Destroy removes id. Removing an unknown id is not an error.
	Destroy(ctx context.Context, id string) error
}

// GarbageCollector is implemented by stores that cannot expire entries on
// their own. GC removes entries untouched for longer than maxLifetime and
// returns how many were removed.
type GarbageCollector interface {
	GC(ctx context.Context, maxLifetime time.Duration) (int, error)
}
