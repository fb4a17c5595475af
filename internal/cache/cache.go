package cache

import (
	"context"
	"time"
)

// Cache is a keyed store with per-entry expiry. Implementations are safe for
// concurrent use; concurrent writers to the same key simply overwrite each other.
type Cache interface {
	// Get returns the value for key, or false if the key is absent or expired.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores the value for key with the given time to live.
	Set(ctx context.Context, key, value string, ttl time.Duration)
}
