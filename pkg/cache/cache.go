// Package cache stores computed layouts, rendered artifacts and extraction
// results so repeated runs over the same category map skip the work.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps one JSON file per entry under a directory (CLI default)
//   - [RedisCache] shares entries between server replicas
//   - [NullCache] disables caching
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes every input that
// affects the cached value, so changing a layout radius or output format
// yields a different key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Backends return an error
// only when the store itself fails.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Time-to-live for each kind of cached value.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLExtract  = 24 * time.Hour
)
