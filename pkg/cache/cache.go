// Package cache provides content-keyed caching for computed layouts.
//
// Layout computation is deterministic, so a layout is cached under a hash
// of the complete input tuple (card count, geometry, visibility). Backends:
//   - FileCache: per-user cache directory for CLI usage
//   - RedisCache: shared cache for multi-process hosts
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts is the full set of inputs that determine a layout.
// Two computations with equal opts produce byte-identical layouts.
type LayoutKeyOpts struct {
	CardCount           int     `json:"card_count"`
	ViewportHeight      float64 `json:"viewport_height"`
	CardHeight          float64 `json:"card_height"`
	DefaultVisibility   float64 `json:"default_visibility"`
	MaxCards            int     `json:"max_cards"`
	CompressedGroupSize int     `json:"compressed_group_size"`
	CompressionFactor   float64 `json:"compression_factor"`
}

// Keyer generates cache keys for layout artifacts.
type Keyer interface {
	// LayoutKey generates a key covering every layout input.
	LayoutKey(opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a layout computation.
func (k *DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}
