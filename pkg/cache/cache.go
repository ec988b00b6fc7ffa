// Package cache stores computed decompositions and combine pages.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared redis instance, for the HTTP API
//
// Keys are derived by a [Keyer] from a content hash of the dataset and the
// options that influence the result, so equal inputs share entries across
// runs and processes.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cache entries.
const (
	TTLDecomposition = 7 * 24 * time.Hour
	TTLCombine       = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// DecomposeKeyOpts lists everything besides the dataset that changes a
// decomposition result.
type DecomposeKeyOpts struct {
	Step       int     `json:"step"`
	Colors     string  `json:"colors"`
	Engine     string  `json:"engine"`
	Margin     float64 `json:"margin"`
	Seed       uint64  `json:"seed"`
	Iterations int     `json:"iterations"`
}

// CombineKeyOpts lists everything besides the dataset that changes a
// combine result.
type CombineKeyOpts struct {
	PatternSize int `json:"pattern_size"`
	MinSize     int `json:"min_size"`
}

// Keyer derives cache keys.
type Keyer interface {
	DecomposeKey(datasetHash string, opts DecomposeKeyOpts) string
	CombineKey(datasetHash string, opts CombineKeyOpts) string
}

// DefaultKeyer hashes the dataset hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DecomposeKey returns "decompose:<sha256>".
func (DefaultKeyer) DecomposeKey(datasetHash string, opts DecomposeKeyOpts) string {
	return hashKey("decompose", datasetHash, opts)
}

// CombineKey returns "combine:<sha256>".
func (DefaultKeyer) CombineKey(datasetHash string, opts CombineKeyOpts) string {
	return hashKey("combine", datasetHash, opts)
}
