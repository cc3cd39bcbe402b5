// Package resultcache memoizes field reads on top of sturdyc. It is an
// internal adapter: the public cache package converts its configuration into
// this package's Config and invalidates entries by entity-key prefix whenever
// a record changes.
package resultcache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc-backed result cache.
type Config struct {
	// Capacity defines the maximum number of memoized reads.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0.
	NumShards int

	// TTL bounds how long a memoized read may be served before the store is
	// consulted again. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "result cache config error in field " + e.Field + ": " + e.Message
}

// FetchFn produces the value to memoize when a key is absent or expired.
type FetchFn func(ctx context.Context) (any, error)

// Service wraps a sturdyc client providing read memoization.
type Service struct {
	client *sturdyc.Client[any]
}

// New creates a sturdyc-backed result cache.
//
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly to the
// sturdyc constructor; EvictionInterval is applied as an option when set.
func New(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &Service{client: client}, nil
}

// GetOrFetch returns the memoized value for key, calling fetchFn on a miss
// and caching its result.
func (s *Service) GetOrFetch(ctx context.Context, key string, fetchFn FetchFn) (any, error) {
	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
}

// Delete removes a single memoized entry.
func (s *Service) Delete(key string) {
	s.client.Delete(key)
}

// DeleteByPrefix removes every memoized entry whose key starts with prefix.
// The public cache uses the entity key as a prefix so that one record write
// invalidates every memoized read that touched the record.
func (s *Service) DeleteByPrefix(prefix string) {
	keys := s.client.ScanKeys()

	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
}
