package cache

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-graphql-cache/internal/resultcache"
)

// Config enumerates everything a cache is built from: per-type policies,
// the possible-types mapping for polymorphic results, and optional ambient
// collaborators. A Config is validated once, at construction; policies are
// never re-resolved at write time.
type Config struct {
	// TypePolicies maps type names to their identity and field policies.
	TypePolicies map[string]TypePolicy

	// PossibleTypes maps abstract (union/interface) type names to the
	// ordered list of concrete member type names.
	PossibleTypes map[string][]string

	// ResultCache enables read memoization when non-nil.
	ResultCache *ResultCacheConfig

	// KeySerializer overrides the default field key serializer.
	KeySerializer KeySerializer

	// Logger receives instrumentation output (for example pre-parsed scalar
	// warnings). Nil means silent.
	Logger *slog.Logger

	// Metrics receives observability callbacks. Nil means NoopMetrics.
	Metrics Metrics
}

// ResultCacheConfig exposes result cache options for consumers of the cache
// package. It mirrors the internal resultcache configuration.
type ResultCacheConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultResultCacheConfig returns a ResultCacheConfig populated with
// sensible defaults.
func DefaultResultCacheConfig() ResultCacheConfig {
	return convertFromInternal(resultcache.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TypePolicies, validation.By(validateTypePolicies)),
		validation.Field(&c.PossibleTypes, validation.By(validatePossibleTypes)),
		validation.Field(&c.ResultCache, validation.By(validateResultCache)),
	)
}

func validateTypePolicies(value any) error {
	policies, _ := value.(map[string]TypePolicy)
	for typeName, policy := range policies {
		for field, fp := range policy.Fields {
			if fp.NoKeyArgs && (len(fp.KeyArgs) > 0 || fp.KeyArgsFunc != nil) {
				return &ConfigError{
					Field:   typeName + "." + field,
					Message: "NoKeyArgs excludes KeyArgs and KeyArgsFunc",
				}
			}
			seen := make(map[string]bool, len(fp.KeyArgs))
			for _, name := range fp.KeyArgs {
				if name == "" {
					return &ConfigError{
						Field:   typeName + "." + field,
						Message: "key argument names must not be empty",
					}
				}
				if seen[name] {
					return &ConfigError{
						Field:   typeName + "." + field,
						Message: fmt.Sprintf("duplicate key argument %q", name),
					}
				}
				seen[name] = true
			}
		}
	}
	return nil
}

func validatePossibleTypes(value any) error {
	possible, _ := value.(map[string][]string)
	for abstract, concretes := range possible {
		if len(concretes) == 0 {
			return &ConfigError{
				Field:   abstract,
				Message: "possible types list must not be empty",
			}
		}
		for _, name := range concretes {
			if name == "" {
				return &ConfigError{
					Field:   abstract,
					Message: "concrete type names must not be empty",
				}
			}
		}
	}
	return nil
}

func validateResultCache(value any) error {
	cfg, _ := value.(*ResultCacheConfig)
	if cfg == nil {
		return nil
	}
	return cfg.toInternal().Validate()
}

func (c ResultCacheConfig) toInternal() resultcache.Config {
	return resultcache.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg resultcache.Config) ResultCacheConfig {
	return ResultCacheConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
