package di

import (
	"github.com/goliatone/go-graphql-cache/cache"
)

// Container provides dependency injection for cache related components.
// It owns the singleton cache instance built from one validated
// configuration, so call sites receive the store by reference instead of
// reaching for a process-wide global.
type Container struct {
	store      *cache.Cache
	serializer cache.KeySerializer
	config     cache.Config
}

// NewContainer creates a new DI container with the provided cache
// configuration. The configuration is validated here, once; construction
// fails rather than deferring policy errors to write time.
func NewContainer(config cache.Config) (*Container, error) {
	serializer := config.KeySerializer
	if serializer == nil {
		serializer = cache.NewDefaultKeySerializer()
		config.KeySerializer = serializer
	}

	store, err := cache.New(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		store:      store,
		serializer: serializer,
		config:     config,
	}, nil
}

// Cache returns the singleton cache instance.
func (c *Container) Cache() *cache.Cache {
	return c.store
}

// KeySerializer returns the singleton key serializer instance.
// This allows access to the key serializer for custom policy implementations.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.serializer
}

// Config returns a copy of the cache configuration used by this container.
// This is useful for debugging and monitoring purposes.
func (c *Container) Config() cache.Config {
	return c.config
}
