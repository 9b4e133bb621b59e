package common

import (
	"time"

	"infinite-experiment/contactimport/internal/metrics"
)

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// InstrumentedCache counts hits and misses of the wrapped cache
type InstrumentedCache struct {
	CacheInterface
	name    string
	metrics *metrics.MetricsRegistry
}

var _ CacheInterface = (*InstrumentedCache)(nil)

func NewInstrumentedCache(inner CacheInterface, name string, m *metrics.MetricsRegistry) *InstrumentedCache {
	return &InstrumentedCache{CacheInterface: inner, name: name, metrics: m}
}

func (c *InstrumentedCache) Get(key string) (interface{}, bool) {
	val, ok := c.CacheInterface.Get(key)
	if c.metrics != nil {
		if ok {
			c.metrics.CacheHitsTotal.WithLabelValues(c.name).Inc()
		} else {
			c.metrics.CacheMissesTotal.WithLabelValues(c.name).Inc()
		}
	}
	return val, ok
}
