package services

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache defaults, matching the daemon's response-cache behaviour: bounded
// size with LRU eviction and a short TTL so repeated identical queries are
// served without paying embedding cost twice.
const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 1000
)

// Cache is a TTL response cache shared by the read paths and purged on
// every write. A nil *Cache is valid and disables caching.
type Cache struct {
	lru *expirable.LRU[string, any]
}

// NewCache creates a response cache with the given TTL. A zero ttl uses
// DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{lru: expirable.NewLRU[string, any](DefaultCacheSize, nil, ttl)}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

// Set stores a value under key.
func (c *Cache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.lru.Add(key, value)
}

// Purge drops all cached entries. Called after every successful write so
// readers never observe counts or results older than the last ingestion.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
