package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetSet(t *testing.T) {
	c := NewCache(time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", 42)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCache_Purge(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("k", "v")

	c.Purge()
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)
	c.Set("k", "v")

	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCache_NilIsSafe(t *testing.T) {
	var c *Cache

	_, ok := c.Get("k")
	assert.False(t, ok)
	c.Set("k", "v") // must not panic
	c.Purge()
}
