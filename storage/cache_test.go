package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitAndExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }

	c := NewCache[int](time.Minute, clock)
	c.Put("k", 42)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	// advance past the TTL
	now = now.Add(61 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCachePutRefreshesTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }

	c := NewCache[string](time.Minute, clock)
	c.Put("k", "a")

	now = now.Add(50 * time.Second)
	c.Put("k", "b")

	now = now.Add(30 * time.Second)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestCacheMiss(t *testing.T) {
	c := NewCache[int](time.Minute, nil)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}
