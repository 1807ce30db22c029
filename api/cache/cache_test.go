/* cache_test.go
 * Contains unit tests for cache.go
 */

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestCache_MissingKey(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryDropped(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("key", "value")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	c.Invalidate("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_InvalidateAll(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.InvalidateAll()

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
}

func TestCache_OverwriteRefreshesValue(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "old")
	c.Set("key", "new")

	got, _ := c.Get("key")
	assert.Equal(t, "new", got)
}
