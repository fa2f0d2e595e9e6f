package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New()

	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
	assert.True(t, c.Has("k"))
}

func TestCacheMissOnAbsentKey(t *testing.T) {
	c := New()

	got, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, c.Has("nope"))
}

func TestCacheEntryExpires(t *testing.T) {
	c := New()

	c.Set("k", "v", 50*time.Millisecond)

	_, ok := c.Get("k")
	require.True(t, ok, "entry should be readable before expiry")

	time.Sleep(80 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "expired entry must behave as a miss")
	assert.False(t, c.Has("k"))
}

func TestCacheOverwriteResetsExpiry(t *testing.T) {
	c := New()

	c.Set("k", "old", 50*time.Millisecond)
	c.Set("k", "new", time.Minute)

	time.Sleep(80 * time.Millisecond)

	got, ok := c.Get("k")
	require.True(t, ok, "overwrite must cancel the old entry's eviction")
	assert.Equal(t, "new", got)
}

func TestCacheZeroTTLUsesDefault(t *testing.T) {
	c := New()

	c.Set("k", "v", 0)

	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("textsearch", map[string]string{"a": "1", "b": "2"})
	b := Key("textsearch", map[string]string{"b": "2", "a": "1"})

	assert.Equal(t, a, b)
}

func TestKeySeparatesEndpoints(t *testing.T) {
	a := Key("textsearch", map[string]string{"query": "jaipur"})
	b := Key("details", map[string]string{"query": "jaipur"})

	assert.NotEqual(t, a, b)
}

func TestKeyEscapesValues(t *testing.T) {
	a := Key("textsearch", map[string]string{"query": "a&b=c"})
	b := Key("textsearch", map[string]string{"query": "a", "b": "c"})

	assert.NotEqual(t, a, b)
}
