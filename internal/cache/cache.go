package cache

import (
	"net/url"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// DefaultTTL applies when a caller does not specify an expiration.
	DefaultTTL = time.Hour

	cleanupInterval = 10 * time.Minute
)

// Cache is the process-local TTL store shared by the handlers and the trip
// planner aggregator. It is constructed once in main and passed by reference
// so tests can use fresh instances.
//
// go-cache checks expiration on every read, so an expired entry is a miss
// even before the janitor sweeps it, and Set replaces an entry together with
// its expiration, so no stale eviction can remove a newer value.
type Cache struct {
	store *gocache.Cache
}

func New() *Cache {
	return &Cache{store: gocache.New(DefaultTTL, cleanupInterval)}
}

// Set stores value under key for ttl. A non-positive ttl falls back to
// DefaultTTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.store.Set(key, value, ttl)
}

// Get returns the stored value, or false if the key is absent or expired.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Has reports existence under the same expiry semantics as Get.
func (c *Cache) Has(key string) bool {
	_, ok := c.store.Get(key)
	return ok
}

// Key builds a deterministic cache key from an endpoint name and its query
// parameters. Parameters are sorted by name, so equivalent requests with
// reordered parameters map to the same entry.
func Key(endpoint string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[name]))
	}
	return b.String()
}
