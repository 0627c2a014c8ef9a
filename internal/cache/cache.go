// Package cache provides a namespaced short-TTL cache for hot entities.
//
// The cache fronts the repository for clients, APIs, workspaces and decrypted
// signing material. Entries are non-authoritative copies; the repository is
// the source of truth. The TTL is kept short so revocations are observed
// promptly while read load is absorbed.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Cache is a process-wide TTL cache with fetch-or-populate semantics.
// Safe for concurrent use. Delete of an absent key is a no-op.
type Cache struct {
	store *gocache.Cache
	group singleflight.Group
	ttl   time.Duration
}

// New creates a Cache with the given default TTL. Expired entries are swept
// in the background at twice the TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// key builds the namespaced cache key.
func key(namespace, id string) string {
	return namespace + ":" + id
}

// Get returns the cached value for the namespaced key, or false if absent
// or expired.
func (c *Cache) Get(namespace, id string) (any, bool) {
	return c.store.Get(key(namespace, id))
}

// Set stores a value under the namespaced key with the default TTL.
func (c *Cache) Set(namespace, id string, value any) {
	c.store.Set(key(namespace, id), value, gocache.DefaultExpiration)
}

// Delete removes the namespaced key. Deleting an absent key is a no-op, so
// concurrent readers that both observe an expired entry may both evict it
// without error.
func (c *Cache) Delete(namespace, id string) {
	c.store.Delete(key(namespace, id))
}

// Fetch returns the cached value for the namespaced key, populating it via
// fn on a miss. Concurrent misses for the same key are collapsed into a
// single fn call. A fn error is returned to all waiters and nothing is
// cached.
func (c *Cache) Fetch(
	ctx context.Context,
	namespace, id string,
	fn func(ctx context.Context) (any, error),
) (any, error) {
	k := key(namespace, id)

	if value, ok := c.store.Get(k); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(k, func() (any, error) {
		// Re-check under the flight: another caller may have populated
		// the entry between our miss and acquiring the flight.
		if value, ok := c.store.Get(k); ok {
			return value, nil
		}

		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.store.Set(k, value, gocache.DefaultExpiration)
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Flush removes all entries. Intended for test isolation.
func (c *Cache) Flush() {
	c.store.Flush()
}
