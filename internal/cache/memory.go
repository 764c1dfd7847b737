package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache implements Cache in process memory. It is the development and
// test backend; production deployments use Redis. Expiry is checked lazily
// on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock overrides the cache clock, used by tests for deterministic
// expiry handling.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

// Get returns the value for a tenant-scoped key
func (c *MemoryCache) Get(_ context.Context, tenantID, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[Key(tenantID, key)]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, Key(tenantID, key))
		c.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

// Set stores a value under a tenant-scoped key
func (c *MemoryCache) Set(_ context.Context, tenantID, key, value string, ttl time.Duration) {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[Key(tenantID, key)] = entry
	c.mu.Unlock()
}

// InvalidateTenant deletes every key under the tenant's prefix
func (c *MemoryCache) InvalidateTenant(_ context.Context, tenantID string) int {
	prefix := TenantPrefix(tenantID)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Ping always succeeds for the in-memory backend
func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}
