package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a tenant-namespaced, best-effort key/value store with TTL.
// Implementations must never surface backend failures: a failed read is a
// miss and a failed write is a no-op, so callers always fall through to
// live computation. The cache is reconstructible from the ledger and the
// profile store and is never an authoritative data source.
type Cache interface {
	// Get returns the value for a tenant-scoped key, or false on miss,
	// expiry or backend failure.
	Get(ctx context.Context, tenantID, key string) (string, bool)

	// Set stores a value under a tenant-scoped key, best effort
	Set(ctx context.Context, tenantID, key, value string, ttl time.Duration)

	// InvalidateTenant removes all entries for a tenant and returns how
	// many were deleted.
	InvalidateTenant(ctx context.Context, tenantID string) int

	// Ping reports backend reachability, for health checks only
	Ping(ctx context.Context) error
}

// Key builds the namespaced cache key. Every key derived from tenant-owned
// data carries the tenant prefix, which makes cross-tenant collisions
// structurally impossible and lets a tenant-wide invalidation run as a
// single prefix scan.
func Key(tenantID, logicalKey string) string {
	return fmt.Sprintf("tenant:%s:%s", tenantID, logicalKey)
}

// TenantPrefix returns the key prefix owned by a tenant
func TenantPrefix(tenantID string) string {
	return fmt.Sprintf("tenant:%s:", tenantID)
}

// ScoreKey is the logical key for a cached scoring result
func ScoreKey(profileID string, category string) string {
	return fmt.Sprintf("score:%s:%s", profileID, category)
}

// SummaryKey is the logical key for a cached tender summary
func SummaryKey(tenderID string) string {
	return fmt.Sprintf("summary:%s", tenderID)
}
