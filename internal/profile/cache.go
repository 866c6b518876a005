package profile

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/qoslens/qoslens/internal/models"
)

type cacheEntry struct {
	profile   *models.CustomerProfile
	expiresAt time.Time
}

// CachedStore wraps a Store with a TTL cache for profile lookups, so
// long-running batch runs do not hit PostgreSQL for every tenant pass.
type CachedStore struct {
	store   Store
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	maxSize int
}

// NewCachedStore creates a caching wrapper around store.
func NewCachedStore(store Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		store:   store,
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		maxSize: 10000,
	}
}

// Get returns a cached profile or falls through to the wrapped store.
func (c *CachedStore) Get(ctx context.Context, tenantID string) (*models.CustomerProfile, error) {
	c.mu.RLock()
	entry, exists := c.entries[tenantID]
	c.mu.RUnlock()

	if exists && time.Now().Before(entry.expiresAt) {
		return cloneProfile(entry.profile), nil
	}

	profile, err := c.store.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	c.set(tenantID, profile)
	return profile, nil
}

// Save writes through to the wrapped store and invalidates the entry.
func (c *CachedStore) Save(ctx context.Context, profile *models.CustomerProfile) error {
	if err := c.store.Save(ctx, profile); err != nil {
		return err
	}

	if profile != nil {
		c.mu.Lock()
		delete(c.entries, profile.TenantID)
		c.mu.Unlock()
	}
	return nil
}

// ListTenantIDs delegates to the wrapped store.
func (c *CachedStore) ListTenantIDs(ctx context.Context) ([]string, error) {
	return c.store.ListTenantIDs(ctx)
}

// Ping delegates to the wrapped store.
func (c *CachedStore) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close delegates to the wrapped store.
func (c *CachedStore) Close() error {
	return c.store.Close()
}

// Size returns the current number of cached entries.
func (c *CachedStore) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachedStore) set(tenantID string, profile *models.CustomerProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[tenantID] = &cacheEntry{
		profile:   cloneProfile(profile),
		expiresAt: time.Now().Add(c.ttl),
	}
}

// cloneProfile copies a profile including its slice fields, so cached
// entries and caller-held profiles never share backing arrays.
func cloneProfile(profile *models.CustomerProfile) *models.CustomerProfile {
	copied := *profile
	copied.Languages = slices.Clone(profile.Languages)
	copied.Geography = slices.Clone(profile.Geography)
	return &copied
}

// evictOldest removes expired entries, then trims 10% if still full.
func (c *CachedStore) evictOldest() {
	now := time.Now()
	var toDelete []string

	for tenantID, entry := range c.entries {
		if now.After(entry.expiresAt) {
			toDelete = append(toDelete, tenantID)
		}
	}
	for _, tenantID := range toDelete {
		delete(c.entries, tenantID)
	}

	if len(c.entries) >= c.maxSize {
		count := 0
		target := c.maxSize / 10
		for tenantID := range c.entries {
			delete(c.entries, tenantID)
			count++
			if count >= target {
				break
			}
		}
	}
}
