package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/identity"
)

// InMemoryOrganizationCache is a process-local OrganizationCache for
// development and tests, and the fallback when redis is not configured.
type InMemoryOrganizationCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]inMemoryOrgEntry
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryOrgEntry struct {
	snapshot  orgSnapshot
	expiresAt time.Time
}

var _ OrganizationCache = (*InMemoryOrganizationCache)(nil)

// NewInMemoryOrganizationCache creates an in-memory organization cache
func NewInMemoryOrganizationCache(ttl time.Duration) *InMemoryOrganizationCache {
	if ttl <= 0 {
		ttl = defaultOrgTTL
	}
	return &InMemoryOrganizationCache{
		entries: make(map[uuid.UUID]inMemoryOrgEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached organization, if present and not expired
func (c *InMemoryOrganizationCache) Get(ctx context.Context, id uuid.UUID) (*identity.Organization, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.Invalidate(ctx, id)
		return nil, false
	}
	return fromSnapshot(entry.snapshot), true
}

// Set stores the organization snapshot
func (c *InMemoryOrganizationCache) Set(_ context.Context, org *identity.Organization) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[org.ID] = inMemoryOrgEntry{
		snapshot:  toSnapshot(org),
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate removes the cached organization
func (c *InMemoryOrganizationCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}
