// Package cache caches organization records. Organization settings are read
// on every attendance transition and leave submission, so lookups go through
// a cache in front of the repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/identity"
)

const (
	orgKeyPrefix  = "hrm:org:"
	defaultOrgTTL = 5 * time.Minute
)

// OrganizationCache stores organization snapshots with a TTL
type OrganizationCache interface {
	Get(ctx context.Context, id uuid.UUID) (*identity.Organization, bool)
	Set(ctx context.Context, org *identity.Organization)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// orgSnapshot is the serialized cache representation of an organization.
// Pending domain events are intentionally not cached.
type orgSnapshot struct {
	ID           uuid.UUID                     `json:"id"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`
	Version      int                           `json:"version"`
	Slug         string                        `json:"slug"`
	Name         string                        `json:"name"`
	ContactName  string                        `json:"contact_name"`
	ContactPhone string                        `json:"contact_phone"`
	ContactEmail string                        `json:"contact_email"`
	Address      string                        `json:"address"`
	LogoURL      string                        `json:"logo_url"`
	Status       identity.OrganizationStatus   `json:"status"`
	Settings     identity.OrganizationSettings `json:"settings"`
	Notes        string                        `json:"notes"`
}

func toSnapshot(org *identity.Organization) orgSnapshot {
	return orgSnapshot{
		ID:           org.ID,
		CreatedAt:    org.CreatedAt,
		UpdatedAt:    org.UpdatedAt,
		Version:      org.Version,
		Slug:         org.Slug,
		Name:         org.Name,
		ContactName:  org.ContactName,
		ContactPhone: org.ContactPhone,
		ContactEmail: org.ContactEmail,
		Address:      org.Address,
		LogoURL:      org.LogoURL,
		Status:       org.Status,
		Settings:     org.Settings,
		Notes:        org.Notes,
	}
}

func fromSnapshot(snap orgSnapshot) *identity.Organization {
	org := &identity.Organization{
		Slug:         snap.Slug,
		Name:         snap.Name,
		ContactName:  snap.ContactName,
		ContactPhone: snap.ContactPhone,
		ContactEmail: snap.ContactEmail,
		Address:      snap.Address,
		LogoURL:      snap.LogoURL,
		Status:       snap.Status,
		Settings:     snap.Settings,
		Notes:        snap.Notes,
	}
	org.ID = snap.ID
	org.CreatedAt = snap.CreatedAt
	org.UpdatedAt = snap.UpdatedAt
	org.Version = snap.Version
	return org
}

// RedisOrganizationCache is a redis-backed OrganizationCache. Cache failures
// are logged and treated as misses; the repository stays the source of truth.
type RedisOrganizationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ OrganizationCache = (*RedisOrganizationCache)(nil)

// RedisOrganizationCacheOption configures the cache
type RedisOrganizationCacheOption func(*RedisOrganizationCache)

// WithTTL sets the entry TTL
func WithTTL(ttl time.Duration) RedisOrganizationCacheOption {
	return func(c *RedisOrganizationCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewRedisOrganizationCache creates a redis-backed organization cache
func NewRedisOrganizationCache(client *redis.Client, logger *zap.Logger, opts ...RedisOrganizationCacheOption) *RedisOrganizationCache {
	c := &RedisOrganizationCache{
		client: client,
		ttl:    defaultOrgTTL,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached organization, if present
func (c *RedisOrganizationCache) Get(ctx context.Context, id uuid.UUID) (*identity.Organization, bool) {
	data, err := c.client.Get(ctx, orgKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Organization cache read failed", zap.String("org_id", id.String()), zap.Error(err))
		}
		return nil, false
	}

	var snap orgSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn("Organization cache entry corrupt, dropping", zap.String("org_id", id.String()), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}

	return fromSnapshot(snap), true
}

// Set stores the organization snapshot
func (c *RedisOrganizationCache) Set(ctx context.Context, org *identity.Organization) {
	data, err := json.Marshal(toSnapshot(org))
	if err != nil {
		c.logger.Warn("Organization cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, orgKey(org.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Organization cache write failed", zap.String("org_id", org.ID.String()), zap.Error(err))
	}
}

// Invalidate removes the cached organization
func (c *RedisOrganizationCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, orgKey(id)).Err(); err != nil {
		c.logger.Warn("Organization cache invalidation failed", zap.String("org_id", id.String()), zap.Error(err))
	}
}

func orgKey(id uuid.UUID) string {
	return fmt.Sprintf("%s%s", orgKeyPrefix, id.String())
}
