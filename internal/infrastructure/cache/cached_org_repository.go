package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// CachedOrganizationRepository decorates an OrganizationRepository with a
// read-through cache on FindByID. Writes invalidate before delegating so a
// failed save never leaves a stale entry behind.
type CachedOrganizationRepository struct {
	inner identity.OrganizationRepository
	cache OrganizationCache
}

var _ identity.OrganizationRepository = (*CachedOrganizationRepository)(nil)

// NewCachedOrganizationRepository wraps the repository with the cache
func NewCachedOrganizationRepository(inner identity.OrganizationRepository, cache OrganizationCache) *CachedOrganizationRepository {
	return &CachedOrganizationRepository{inner: inner, cache: cache}
}

// FindByID returns the organization, from cache when possible
func (r *CachedOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	if org, ok := r.cache.Get(ctx, id); ok {
		return org, nil
	}

	org, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, org)
	return org, nil
}

// FindBySlug delegates to the repository. Slug lookups happen on login only,
// not on the hot path.
func (r *CachedOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*identity.Organization, error) {
	return r.inner.FindBySlug(ctx, slug)
}

// FindAll delegates to the repository
func (r *CachedOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Organization, int64, error) {
	return r.inner.FindAll(ctx, filter)
}

// ExistsBySlug delegates to the repository
func (r *CachedOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return r.inner.ExistsBySlug(ctx, slug)
}

// Save invalidates the cached entry and delegates
func (r *CachedOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	r.cache.Invalidate(ctx, org.ID)
	return r.inner.Save(ctx, org)
}

// Delete invalidates the cached entry and delegates
func (r *CachedOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.cache.Invalidate(ctx, id)
	return r.inner.Delete(ctx, id)
}
