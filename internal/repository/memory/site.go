package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/theglobal/uren-backend-go/internal/domain/site"
)

type siteRepositoryImpl struct {
	mu    sync.RWMutex
	sites map[string]site.Site
	now   func() time.Time
}

func NewSiteRepository() site.SiteRepository {
	return &siteRepositoryImpl{
		sites: make(map[string]site.Site),
		now:   time.Now,
	}
}

// Create implements site.SiteRepository.
func (r *siteRepositoryImpl) Create(ctx context.Context, s site.Site) (site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.sites[s.ID] = s
	return s, nil
}

// GetByID implements site.SiteRepository.
func (r *siteRepositoryImpl) GetByID(ctx context.Context, id string) (site.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sites[id]
	if !ok {
		return site.Site{}, site.ErrSiteNotFound
	}
	return s, nil
}

// ListActive implements site.SiteRepository.
func (r *siteRepositoryImpl) ListActive(ctx context.Context) ([]site.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]site.Site, 0, len(r.sites))
	for _, s := range r.sites {
		if s.Active {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update implements site.SiteRepository.
func (r *siteRepositoryImpl) Update(ctx context.Context, s site.Site) (site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sites[s.ID]
	if !ok {
		return site.Site{}, site.ErrSiteNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = r.now().UTC()
	r.sites[s.ID] = s
	return s, nil
}

// Deactivate implements site.SiteRepository.
func (r *siteRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sites[id]
	if !ok {
		return site.ErrSiteNotFound
	}
	s.Active = false
	s.UpdatedAt = r.now().UTC()
	r.sites[id] = s
	return nil
}
