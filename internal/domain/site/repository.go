package site

import "context"

// SiteRepository is the site registry store. GetByID returns inactive sites too;
// callers decide whether an inactive site is usable.
type SiteRepository interface {
	Create(ctx context.Context, s Site) (Site, error)
	GetByID(ctx context.Context, id string) (Site, error)
	ListActive(ctx context.Context) ([]Site, error)
	Update(ctx context.Context, s Site) (Site, error)
	Deactivate(ctx context.Context, id string) error
}
