package site

import "context"

// SiteService manages project sites workers clock in against.
type SiteService interface {
	Create(ctx context.Context, req CreateSiteRequest) (SiteResponse, error)
	Get(ctx context.Context, id string) (SiteResponse, error)
	ListActive(ctx context.Context) ([]SiteResponse, error)
	Update(ctx context.Context, req UpdateSiteRequest) (SiteResponse, error)

	// Deactivate hides the site from clock-in; sessions keep their copied site data.
	Deactivate(ctx context.Context, id string) error
}
