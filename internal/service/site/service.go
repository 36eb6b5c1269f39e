package site

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
)

type siteServiceImpl struct {
	siteRepo site.SiteRepository
}

func NewSiteService(siteRepo site.SiteRepository) site.SiteService {
	return &siteServiceImpl{siteRepo: siteRepo}
}

// Create implements site.SiteService.
func (s *siteServiceImpl) Create(ctx context.Context, req site.CreateSiteRequest) (site.SiteResponse, error) {
	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return site.SiteResponse{}, fmt.Errorf("failed to generate site id: %w", err)
	}

	entity := site.Site{
		ID:            id.String(),
		Name:          req.Name,
		Company:       req.Company,
		LocationLabel: req.LocationLabel,
		Coordinate:    coordinateFrom(req.Latitude, req.Longitude),
		MatchRadiusM:  radiusOrDefault(req.MatchRadiusM),
		Description:   req.Description,
		Active:        true,
	}

	created, err := s.siteRepo.Create(ctx, entity)
	if err != nil {
		return site.SiteResponse{}, fmt.Errorf("failed to create site: %w", err)
	}

	return MapSiteToResponse(created), nil
}

// Get implements site.SiteService.
func (s *siteServiceImpl) Get(ctx context.Context, id string) (site.SiteResponse, error) {
	entity, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		return site.SiteResponse{}, err
	}
	return MapSiteToResponse(entity), nil
}

// ListActive implements site.SiteService.
func (s *siteServiceImpl) ListActive(ctx context.Context) ([]site.SiteResponse, error) {
	sites, err := s.siteRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]site.SiteResponse, 0, len(sites))
	for _, st := range sites {
		responses = append(responses, MapSiteToResponse(st))
	}
	return responses, nil
}

// Update implements site.SiteService.
func (s *siteServiceImpl) Update(ctx context.Context, req site.UpdateSiteRequest) (site.SiteResponse, error) {
	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	existing, err := s.siteRepo.GetByID(ctx, req.ID)
	if err != nil {
		return site.SiteResponse{}, err
	}

	existing.Name = req.Name
	existing.Company = req.Company
	existing.LocationLabel = req.LocationLabel
	existing.Coordinate = coordinateFrom(req.Latitude, req.Longitude)
	existing.MatchRadiusM = radiusOrDefault(req.MatchRadiusM)
	existing.Description = req.Description

	updated, err := s.siteRepo.Update(ctx, existing)
	if err != nil {
		return site.SiteResponse{}, err
	}

	return MapSiteToResponse(updated), nil
}

// Deactivate implements site.SiteService.
func (s *siteServiceImpl) Deactivate(ctx context.Context, id string) error {
	return s.siteRepo.Deactivate(ctx, id)
}

func MapSiteToResponse(s site.Site) site.SiteResponse {
	resp := site.SiteResponse{
		ID:            s.ID,
		Name:          s.Name,
		Company:       s.Company,
		LocationLabel: s.LocationLabel,
		MatchRadiusM:  s.MatchRadiusM,
		Description:   s.Description,
		Active:        s.Active,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
	if s.Coordinate != nil {
		lat, lon := s.Coordinate.Latitude, s.Coordinate.Longitude
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

func coordinateFrom(lat, lon *float64) *geo.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *lat, Longitude: *lon}
}

func radiusOrDefault(radius *float64) float64 {
	if radius == nil {
		return site.DefaultMatchRadiusM
	}
	return *radius
}
