package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/database"
	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
)

type siteRepositoryImpl struct {
	db *database.DB
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepositoryImpl{db: db}
}

const siteColumns = `id, name, company, location_label, latitude, longitude, match_radius_m, description, active, created_at, updated_at`

// Create implements site.SiteRepository.
func (r *siteRepositoryImpl) Create(ctx context.Context, s site.Site) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	lat, lon := coordinateArgs(s.Coordinate)
	query := `
		INSERT INTO sites (id, name, company, location_label, latitude, longitude, match_radius_m, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + siteColumns

	result, err := scanSite(q.QueryRow(ctx, query,
		s.ID, s.Name, s.Company, s.LocationLabel, lat, lon, s.MatchRadiusM, s.Description, s.Active,
	))
	if err != nil {
		return site.Site{}, fmt.Errorf("failed to create site: %w", err)
	}

	return result, nil
}

// GetByID implements site.SiteRepository.
func (r *siteRepositoryImpl) GetByID(ctx context.Context, id string) (site.Site, error) {
	if _, err := uuid.Parse(id); err != nil {
		return site.Site{}, site.ErrSiteNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1`

	result, err := scanSite(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site: %w", err)
	}

	return result, nil
}

// ListActive implements site.SiteRepository.
func (r *siteRepositoryImpl) ListActive(ctx context.Context) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + siteColumns + ` FROM sites WHERE active = TRUE ORDER BY name ASC, id ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	sites := []site.Site{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sites, nil
}

// Update implements site.SiteRepository.
func (r *siteRepositoryImpl) Update(ctx context.Context, s site.Site) (site.Site, error) {
	if _, err := uuid.Parse(s.ID); err != nil {
		return site.Site{}, site.ErrSiteNotFound
	}

	q := GetQuerier(ctx, r.db)

	lat, lon := coordinateArgs(s.Coordinate)
	query := `
		UPDATE sites
		SET name = $2, company = $3, location_label = $4, latitude = $5, longitude = $6,
		    match_radius_m = $7, description = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + siteColumns

	result, err := scanSite(q.QueryRow(ctx, query,
		s.ID, s.Name, s.Company, s.LocationLabel, lat, lon, s.MatchRadiusM, s.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to update site: %w", err)
	}

	return result, nil
}

// Deactivate implements site.SiteRepository.
func (r *siteRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return site.ErrSiteNotFound
	}

	q := GetQuerier(ctx, r.db)

	cmdTag, err := q.Exec(ctx, `UPDATE sites SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate site: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return site.ErrSiteNotFound
	}

	return nil
}

func scanSite(row pgx.Row) (site.Site, error) {
	var (
		s        site.Site
		lat, lon *float64
	)

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Company,
		&s.LocationLabel,
		&lat,
		&lon,
		&s.MatchRadiusM,
		&s.Description,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return site.Site{}, err
	}

	if lat != nil && lon != nil {
		s.Coordinate = &geo.Coordinate{Latitude: *lat, Longitude: *lon}
	}

	return s, nil
}

func coordinateArgs(c *geo.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lon := c.Latitude, c.Longitude
	return &lat, &lon
}
