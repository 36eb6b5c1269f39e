package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/pkg/database"
)

const uniqueViolation = "23505"

type clockSessionRepositoryImpl struct {
	db *database.DB
}

func NewClockSessionRepository(db *database.DB) clocksession.Repository {
	return &clockSessionRepositoryImpl{db: db}
}

const sessionColumns = `
	id, worker_id, worker_name, site_id, site_name, company, site_location_label, status,
	opened_at, open_latitude, open_longitude, open_accuracy_m, open_captured_at,
	closed_at, close_latitude, close_longitude, close_accuracy_m, close_captured_at,
	admission_distance_m, admission_match, admission_warning,
	closing_distance_m, closing_match, closing_warning,
	duration_hours, note, created_at, updated_at`

// FindOpen implements clocksession.Repository.
func (r *clockSessionRepositoryImpl) FindOpen(ctx context.Context, workerID string) (*clocksession.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM clock_sessions WHERE worker_id = $1 AND status = 'open' LIMIT 1`

	s, err := scanSession(q.QueryRow(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open session: %w", err)
	}

	return &s, nil
}

// Append implements clocksession.Repository. The per-worker advisory lock
// serializes concurrent clock-ins; the partial unique index backs it up.
func (r *clockSessionRepositoryImpl) Append(ctx context.Context, s clocksession.Session) (clocksession.Session, error) {
	var result clocksession.Session

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, s.WorkerID); err != nil {
			return fmt.Errorf("failed to lock worker: %w", err)
		}

		open, err := r.FindOpen(ctx, s.WorkerID)
		if err != nil {
			return err
		}
		if open != nil {
			return clocksession.ErrAlreadyClockedIn
		}

		query := `
			INSERT INTO clock_sessions (
				id, worker_id, worker_name, site_id, site_name, company, site_location_label, status,
				opened_at, open_latitude, open_longitude, open_accuracy_m, open_captured_at,
				admission_distance_m, admission_match, admission_warning,
				note, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			RETURNING ` + sessionColumns

		result, err = scanSession(q.QueryRow(ctx, query,
			s.ID, s.WorkerID, s.WorkerName, s.SiteID, s.SiteName, s.Company, s.SiteLocationLabel, string(s.Status),
			s.OpenedAt, s.OpenLocation.Coordinate.Latitude, s.OpenLocation.Coordinate.Longitude,
			s.OpenLocation.AccuracyM, s.OpenLocation.CapturedAt,
			s.AdmissionDistanceM, s.AdmissionMatch, s.AdmissionWarning,
			s.Note, s.CreatedAt, s.UpdatedAt,
		))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return clocksession.ErrAlreadyClockedIn
			}
			return fmt.Errorf("failed to create clock session: %w", err)
		}

		return nil
	})
	if err != nil {
		return clocksession.Session{}, err
	}

	return result, nil
}

// GetByID implements clocksession.Repository.
func (r *clockSessionRepositoryImpl) GetByID(ctx context.Context, id string) (clocksession.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return clocksession.Session{}, clocksession.ErrSessionNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM clock_sessions WHERE id = $1`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clocksession.Session{}, clocksession.ErrSessionNotFound
		}
		return clocksession.Session{}, fmt.Errorf("failed to get clock session: %w", err)
	}

	return s, nil
}

// Close implements clocksession.Repository.
func (r *clockSessionRepositoryImpl) Close(ctx context.Context, s clocksession.Session) (clocksession.Session, error) {
	if s.ClosedAt == nil || s.CloseLocation == nil || s.DurationHours == nil {
		return clocksession.Session{}, fmt.Errorf("failed to close clock session: session %s carries no closing data", s.ID)
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_sessions
		SET status = 'closed',
		    closed_at = $2,
		    close_latitude = $3,
		    close_longitude = $4,
		    close_accuracy_m = $5,
		    close_captured_at = $6,
		    closing_distance_m = $7,
		    closing_match = $8,
		    closing_warning = $9,
		    duration_hours = $10,
		    note = $11,
		    updated_at = $12
		WHERE id = $1 AND status = 'open'
		RETURNING ` + sessionColumns

	result, err := scanSession(q.QueryRow(ctx, query,
		s.ID, *s.ClosedAt,
		s.CloseLocation.Coordinate.Latitude, s.CloseLocation.Coordinate.Longitude,
		s.CloseLocation.AccuracyM, s.CloseLocation.CapturedAt,
		s.ClosingDistanceM, s.ClosingMatch, s.ClosingWarning,
		*s.DurationHours, s.Note, s.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, s.ID); getErr != nil {
				return clocksession.Session{}, getErr
			}
			return clocksession.Session{}, clocksession.ErrAlreadyClosed
		}
		return clocksession.Session{}, fmt.Errorf("failed to close clock session: %w", err)
	}

	return result, nil
}

// List implements clocksession.Repository.
func (r *clockSessionRepositoryImpl) List(ctx context.Context, filter clocksession.SessionFilter) ([]clocksession.Session, error) {
	q := GetQuerier(ctx, r.db)

	// Build dynamic filter
	query := `SELECT ` + sessionColumns + ` FROM clock_sessions WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argIdx)
		args = append(args, *filter.WorkerID)
		argIdx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.OpenedFrom != nil {
		query += fmt.Sprintf(" AND opened_at >= $%d", argIdx)
		args = append(args, *filter.OpenedFrom)
		argIdx++
	}
	if filter.OpenedTo != nil {
		query += fmt.Sprintf(" AND opened_at < $%d", argIdx)
		args = append(args, *filter.OpenedTo)
	}

	query += " ORDER BY opened_at DESC, id DESC"

	return r.query(ctx, q, query, args...)
}

// ListClosed implements clocksession.Repository.
func (r *clockSessionRepositoryImpl) ListClosed(ctx context.Context, filter clocksession.AggregateFilter) ([]clocksession.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM clock_sessions WHERE status = 'closed'`
	args := []interface{}{}
	argIdx := 1

	if filter.OpenedFrom != nil {
		query += fmt.Sprintf(" AND opened_at >= $%d", argIdx)
		args = append(args, *filter.OpenedFrom)
		argIdx++
	}
	if filter.OpenedTo != nil {
		query += fmt.Sprintf(" AND opened_at < $%d", argIdx)
		args = append(args, *filter.OpenedTo)
		argIdx++
	}
	if len(filter.SiteIDs) > 0 {
		ids, ok := parseUUIDs(filter.SiteIDs)
		if !ok {
			// a malformed id cannot match any row
			return []clocksession.Session{}, nil
		}
		query += fmt.Sprintf(" AND site_id = ANY($%d::uuid[])", argIdx)
		args = append(args, ids)
		argIdx++
	}
	if len(filter.WorkerIDs) > 0 {
		query += fmt.Sprintf(" AND worker_id = ANY($%d)", argIdx)
		args = append(args, filter.WorkerIDs)
	}

	query += " ORDER BY opened_at ASC, id ASC"

	return r.query(ctx, q, query, args...)
}

// ListStaleOpen implements clocksession.Repository.
func (r *clockSessionRepositoryImpl) ListStaleOpen(ctx context.Context, openedBefore time.Time) ([]clocksession.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM clock_sessions WHERE status = 'open' AND opened_at < $1 ORDER BY opened_at ASC, id ASC`

	return r.query(ctx, q, query, openedBefore)
}

// Delete implements clocksession.Repository. Position logs go with it through ON DELETE CASCADE.
func (r *clockSessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return clocksession.ErrSessionNotFound
	}

	q := GetQuerier(ctx, r.db)

	cmdTag, err := q.Exec(ctx, `DELETE FROM clock_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete clock session: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return clocksession.ErrSessionNotFound
	}

	return nil
}

func (r *clockSessionRepositoryImpl) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]clocksession.Session, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock sessions: %w", err)
	}
	defer rows.Close()

	sessions := []clocksession.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sessions, nil
}

func scanSession(row pgx.Row) (clocksession.Session, error) {
	var (
		s                  clocksession.Session
		status             string
		closeLat, closeLon *float64
		closeAccuracy      *float64
		closeCapturedAt    *time.Time
	)

	err := row.Scan(
		&s.ID,
		&s.WorkerID,
		&s.WorkerName,
		&s.SiteID,
		&s.SiteName,
		&s.Company,
		&s.SiteLocationLabel,
		&status,
		&s.OpenedAt,
		&s.OpenLocation.Coordinate.Latitude,
		&s.OpenLocation.Coordinate.Longitude,
		&s.OpenLocation.AccuracyM,
		&s.OpenLocation.CapturedAt,
		&s.ClosedAt,
		&closeLat,
		&closeLon,
		&closeAccuracy,
		&closeCapturedAt,
		&s.AdmissionDistanceM,
		&s.AdmissionMatch,
		&s.AdmissionWarning,
		&s.ClosingDistanceM,
		&s.ClosingMatch,
		&s.ClosingWarning,
		&s.DurationHours,
		&s.Note,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return clocksession.Session{}, err
	}

	s.Status = clocksession.Status(status)
	if closeLat != nil && closeLon != nil {
		loc := clocksession.LocationSample{AccuracyM: closeAccuracy}
		loc.Coordinate.Latitude = *closeLat
		loc.Coordinate.Longitude = *closeLon
		if closeCapturedAt != nil {
			loc.CapturedAt = *closeCapturedAt
		}
		s.CloseLocation = &loc
	}

	return s, nil
}

func parseUUIDs(ids []string) ([]string, bool) {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, false
		}
	}
	return ids, true
}

type positionLogRepositoryImpl struct {
	db *database.DB
}

func NewPositionLogRepository(db *database.DB) clocksession.PositionLogRepository {
	return &positionLogRepositoryImpl{db: db}
}

// Append implements clocksession.PositionLogRepository.
func (r *positionLogRepositoryImpl) Append(ctx context.Context, p clocksession.PositionLog) (clocksession.PositionLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO position_logs (id, session_id, worker_id, captured_at, latitude, longitude, accuracy_m, distance_to_site_m, within_radius)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		p.ID, p.SessionID, p.WorkerID, p.CapturedAt,
		p.Location.Latitude, p.Location.Longitude, p.AccuracyM,
		p.DistanceToSiteM, p.WithinRadius,
	)
	if err != nil {
		return clocksession.PositionLog{}, fmt.Errorf("failed to create position log: %w", err)
	}

	return p, nil
}

// ListBySession implements clocksession.PositionLogRepository.
func (r *positionLogRepositoryImpl) ListBySession(ctx context.Context, sessionID string) ([]clocksession.PositionLog, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return []clocksession.PositionLog{}, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, session_id, worker_id, captured_at, latitude, longitude, accuracy_m, distance_to_site_m, within_radius
		FROM position_logs
		WHERE session_id = $1
		ORDER BY captured_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list position logs: %w", err)
	}
	defer rows.Close()

	logs := []clocksession.PositionLog{}
	for rows.Next() {
		var p clocksession.PositionLog
		err := rows.Scan(
			&p.ID,
			&p.SessionID,
			&p.WorkerID,
			&p.CapturedAt,
			&p.Location.Latitude,
			&p.Location.Longitude,
			&p.AccuracyM,
			&p.DistanceToSiteM,
			&p.WithinRadius,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position log: %w", err)
		}
		logs = append(logs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return logs, nil
}
