package postgresql

import (
	"context"
	"fmt"

	"github.com/theglobal/uren-backend-go/internal/domain/audit"
	"github.com/theglobal/uren-backend-go/internal/pkg/database"
)

type auditStoreImpl struct {
	db *database.DB
}

func NewAuditStore(db *database.DB) audit.Store {
	return &auditStoreImpl{db: db}
}

// Append implements audit.Store.
func (r *auditStoreImpl) Append(ctx context.Context, e audit.Event) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_logs (
			id, event_type, worker_id, worker_name, session_id, site_id,
			distance_m, within_report_radius, within_advisory_radius, warning, reason, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := q.Exec(ctx, query,
		e.ID, string(e.Type), e.WorkerID, e.WorkerName, nullIfEmpty(e.SessionID), nullIfEmpty(e.SiteID),
		e.DistanceM, e.WithinReportRadius, e.WithinAdvisoryRadius, e.Warning, e.Reason, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// List implements audit.Store.
func (r *auditStoreImpl) List(ctx context.Context, filter audit.Filter) ([]audit.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, event_type, worker_id, worker_name, session_id, site_id,
		       distance_m, within_report_radius, within_advisory_radius, warning, reason, occurred_at
		FROM audit_logs
		WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argIdx)
		args = append(args, *filter.WorkerID)
		argIdx++
	}
	if filter.EventType != nil {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, string(*filter.EventType))
		argIdx++
	}

	query += " ORDER BY occurred_at DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	events := []audit.Event{}
	for rows.Next() {
		var (
			e                 audit.Event
			eventType         string
			sessionID, siteID *string
		)
		err := rows.Scan(
			&e.ID,
			&eventType,
			&e.WorkerID,
			&e.WorkerName,
			&sessionID,
			&siteID,
			&e.DistanceM,
			&e.WithinReportRadius,
			&e.WithinAdvisoryRadius,
			&e.Warning,
			&e.Reason,
			&e.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		e.Type = audit.EventType(eventType)
		if sessionID != nil {
			e.SessionID = *sessionID
		}
		if siteID != nil {
			e.SiteID = *siteID
		}
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return events, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
