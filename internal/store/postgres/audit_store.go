package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openparish/steward/internal/store"
)

// AuditStore implements store.AuditStore using PostgreSQL. Details maps
// ride in a JSONB column; pgx encodes them directly.
type AuditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore creates a new PostgreSQL-backed audit store.
func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

// Log appends one event.
func (s *AuditStore) Log(ctx context.Context, e store.AuditEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events (
			id, ts, category, event_type, actor_id, target_id,
			ip, user_agent, success, failure_reason, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		e.ID, e.Timestamp, e.Category, e.EventType, e.ActorID, e.TargetID,
		e.IP, e.UserAgent, e.Success, e.FailureReason, e.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}
	return nil
}

// Query returns one page, newest first, plus the total matching count.
func (s *AuditStore) Query(ctx context.Context, f store.AuditFilter) ([]*store.AuditEvent, int, error) {
	where := "TRUE"
	args := []any{}

	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.EventType != "" {
		args = append(args, f.EventType)
		where += fmt.Sprintf(" AND event_type = $%d", len(args))
	}
	if f.ActorID != nil {
		args = append(args, *f.ActorID)
		where += fmt.Sprintf(" AND actor_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND ts >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND ts <= $%d", len(args))
	}

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM audit_events WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT id, ts, category, event_type, actor_id, target_id,
			ip, user_agent, success, failure_reason, details
		FROM audit_events
		WHERE %s
		ORDER BY ts DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []*store.AuditEvent
	for rows.Next() {
		var e store.AuditEvent
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Category, &e.EventType, &e.ActorID,
			&e.TargetID, &e.IP, &e.UserAgent, &e.Success, &e.FailureReason,
			&e.Details,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read audit events: %w", err)
	}

	return events, total, nil
}
