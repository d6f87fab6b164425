package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// EventStore implements store.EventStore using PostgreSQL.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates a new PostgreSQL-backed event store.
func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

const eventColumns = `id, name, name_ci, starts_at, location, created_at, updated_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.NameCI, &e.StartsAt, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return &e, nil
}

// Create inserts the event.
func (s *EventStore) Create(ctx context.Context, e *models.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (id, name, name_ci, starts_at, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Name, e.NameCI, e.StartsAt, e.Location, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Get retrieves an event by ID.
func (s *EventStore) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

// Update rewrites the event.
func (s *EventStore) Update(ctx context.Context, e *models.Event) error {
	e.UpdatedAt = time.Now()
	result, err := s.pool.Exec(ctx, `
		UPDATE events SET name = $2, name_ci = $3, starts_at = $4, location = $5, updated_at = $6
		WHERE id = $1
	`, e.ID, e.Name, e.NameCI, e.StartsAt, e.Location, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrEventNotFound
	}
	return nil
}

// Delete removes the event; assignments go with it via cascade.
func (s *EventStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrEventNotFound
	}
	return nil
}

// List returns one page of events plus the total matching count, soonest
// first.
func (s *EventStore) List(ctx context.Context, f store.EventFilter) ([]*models.Event, int, error) {
	where := "TRUE"
	args := []any{}

	if f.Search != "" {
		args = append(args, searchPattern(f.Search))
		where += fmt.Sprintf(" AND name_ci LIKE $%d", len(args))
	}

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM events WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM events WHERE %s ORDER BY starts_at LIMIT $%d OFFSET $%d`,
		eventColumns, where, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read events: %w", err)
	}

	return events, total, nil
}

// Assign adds a volunteer assignment.
func (s *EventStore) Assign(ctx context.Context, a *models.VolunteerAssignment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO event_volunteers (id, event_id, member_id, task, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.EventID, a.MemberID, a.Task, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "event_volunteers_unique_task_key") {
			return store.ErrAlreadyAssigned
		}
		if c, ok := fkConstraint(err); ok {
			switch c {
			case "event_volunteers_event_id_fkey":
				return store.ErrEventNotFound
			case "event_volunteers_member_id_fkey":
				return store.ErrMemberNotFound
			}
		}
		return fmt.Errorf("failed to assign volunteer: %w", err)
	}
	return nil
}

// Unassign removes an assignment by ID.
func (s *EventStore) Unassign(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM event_volunteers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to unassign volunteer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrVolunteerNotFound
	}
	return nil
}

// Roster returns an event's assignments grouped by task.
func (s *EventStore) Roster(ctx context.Context, eventID uuid.UUID) ([]*models.VolunteerAssignment, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		return nil, store.ErrEventNotFound
	}

	return s.queryAssignments(ctx, `
		SELECT ev.id, ev.event_id, ev.member_id, ev.task, ev.created_at
		FROM event_volunteers ev
		JOIN members m ON m.id = ev.member_id
		WHERE ev.event_id = $1
		ORDER BY ev.task, m.full_name_ci
	`, eventID)
}

// MemberAssignments returns all assignments of one member, soonest event
// first.
func (s *EventStore) MemberAssignments(ctx context.Context, memberID uuid.UUID) ([]*models.VolunteerAssignment, error) {
	return s.queryAssignments(ctx, `
		SELECT ev.id, ev.event_id, ev.member_id, ev.task, ev.created_at
		FROM event_volunteers ev
		JOIN events e ON e.id = ev.event_id
		WHERE ev.member_id = $1
		ORDER BY e.starts_at
	`, memberID)
}

func (s *EventStore) queryAssignments(ctx context.Context, query string, arg any) ([]*models.VolunteerAssignment, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var out []*models.VolunteerAssignment
	for rows.Next() {
		var a models.VolunteerAssignment
		if err := rows.Scan(&a.ID, &a.EventID, &a.MemberID, &a.Task, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}

	return out, nil
}
