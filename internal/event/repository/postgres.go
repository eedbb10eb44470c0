package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"squad-portal/backend/internal/db"
	"squad-portal/backend/internal/event/domain"
)

const eventColumns = "id, title, location, starts_at, ends_at, created_by, created_at"
const signupColumns = "id, event_id, member_id, position_type, signed_up_at, is_assigned, assigned_by, assigned_at"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an event repository that uses the given db for persistence.
func NewPostgresRepository(database *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: database}
}

// GetEventByID returns the event for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM event WHERE id = $1", id)
	return scanEvent(row)
}

// ListEvents returns events starting at or after from, soonest first.
func (r *PostgresRepository) ListEvents(ctx context.Context, from time.Time) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM event WHERE starts_at >= $1 ORDER BY starts_at, id", from)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateEvent persists the event. The event must have ID set.
func (r *PostgresRepository) CreateEvent(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event (id, title, location, starts_at, ends_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Title, e.Location, e.StartsAt, e.EndsAt, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// CreateSignup persists the signup. Returns ErrDuplicateSignup when a row for
// the (event, member) pair already exists; the unique index makes this safe
// under concurrent requests.
func (r *PostgresRepository) CreateSignup(ctx context.Context, s *domain.Signup) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_signup (id, event_id, member_id, position_type, signed_up_at, is_assigned)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, s.ID, s.EventID, s.MemberID, nullIfEmpty(s.PositionType), s.SignedUpAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateSignup
		}
		return fmt.Errorf("insert event signup: %w", err)
	}
	return nil
}

// GetSignupByEventAndMember returns the signup for the pair, or nil if not found.
func (r *PostgresRepository) GetSignupByEventAndMember(ctx context.Context, eventID, memberID string) (*domain.Signup, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+signupColumns+" FROM event_signup WHERE event_id = $1 AND member_id = $2", eventID, memberID)
	return scanSignup(row)
}

// GetSignupByIDAndEvent returns the signup matching both id and event, or nil
// if the pair does not match a row.
func (r *PostgresRepository) GetSignupByIDAndEvent(ctx context.Context, signupID, eventID string) (*domain.Signup, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+signupColumns+" FROM event_signup WHERE id = $1 AND event_id = $2", signupID, eventID)
	return scanSignup(row)
}

// ListUnassignedByEvent returns unassigned signups for the event in signup
// order (ascending signed_up_at), which is the waitlist ordering.
func (r *PostgresRepository) ListUnassignedByEvent(ctx context.Context, eventID string) ([]*domain.Signup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+signupColumns+` FROM event_signup
		WHERE event_id = $1 AND is_assigned = FALSE
		ORDER BY signed_up_at, id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query event signups: %w", err)
	}
	defer rows.Close()

	var out []*domain.Signup
	for rows.Next() {
		s, err := scanSignup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkAssigned flips is_assigned exactly once. The is_assigned = FALSE guard
// in the WHERE clause is what makes assignment monotonic under concurrency.
func (r *PostgresRepository) MarkAssigned(ctx context.Context, signupID, eventID, assignedBy string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE event_signup
		SET is_assigned = TRUE, assigned_by = $3, assigned_at = $4
		WHERE id = $1 AND event_id = $2 AND is_assigned = FALSE
	`, signupID, eventID, assignedBy, at)
	if err != nil {
		return false, fmt.Errorf("assign event signup: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Title, &e.Location, &e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

func scanSignup(row rowScanner) (*domain.Signup, error) {
	var s domain.Signup
	var position sql.NullString
	var assignedBy sql.NullString
	var assignedAt sql.NullTime
	err := row.Scan(&s.ID, &s.EventID, &s.MemberID, &position, &s.SignedUpAt, &s.IsAssigned, &assignedBy, &assignedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan event signup: %w", err)
	}
	s.PositionType = position.String
	if assignedBy.Valid {
		s.AssignedBy = &assignedBy.String
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		s.AssignedAt = &t
	}
	return &s, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
