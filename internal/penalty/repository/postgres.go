package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"squad-portal/backend/internal/penalty/domain"
)

const pointColumns = "id, member_id, points, reason, assigned_by, assigned_at, auto_remove_at, is_active"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a penalty point repository that uses the given db for persistence.
func NewPostgresRepository(database *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: database}
}

// Create persists the point. The point must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Point) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO penalty_point (id, member_id, points, reason, assigned_by, assigned_at, auto_remove_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.MemberID, p.Points, p.Reason, p.AssignedBy, p.AssignedAt, p.AutoRemoveAt, p.IsActive)
	if err != nil {
		return fmt.Errorf("insert penalty point: %w", err)
	}
	return nil
}

// GetByID returns the point for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Point, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+pointColumns+" FROM penalty_point WHERE id = $1", id)
	return scanPoint(row)
}

// ListActiveByMember returns active points for the member, most recently assigned first.
func (r *PostgresRepository) ListActiveByMember(ctx context.Context, memberID string) ([]*domain.Point, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pointColumns+` FROM penalty_point
		WHERE member_id = $1 AND is_active = TRUE
		ORDER BY assigned_at DESC, id
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("query penalty points: %w", err)
	}
	defer rows.Close()

	var out []*domain.Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountActiveByMember returns the number of active points rows for the member.
func (r *PostgresRepository) CountActiveByMember(ctx context.Context, memberID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM penalty_point WHERE member_id = $1 AND is_active = TRUE", memberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count penalty points: %w", err)
	}
	return count, nil
}

// Deactivate soft-removes the point, leaving value and reason untouched.
func (r *PostgresRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE penalty_point SET is_active = FALSE WHERE id = $1 AND is_active = TRUE", id)
	if err != nil {
		return false, fmt.Errorf("deactivate penalty point: %w", err)
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

func scanPoint(row rowScanner) (*domain.Point, error) {
	var p domain.Point
	var autoRemove sql.NullTime
	err := row.Scan(&p.ID, &p.MemberID, &p.Points, &p.Reason, &p.AssignedBy, &p.AssignedAt, &autoRemove, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan penalty point: %w", err)
	}
	if autoRemove.Valid {
		t := autoRemove.Time
		p.AutoRemoveAt = &t
	}
	return &p, nil
}
