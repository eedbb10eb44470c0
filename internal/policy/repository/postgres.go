package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"squad-portal/backend/internal/policy/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a policy repository that uses the given db for persistence.
func NewPostgresRepository(database *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: database}
}

// GetEnabled returns the most recently created enabled policy, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetEnabled(ctx context.Context) (*domain.Policy, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, rules, enabled, created_at FROM eligibility_policy
		WHERE enabled = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`)
	var p domain.Policy
	err := row.Scan(&p.ID, &p.Rules, &p.Enabled, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan eligibility policy: %w", err)
	}
	return &p, nil
}

// Create persists the policy. The policy must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Policy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO eligibility_policy (id, rules, enabled, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Rules, p.Enabled, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert eligibility policy: %w", err)
	}
	return nil
}
