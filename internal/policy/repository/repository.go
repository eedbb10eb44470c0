package repository

import (
	"context"

	"squad-portal/backend/internal/policy/domain"
)

// Repository defines persistence for eligibility policies.
type Repository interface {
	// GetEnabled returns the most recently created enabled policy, or nil
	// when none is configured (callers fall back to the built-in default).
	GetEnabled(ctx context.Context) (*domain.Policy, error)
	Create(ctx context.Context, p *domain.Policy) error
}
