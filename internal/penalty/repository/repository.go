package repository

import (
	"context"

	"squad-portal/backend/internal/penalty/domain"
)

// Repository defines persistence for penalty points.
type Repository interface {
	Create(ctx context.Context, p *domain.Point) error
	GetByID(ctx context.Context, id string) (*domain.Point, error)
	// ListActiveByMember returns active points, most recently assigned first.
	ListActiveByMember(ctx context.Context, memberID string) ([]*domain.Point, error)
	CountActiveByMember(ctx context.Context, memberID string) (int, error)
	// Deactivate soft-removes the point. Returns false when no active row matched.
	Deactivate(ctx context.Context, id string) (bool, error)
}
