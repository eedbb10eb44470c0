package repository

import (
	"context"

	"squad-portal/backend/internal/audit/domain"
)

// Repository defines persistence for audit entries.
type Repository interface {
	Create(ctx context.Context, e *domain.Entry) error
	ListByActor(ctx context.Context, actorID string, limit, offset int32) ([]*domain.Entry, error)
}
