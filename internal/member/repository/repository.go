package repository

import (
	"context"

	"squad-portal/backend/internal/member/domain"
)

// Repository defines persistence for members.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	Create(ctx context.Context, m *domain.Member) error
	List(ctx context.Context) ([]*domain.Member, error)
	SetAccountStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.Member, error)
	SetPositionWeb(ctx context.Context, id string, position int) (*domain.Member, error)
	SetDuesPaid(ctx context.Context, id string, paid bool) (*domain.Member, error)
}
