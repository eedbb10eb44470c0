package service

import (
	"context"
	"fmt"

	"squad-portal/backend/internal/audit"
	"squad-portal/backend/internal/member/domain"
	memberrepo "squad-portal/backend/internal/member/repository"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/platform/rbac"
	"squad-portal/backend/internal/role"
)

// Profile is a member plus its derived role, for display.
type Profile struct {
	Member *domain.Member
	Role   role.Role
}

// Service implements member self-service and administration. Accounts are
// administered, never deleted: activation, position, and dues are the only
// mutable fields.
type Service struct {
	members memberrepo.Repository
	auditor *audit.Logger
}

// NewService returns a member Service.
func NewService(members memberrepo.Repository, auditor *audit.Logger) *Service {
	return &Service{members: members, auditor: auditor}
}

// Me returns the acting member's own profile with derived role.
func (s *Service) Me(ctx context.Context) (*Profile, error) {
	m, r, err := rbac.ResolveActor(ctx, s.members)
	if err != nil {
		return nil, err
	}
	return &Profile{Member: m, Role: r}, nil
}

// List returns all members with derived roles. Requires Board.
func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	if _, _, err := rbac.RequireRole(ctx, s.members, role.Board); err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]*Profile, 0, len(members))
	for _, m := range members {
		out = append(out, &Profile{Member: m, Role: role.Resolve(m)})
	}
	return out, nil
}

// Activate flips a pending account to active. Requires Admin. Activating an
// already-active account is a no-op, not an error.
func (s *Service) Activate(ctx context.Context, memberID string) (*domain.Member, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Admin)
	if err != nil {
		return nil, err
	}
	m, err := s.members.SetAccountStatus(ctx, memberID, domain.StatusActive)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if m == nil {
		return nil, apperror.NotFound("member not found")
	}
	s.auditor.Log(ctx, actor.ID, "member.activate", "member:"+memberID, "")
	return m, nil
}

// SetPosition sets a member's position code. Requires Admin.
func (s *Service) SetPosition(ctx context.Context, memberID string, position int) (*domain.Member, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Admin)
	if err != nil {
		return nil, err
	}
	if position < domain.PositionAdmin || position > domain.PositionMember {
		return nil, apperror.Validation("position must be between 0 and 3")
	}
	m, err := s.members.SetPositionWeb(ctx, memberID, position)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if m == nil {
		return nil, apperror.NotFound("member not found")
	}
	s.auditor.Log(ctx, actor.ID, "member.set_position", "member:"+memberID, fmt.Sprintf(`{"position":%d}`, position))
	return m, nil
}

// SetDuesPaid records whether the member's dues are paid. Requires Admin.
func (s *Service) SetDuesPaid(ctx context.Context, memberID string, paid bool) (*domain.Member, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Admin)
	if err != nil {
		return nil, err
	}
	m, err := s.members.SetDuesPaid(ctx, memberID, paid)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if m == nil {
		return nil, apperror.NotFound("member not found")
	}
	s.auditor.Log(ctx, actor.ID, "member.set_dues_paid", "member:"+memberID, fmt.Sprintf(`{"paid":%t}`, paid))
	return m, nil
}
