package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"squad-portal/backend/internal/audit"
	"squad-portal/backend/internal/notification"
	notifdomain "squad-portal/backend/internal/notification/domain"
	"squad-portal/backend/internal/penalty/domain"
	penaltyrepo "squad-portal/backend/internal/penalty/repository"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/platform/rbac"
	"squad-portal/backend/internal/role"
)

// Service implements the penalty point ledger. Entries are append-only;
// removal deactivates, so a member's full history stays readable.
type Service struct {
	points  penaltyrepo.Repository
	members rbac.MemberGetter
	emitter notification.Emitter
	auditor *audit.Logger
}

// NewService returns a penalty Service. emitter and auditor may be nil.
func NewService(points penaltyrepo.Repository, members rbac.MemberGetter, emitter notification.Emitter, auditor *audit.Logger) *Service {
	return &Service{points: points, members: members, emitter: emitter, auditor: auditor}
}

// AddPoints assesses penalty points against a member. Requires Board.
// autoRemoveAt is advisory; nothing here acts on it.
func (s *Service) AddPoints(ctx context.Context, memberID string, points int, reason string, autoRemoveAt *time.Time) (*domain.Point, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Board)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if points <= 0 {
		return nil, apperror.Validation("points must be positive")
	}
	if reason == "" {
		return nil, apperror.Validation("reason is required")
	}
	target, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if target == nil {
		return nil, apperror.NotFound("member not found")
	}
	p := &domain.Point{
		ID:           uuid.New().String(),
		MemberID:     memberID,
		Points:       points,
		Reason:       reason,
		AssignedBy:   actor.ID,
		AssignedAt:   time.Now().UTC(),
		AutoRemoveAt: autoRemoveAt,
		IsActive:     true,
	}
	if err := s.points.Create(ctx, p); err != nil {
		return nil, apperror.Internal(err)
	}
	notification.EmitAsync(s.emitter, notifdomain.New(
		notifdomain.KindPenaltyPointAdded, memberID, actor.ID, "penalty_point", p.ID, p))
	s.auditor.Log(ctx, actor.ID, "penalty.add", "member:"+memberID, fmt.Sprintf(`{"points":%d}`, points))
	return p, nil
}

// ActivePoints returns a member's active entries, most recent first, plus the
// total. Members may read their own ledger; reading another member's requires
// Supervisor.
func (s *Service) ActivePoints(ctx context.Context, memberID string) ([]*domain.Point, int, error) {
	actor, actorRole, err := rbac.ResolveActor(ctx, s.members)
	if err != nil {
		return nil, 0, err
	}
	if actor.ID != memberID && !actorRole.AtLeast(role.Supervisor) {
		return nil, 0, apperror.Forbidden("supervisor role required to view another member's points")
	}
	entries, err := s.points.ListActiveByMember(ctx, memberID)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	total := 0
	for _, p := range entries {
		total += p.Points
	}
	return entries, total, nil
}

// RemovePoint deactivates a penalty entry. Requires Board. A missing or
// already-inactive entry is NotFound; the row itself is never deleted.
func (s *Service) RemovePoint(ctx context.Context, pointID string) error {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Board)
	if err != nil {
		return err
	}
	p, err := s.points.GetByID(ctx, pointID)
	if err != nil {
		return apperror.Internal(err)
	}
	if p == nil || !p.IsActive {
		return apperror.NotFound("penalty point not found")
	}
	ok, err := s.points.Deactivate(ctx, pointID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.NotFound("penalty point not found")
	}
	notification.EmitAsync(s.emitter, notifdomain.New(
		notifdomain.KindPenaltyPointRemoved, p.MemberID, actor.ID, "penalty_point", pointID, nil))
	s.auditor.Log(ctx, actor.ID, "penalty.remove", "member:"+p.MemberID, `{"pointId":"`+pointID+`"}`)
	return nil
}
