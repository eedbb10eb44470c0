// Package rbac resolves the acting member behind a request and enforces the
// minimum-role requirement privileged operations share. Every check fails
// closed: no identity, unknown member, or an out-of-range role all deny.
package rbac

import (
	"context"

	memberdomain "squad-portal/backend/internal/member/domain"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/role"
	"squad-portal/backend/internal/server/middleware"
)

// MemberGetter loads a member by id. Implemented by the member repository.
type MemberGetter interface {
	GetByID(ctx context.Context, id string) (*memberdomain.Member, error)
}

// ResolveActor loads the authenticated member from the request context and
// derives its role. Returns Unauthorized when there is no identity or the
// identity does not resolve to a member.
func ResolveActor(ctx context.Context, getter MemberGetter) (*memberdomain.Member, role.Role, error) {
	id, ok := middleware.MemberID(ctx)
	if !ok || id == "" {
		return nil, role.Public, apperror.Unauthorized("authentication required")
	}
	m, err := getter.GetByID(ctx, id)
	if err != nil {
		return nil, role.Public, apperror.Internal(err)
	}
	if m == nil {
		return nil, role.Public, apperror.Unauthorized("unknown member")
	}
	return m, role.Resolve(m), nil
}

// RequireRole resolves the actor and requires at least min. Returns Forbidden
// when the identity is known but the role is below the requirement.
func RequireRole(ctx context.Context, getter MemberGetter, min role.Role) (*memberdomain.Member, role.Role, error) {
	m, r, err := ResolveActor(ctx, getter)
	if err != nil {
		return nil, role.Public, err
	}
	if !r.AtLeast(min) {
		return nil, role.Public, apperror.Forbidden(min.String() + " role required")
	}
	return m, r, nil
}
