package repository

import (
	"context"
	"errors"
	"time"

	"squad-portal/backend/internal/event/domain"
)

// ErrDuplicateSignup is returned by CreateSignup when a signup already exists
// for the (event, member) pair. Backed by a unique index, so concurrent
// signups cannot both succeed.
var ErrDuplicateSignup = errors.New("signup already exists for event and member")

// Repository defines persistence for events and event signups.
type Repository interface {
	GetEventByID(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context, from time.Time) ([]*domain.Event, error)
	CreateEvent(ctx context.Context, e *domain.Event) error

	CreateSignup(ctx context.Context, s *domain.Signup) error
	GetSignupByEventAndMember(ctx context.Context, eventID, memberID string) (*domain.Signup, error)
	GetSignupByIDAndEvent(ctx context.Context, signupID, eventID string) (*domain.Signup, error)
	ListUnassignedByEvent(ctx context.Context, eventID string) ([]*domain.Signup, error)
	// MarkAssigned flips is_assigned for the signup iff it is currently
	// unassigned and belongs to the event. Returns false when no row matched,
	// either because the pair does not exist or the signup is already assigned.
	MarkAssigned(ctx context.Context, signupID, eventID, assignedBy string, at time.Time) (bool, error)
}
