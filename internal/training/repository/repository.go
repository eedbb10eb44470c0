package repository

import (
	"context"
	"errors"
	"time"

	"squad-portal/backend/internal/training/domain"
)

// Sentinel errors for capacity-guarded signup creation.
var (
	// ErrDuplicateSignup means a signup already exists for the (session, member) pair.
	ErrDuplicateSignup = errors.New("signup already exists for training and member")
	// ErrSessionFull means the session has reached max_participants.
	ErrSessionFull = errors.New("training session is full")
	// ErrSessionNotFound means the session row vanished between the gate check
	// and the insert.
	ErrSessionNotFound = errors.New("training session not found")
)

// Repository defines persistence for training sessions and signups.
type Repository interface {
	GetSessionByID(ctx context.Context, id string) (*domain.Session, error)
	ListSessions(ctx context.Context, from time.Time) ([]*domain.Session, error)
	CreateSession(ctx context.Context, s *domain.Session) error

	// CreateSignup inserts the signup inside one transaction that locks the
	// session row and re-counts existing signups, so the capacity check and
	// the insert cannot interleave with a concurrent signup.
	CreateSignup(ctx context.Context, s *domain.Signup) error
	GetSignupByTrainingAndMember(ctx context.Context, trainingID, memberID string) (*domain.Signup, error)
	GetSignupByIDAndTraining(ctx context.Context, signupID, trainingID string) (*domain.Signup, error)
	CountSignupsByTraining(ctx context.Context, trainingID string) (int, error)
	// ConfirmPayment flips payment_confirmed for the signup iff it is currently
	// unconfirmed and belongs to the training. Returns false when no row matched.
	ConfirmPayment(ctx context.Context, signupID, trainingID, confirmedBy string, at time.Time) (bool, error)
}
