// Package gate decides whether a (member, event) or (member, training)
// pairing is structurally permitted at signup time: the target must exist,
// the member must not already hold a signup, and training sessions must have
// capacity left.
//
// The checks here read the store immediately before insertion but are still
// advisory under concurrency; the repositories close the window with a unique
// index on the pair and a capacity-guarded insert transaction.
package gate

import (
	"context"

	eventdomain "squad-portal/backend/internal/event/domain"
	"squad-portal/backend/internal/platform/apperror"
	trainingdomain "squad-portal/backend/internal/training/domain"
)

// EventStore is the minimal event persistence the gate needs.
type EventStore interface {
	GetEventByID(ctx context.Context, id string) (*eventdomain.Event, error)
	GetSignupByEventAndMember(ctx context.Context, eventID, memberID string) (*eventdomain.Signup, error)
}

// TrainingStore is the minimal training persistence the gate needs.
type TrainingStore interface {
	GetSessionByID(ctx context.Context, id string) (*trainingdomain.Session, error)
	GetSignupByTrainingAndMember(ctx context.Context, trainingID, memberID string) (*trainingdomain.Signup, error)
	CountSignupsByTraining(ctx context.Context, trainingID string) (int, error)
}

// CheckEventSignup validates existence and duplicate for an event signup and
// returns the event on success. Events have no capacity ceiling: scarcity is
// resolved by assignment off the waitlist, never by blocking signup.
func CheckEventSignup(ctx context.Context, store EventStore, eventID, memberID string) (*eventdomain.Event, error) {
	event, err := store.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if event == nil {
		return nil, apperror.NotFound("event not found")
	}
	existing, err := store.GetSignupByEventAndMember(ctx, eventID, memberID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("already signed up for this event")
	}
	return event, nil
}

// CheckTrainingSignup validates existence, duplicate, and capacity for a
// training signup and returns the session on success.
func CheckTrainingSignup(ctx context.Context, store TrainingStore, trainingID, memberID string) (*trainingdomain.Session, error) {
	session, err := store.GetSessionByID(ctx, trainingID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if session == nil {
		return nil, apperror.NotFound("training session not found")
	}
	existing, err := store.GetSignupByTrainingAndMember(ctx, trainingID, memberID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("already signed up for this training")
	}
	if session.MaxParticipants != nil {
		count, err := store.CountSignupsByTraining(ctx, trainingID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if count >= *session.MaxParticipants {
			return nil, apperror.Conflict("training session is full")
		}
	}
	return session, nil
}
