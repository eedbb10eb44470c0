package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Transition kinds the workflows emit. The dispatch worker fans these out;
// the engine only decides that a notification should fire and with what
// payload.
const (
	KindEventSignupCreated       = "event_signup_created"
	KindEventSignupAssigned      = "event_signup_assigned"
	KindTrainingSignupCreated    = "training_signup_created"
	KindTrainingPaymentConfirmed = "training_payment_confirmed"
	KindPenaltyPointAdded        = "penalty_point_added"
	KindPenaltyPointRemoved      = "penalty_point_removed"
)

// Event is one outbound notification, tagged by transition kind. MemberID is
// the member the notification concerns; ActorID is who triggered the
// transition (empty when they are the same).
type Event struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	MemberID   string          `json:"memberId"`
	ActorID    string          `json:"actorId,omitempty"`
	Resource   string          `json:"resource"`
	ResourceID string          `json:"resourceId"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// New builds an Event with a fresh id and timestamp. payload may be nil; a
// non-nil payload is JSON-marshalled, and a marshal failure drops the payload
// rather than the event.
func New(kind, memberID, actorID, resource, resourceID string, payload any) *Event {
	e := &Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		MemberID:   memberID,
		ActorID:    actorID,
		Resource:   resource,
		ResourceID: resourceID,
		CreatedAt:  time.Now().UTC(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			e.Payload = raw
		}
	}
	return e
}
