package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"squad-portal/backend/internal/notification/domain"
)

type recordingEmitter struct {
	ch  chan *domain.Event
	err error
}

func (e *recordingEmitter) Emit(_ context.Context, event *domain.Event) error {
	e.ch <- event
	return e.err
}

func TestEmitAsyncDeliversEvent(t *testing.T) {
	emitter := &recordingEmitter{ch: make(chan *domain.Event, 1)}
	event := domain.New(domain.KindEventSignupCreated, "m1", "", "event", "ev1", nil)

	EmitAsync(emitter, event)

	select {
	case got := <-emitter.ch:
		if got.ID != event.ID {
			t.Errorf("delivered event id = %q, want %q", got.ID, event.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async emit")
	}
}

func TestEmitAsyncNilSafe(t *testing.T) {
	// Must not panic or spawn anything.
	EmitAsync(nil, domain.New(domain.KindPenaltyPointAdded, "m1", "", "penalty_point", "p1", nil))
	EmitAsync(&recordingEmitter{ch: make(chan *domain.Event, 1)}, nil)
}

func TestEmitAsyncSwallowsEmitterError(t *testing.T) {
	emitter := &recordingEmitter{ch: make(chan *domain.Event, 1), err: errors.New("broker down")}
	EmitAsync(emitter, domain.New(domain.KindEventSignupAssigned, "m1", "board", "event", "ev1", nil))

	select {
	case <-emitter.ch:
		// Emit was attempted; the error is logged, not propagated.
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async emit")
	}
}

func TestEventNew(t *testing.T) {
	payload := map[string]string{"positionType": "driver"}
	e := domain.New(domain.KindEventSignupCreated, "m1", "actor", "event", "ev1", payload)

	if e.ID == "" {
		t.Error("ID should be generated")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}
	if len(e.Payload) == 0 {
		t.Error("payload should be marshalled")
	}

	noPayload := domain.New(domain.KindPenaltyPointRemoved, "m1", "actor", "penalty_point", "p1", nil)
	if noPayload.Payload != nil {
		t.Error("nil payload should stay nil")
	}
}
