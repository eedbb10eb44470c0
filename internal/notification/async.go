package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"squad-portal/backend/internal/notification/domain"
)

// emitTimeout is the max time allowed for a single async emit. Used by
// EmitAsync and by ShutdownDrainDuration.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long the server waits after HTTP shutdown so
// in-flight async emits have time to complete. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the workflow is
// not blocked on the broker. emitter and event may be nil; then EmitAsync
// returns without starting a goroutine.
//
// The goroutine uses context.Background() so request cancellation does not
// abort an in-flight emit.
func EmitAsync(emitter Emitter, event *domain.Event) {
	if emitter == nil || event == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(ctx, event); err != nil {
			log.Warn().Err(err).Str("kind", event.Kind).Msg("notification: async emit failed")
		}
	}()
}
