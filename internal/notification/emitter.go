// Package notification carries workflow transition events to the outbound
// dispatch boundary. Workflows emit; delivery happens elsewhere (the Kafka
// worker), so the engine stays testable without network I/O.
package notification

import (
	"context"

	"squad-portal/backend/internal/notification/domain"
)

// Emitter emits notification events. Best-effort: callers log and ignore
// errors, a failed emit never fails the workflow transition that produced it.
type Emitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}
