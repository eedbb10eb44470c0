// Package producer writes notification events to the dispatch bus (Kafka).
package producer

import (
	"context"

	"squad-portal/backend/internal/notification/domain"
)

// Producer emits notification events to the bus. Callers use it best-effort:
// log and ignore errors.
type Producer interface {
	Emit(ctx context.Context, event *domain.Event) error
	// Close releases resources (e.g. the Kafka writer). Safe to call if
	// already closed.
	Close() error
}
