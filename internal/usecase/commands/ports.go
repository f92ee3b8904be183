package commands

import (
	"context"

	"stayhub/internal/domain/booking"

	"github.com/google/uuid"
)

// EventPublisher delivers domain events to the notification collaborator.
// Best-effort: failures are logged by implementations, never propagated into
// the booking transaction.
type EventPublisher interface {
	Publish(ctx context.Context, ev booking.Event)
}

// CreateDeduper is a fast-path duplicate check in front of the authoritative
// idempotency table. Implementations may lose state at any time.
type CreateDeduper interface {
	Seen(ctx context.Context, userID, key uuid.UUID) bool
	Mark(ctx context.Context, userID, key uuid.UUID)
}

// NopDeduper always misses; used where no cache is wired.
type NopDeduper struct{}

func (NopDeduper) Seen(context.Context, uuid.UUID, uuid.UUID) bool { return false }
func (NopDeduper) Mark(context.Context, uuid.UUID, uuid.UUID)      {}
