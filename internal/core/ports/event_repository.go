package ports

import (
	"context"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
)

// EventRepository defines the persistence contract for the append-only state
// event log. Events are never updated or deleted; the log is the source of
// truth and the delivery snapshot is derived from it.
type EventRepository interface {
	// Add appends a state event to the delivery's stream.
	Add(ctx context.Context, event *delivery.StateEvent) error

	// ListByDelivery retrieves the delivery's full event stream ordered by
	// creation time, ties broken by event id (insertion order).
	ListByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.StateEvent, error)
}
