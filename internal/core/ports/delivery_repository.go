// Package ports defines the contracts between the delivery domain and
// infrastructure: repositories, the unit of work, and the outbound
// notification publisher. Adapters implement these interfaces, enabling
// dependency inversion and testability.
package ports

import (
	"context"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for the delivery
// snapshot. The snapshot is a materialized view of the event log; both are
// written inside the same UnitOfWork transaction.
type DeliveryRepository interface {
	// Add persists a new delivery snapshot.
	// The delivery must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery, guarded by the status
	// the caller read before mutating the aggregate. The write applies only
	// if the stored status still equals expectedStatus; a lost race returns
	// ConflictingUpdateError, an unknown id returns ObjectNotFoundError.
	// Callers that changed the status pass the Transition return value here.
	Update(ctx context.Context, aggregate *delivery.Delivery, expectedStatus delivery.Status) error

	// Get retrieves a delivery snapshot by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByOrder retrieves every delivery created for the given order,
	// oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*delivery.Delivery, error)

	// GetAllInStatus retrieves every delivery currently in the given status,
	// oldest first. Used by the operator views (failed and pending lists).
	GetAllInStatus(ctx context.Context, status delivery.Status) ([]*delivery.Delivery, error)
}
