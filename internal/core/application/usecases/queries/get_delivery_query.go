// Package queries contains read-only operations over the delivery store.
// Query handlers bypass the domain aggregates and read projections straight
// from the database, following the CQRS split: commands go through the
// transition engine, queries do not.
package queries

import (
	"errors"
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery retrieves one delivery snapshot by identifier.
//
// Example:
//
//	query, err := NewGetDeliveryQuery(deliveryID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetDeliveryQueryHandler(db)
//	snapshot, err := handler.Handle(ctx, query)
type GetDeliveryQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a query for the given delivery.
func NewGetDeliveryQuery(deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetDeliveryQuery{}, err
	}

	return GetDeliveryQuery{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryID returns the requested delivery's identifier.
func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// DeliveryResponse is the read-side projection of a delivery snapshot,
// shared by every query that returns deliveries.
type DeliveryResponse struct {
	ID                    kernel.UUID
	OrderID               kernel.UUID
	CustomerAddressID     kernel.UUID
	DeliveryNumber        string
	Status                delivery.Status
	FailureReason         delivery.FailureReason
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	OperatorID            *kernel.UUID
	OperatorNotes         string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
