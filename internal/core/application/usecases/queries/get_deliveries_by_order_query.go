package queries

import (
	"errors"

	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/guard"
)

var ErrGetDeliveriesByOrderQueryIsNotConstructed = errors.New(
	"GetDeliveriesByOrderQuery must be created via NewGetDeliveriesByOrderQuery constructor",
)

// GetDeliveriesByOrderQuery retrieves every delivery created for one order,
// oldest first. An order accumulates multiple deliveries when attempts are
// restarted after address corrections.
type GetDeliveriesByOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveriesByOrderQuery creates a query for the given order.
func NewGetDeliveriesByOrderQuery(orderID kernel.UUID) (GetDeliveriesByOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDeliveriesByOrderQuery{}, err
	}

	return GetDeliveriesByOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveriesByOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveriesByOrderQueryIsNotConstructed)
}

// OrderID returns the order whose deliveries are requested.
func (q GetDeliveriesByOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
