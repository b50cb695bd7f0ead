package queries

import (
	"errors"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/pkg/guard"
)

var ErrCountDeliveriesInStatusQueryIsNotConstructed = errors.New(
	"CountDeliveriesInStatusQuery must be created via NewCountDeliveriesInStatusQuery constructor",
)

// CountDeliveriesInStatusQuery counts deliveries currently in one status.
// The operator attention digest uses it to size the failed and pending
// backlogs without materializing the rows.
type CountDeliveriesInStatusQuery struct { //nolint:recvcheck //using for validation
	status delivery.Status

	guard guard.ConstructorGuard
}

// NewCountDeliveriesInStatusQuery creates a query for the given status.
func NewCountDeliveriesInStatusQuery(status delivery.Status) (CountDeliveriesInStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return CountDeliveriesInStatusQuery{}, err
	}

	return CountDeliveriesInStatusQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q CountDeliveriesInStatusQuery) Validate() error {
	return q.guard.Validate(ErrCountDeliveriesInStatusQueryIsNotConstructed)
}

// Status returns the requested lifecycle status.
func (q CountDeliveriesInStatusQuery) Status() delivery.Status {
	return q.status
}
