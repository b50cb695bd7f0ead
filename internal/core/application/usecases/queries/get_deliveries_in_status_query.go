package queries

import (
	"errors"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/pkg/guard"
)

var ErrGetDeliveriesInStatusQueryIsNotConstructed = errors.New(
	"GetDeliveriesInStatusQuery must be created via NewGetDeliveriesInStatusQuery constructor",
)

// GetDeliveriesInStatusQuery lists every delivery currently in one status.
// The operator views are built on it: the failed list
// (status DELIVERY_FAILED) and the pending list (status PENDING_BY_OPERATOR).
type GetDeliveriesInStatusQuery struct { //nolint:recvcheck //using for validation
	status delivery.Status

	guard guard.ConstructorGuard
}

// NewGetDeliveriesInStatusQuery creates a query for the given status.
func NewGetDeliveriesInStatusQuery(status delivery.Status) (GetDeliveriesInStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return GetDeliveriesInStatusQuery{}, err
	}

	return GetDeliveriesInStatusQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveriesInStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveriesInStatusQueryIsNotConstructed)
}

// Status returns the requested lifecycle status.
func (q GetDeliveriesInStatusQuery) Status() delivery.Status {
	return q.status
}
