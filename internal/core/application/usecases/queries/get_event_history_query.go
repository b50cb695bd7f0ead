package queries

import (
	"errors"
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/guard"
)

var ErrGetEventHistoryQueryIsNotConstructed = errors.New(
	"GetEventHistoryQuery must be created via NewGetEventHistoryQuery constructor",
)

// GetEventHistoryQuery retrieves a delivery's full audit stream in commit
// order: created_at ascending, ties broken by event id.
type GetEventHistoryQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetEventHistoryQuery creates a query for the given delivery's stream.
func NewGetEventHistoryQuery(deliveryID kernel.UUID) (GetEventHistoryQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetEventHistoryQuery{}, err
	}

	return GetEventHistoryQuery{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetEventHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetEventHistoryQueryIsNotConstructed)
}

// DeliveryID returns the delivery whose stream is requested.
func (q GetEventHistoryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// StateEventResponse is the read-side projection of one audit event.
type StateEventResponse struct {
	ID            kernel.UUID
	DeliveryID    kernel.UUID
	FromStatus    delivery.Status
	ToStatus      delivery.Status
	FailureReason delivery.FailureReason
	Source        string
	Description   string
	Metadata      string
	CreatedAt     time.Time
}
