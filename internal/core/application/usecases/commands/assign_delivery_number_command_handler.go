package commands

import (
	"context"
	"time"

	"deliverystate/internal/core/domain/model/delivery"
)

// AssignDeliveryNumberCommandHandler attaches tracking codes to deliveries.
// The write still goes through the status-guarded update so a concurrent
// transition is not silently overwritten.
type AssignDeliveryNumberCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewAssignDeliveryNumberCommandHandler creates a handler for tracking code
// assignment.
func NewAssignDeliveryNumberCommandHandler(uowFactory DeliveryUoWFactory) AssignDeliveryNumberCommandHandler {
	return AssignDeliveryNumberCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the assignment and returns the updated delivery.
func (h *AssignDeliveryNumberCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryNumberCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	aggregate, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.SetDeliveryNumber(cmd.DeliveryNumber(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = deliveryRepo.Update(ctx, aggregate, aggregate.Status()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
