package commands

import (
	"context"
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/ports"
)

// CreateDeliveryCommandHandler handles delivery registration. Creating a
// delivery and appending its creation event happen in one transaction: no
// delivery exists without the first entry of its audit stream.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.TransitionPublisher
}

// NewCreateDeliveryCommandHandler creates a handler for delivery registration.
// Requires a DeliveryUoWFactory for transactional persistence and a publisher
// for post-commit notification fanout.
func NewCreateDeliveryCommandHandler(uowFactory DeliveryUoWFactory, publisher ports.TransitionPublisher) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the delivery creation command.
// Persists the snapshot in Created status together with the system-sourced
// creation event and publishes the committed event to subscribers.
// Returns the created delivery.
func (h *CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	aggregate, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.OrderID(),
		cmd.CustomerAddressID(),
		cmd.EstimatedDeliveryTime(),
		now,
	)
	if err != nil {
		return nil, err
	}

	event, err := delivery.NewCreationEvent(kernel.NewUUID(), aggregate.ID(), now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.EventRepository().Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ports.NotificationFromEvent(event))

	return aggregate, nil
}
