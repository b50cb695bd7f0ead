package commands

import (
	"context"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/ports"
)

// ConfirmDeliveryCommandHandler handles customer confirmations by delegating
// to the transition engine: Delivered -> DeliveryConfirmed with
// source CUSTOMER. The usual edge rules apply, so confirming a delivery that
// was never delivered fails with IllegalTransitionError.
type ConfirmDeliveryCommandHandler struct {
	transitions RequestTransitionCommandHandler
}

// NewConfirmDeliveryCommandHandler creates a handler for customer confirmations.
func NewConfirmDeliveryCommandHandler(uowFactory DeliveryUoWFactory, publisher ports.TransitionPublisher) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		transitions: NewRequestTransitionCommandHandler(uowFactory, publisher),
	}
}

// Handle processes the confirmation and returns the updated delivery.
func (h *ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	transitionCmd, err := NewRequestTransitionCommand(
		cmd.DeliveryID(),
		delivery.DeliveryConfirmed,
		delivery.NoFailure,
		delivery.SourceCustomer,
		"customer confirmed receipt",
		"",
	)
	if err != nil {
		return nil, err
	}

	updated, _, err := h.transitions.Handle(ctx, transitionCmd)
	return updated, err
}
