package commands

import (
	"context"
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/ports"
)

// RequestTransitionCommandHandler is the write path of the transition engine.
// It loads the snapshot, asks the aggregate to walk the requested edge, and
// commits the updated snapshot together with the new audit event as one
// atomic unit. The snapshot update is guarded by the status the handler read:
// when a concurrent transition wins the race, the commit is rejected with
// ConflictingUpdateError and nothing is applied, so the caller can re-read
// and retry against the post-update state.
//
// Notification fanout happens strictly after commit and never affects the
// outcome the caller sees.
type RequestTransitionCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.TransitionPublisher
}

// NewRequestTransitionCommandHandler creates a handler for transition requests.
func NewRequestTransitionCommandHandler(uowFactory DeliveryUoWFactory, publisher ports.TransitionPublisher) RequestTransitionCommandHandler {
	return RequestTransitionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes one transition request and returns the updated delivery
// together with the appended event.
func (h *RequestTransitionCommandHandler) Handle(ctx context.Context, cmd RequestTransitionCommand) (*delivery.Delivery, *delivery.StateEvent, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	aggregate, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, nil, err
	}

	from, err := aggregate.Transition(cmd.ToStatus(), cmd.FailureReason(), now)
	if err != nil {
		return nil, nil, err
	}

	event, err := delivery.NewStateEvent(
		kernel.NewUUID(),
		aggregate.ID(),
		from,
		cmd.ToStatus(),
		cmd.FailureReason(),
		cmd.Source(),
		cmd.Description(),
		cmd.Metadata(),
		now,
	)
	if err != nil {
		return nil, nil, err
	}

	if err = deliveryRepo.Update(ctx, aggregate, from); err != nil {
		return nil, nil, err
	}

	if err = uow.EventRepository().Add(ctx, event); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	h.publisher.Publish(ports.NotificationFromEvent(event))

	return aggregate, event, nil
}
