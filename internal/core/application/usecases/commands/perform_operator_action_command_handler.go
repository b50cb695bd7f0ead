package commands

import (
	"context"
	"fmt"
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/domain/services"
	"deliverystate/internal/core/ports"
)

// OperatorActionResult reports what an operator action did: the delivery's
// state after the action and the audit events it produced. Events is empty
// for CONTACT_CUSTOMER and holds two entries when an address reset routed
// through PendingByOperator.
type OperatorActionResult struct {
	Delivery *delivery.Delivery
	Action   services.Action
	Events   []*delivery.StateEvent
}

// PerformOperatorActionCommandHandler executes operator interventions. The
// operator stamp and note append happen on every successful action; the
// translator's plan decides whether any lifecycle edge is walked. All of it
// (stamp, address change, every transition step, every audit event) commits
// as one unit guarded by the status the handler read, so a racing transition
// rejects the whole action.
type PerformOperatorActionCommandHandler struct {
	uowFactory DeliveryUoWFactory
	translator services.OperatorActionTranslator
	publisher  ports.TransitionPublisher
}

// NewPerformOperatorActionCommandHandler creates a handler for operator actions.
func NewPerformOperatorActionCommandHandler(
	uowFactory DeliveryUoWFactory,
	translator services.OperatorActionTranslator,
	publisher ports.TransitionPublisher,
) PerformOperatorActionCommandHandler {
	return PerformOperatorActionCommandHandler{
		uowFactory: uowFactory,
		translator: translator,
		publisher:  publisher,
	}
}

// Handle processes one operator action and returns what it did.
func (h *PerformOperatorActionCommandHandler) Handle(ctx context.Context, cmd PerformOperatorActionCommand) (OperatorActionResult, error) {
	if err := cmd.Validate(); err != nil {
		return OperatorActionResult{}, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OperatorActionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	aggregate, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return OperatorActionResult{}, err
	}

	statusBefore := aggregate.Status()

	plan, err := h.translator.Translate(aggregate, cmd.Action(), cmd.FailureReason(), cmd.NewAddressID())
	if err != nil {
		return OperatorActionResult{}, err
	}

	if err = aggregate.StampOperator(cmd.OperatorID(), cmd.Notes(), now); err != nil {
		return OperatorActionResult{}, err
	}

	if plan.NewAddressID != nil {
		if err = aggregate.ChangeCustomerAddress(*plan.NewAddressID, now); err != nil {
			return OperatorActionResult{}, err
		}
	}

	source := delivery.OperatorSource(cmd.OperatorID())
	description := fmt.Sprintf("operator action %s", cmd.Action())

	events := make([]*delivery.StateEvent, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		from, stepErr := aggregate.Transition(step.To, step.Reason, now)
		if stepErr != nil {
			return OperatorActionResult{}, stepErr
		}

		event, stepErr := delivery.NewStateEvent(
			kernel.NewUUID(),
			aggregate.ID(),
			from,
			step.To,
			step.Reason,
			source,
			description,
			"",
			now,
		)
		if stepErr != nil {
			return OperatorActionResult{}, stepErr
		}

		events = append(events, event)
	}

	if err = deliveryRepo.Update(ctx, aggregate, statusBefore); err != nil {
		return OperatorActionResult{}, err
	}

	eventRepo := uow.EventRepository()
	for _, event := range events {
		if err = eventRepo.Add(ctx, event); err != nil {
			return OperatorActionResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return OperatorActionResult{}, err
	}

	for _, event := range events {
		h.publisher.Publish(ports.NotificationFromEvent(event))
	}

	return OperatorActionResult{
		Delivery: aggregate,
		Action:   cmd.Action(),
		Events:   events,
	}, nil
}
