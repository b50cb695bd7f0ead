package commands

import (
	"errors"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/errs"
	"deliverystate/internal/pkg/guard"
)

var ErrRequestTransitionCommandIsNotConstructed = errors.New(
	"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
)

// RequestTransitionCommand represents a request to move a delivery along one
// lifecycle edge. The failure reason must accompany transitions into
// DeliveryFailed and only those; source identifies who asked (SYSTEM,
// CUSTOMER, OPERATOR:<id>, a carrier integration, ...).
//
// Example:
//
//	cmd, err := NewRequestTransitionCommand(
//	    deliveryID, delivery.PickedUp, delivery.NoFailure,
//	    delivery.SourceSystem, "carrier scan", "")
//	if err != nil {
//	    return err
//	}
//
//	handler := NewRequestTransitionCommandHandler(uowFactory, publisher)
//	updated, event, err := handler.Handle(ctx, cmd)
type RequestTransitionCommand struct { //nolint:recvcheck //using for validation
	deliveryID    kernel.UUID
	toStatus      delivery.Status
	failureReason delivery.FailureReason
	source        string
	description   string
	metadata      string

	guard guard.ConstructorGuard
}

// NewRequestTransitionCommand creates a transition request. Validates the
// identifiers and enum values and requires a non-empty source; the
// reason-presence rule and the edge itself are the aggregate's to enforce.
func NewRequestTransitionCommand(
	deliveryID kernel.UUID,
	toStatus delivery.Status,
	failureReason delivery.FailureReason,
	source string,
	description string,
	metadata string,
) (RequestTransitionCommand, error) {
	cmd := RequestTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setToStatus(toStatus),
		cmd.setFailureReason(failureReason),
		cmd.setSource(source),
	); err != nil {
		return RequestTransitionCommand{}, err
	}

	cmd.description = description
	cmd.metadata = metadata
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

// DeliveryID returns the target delivery's identifier.
func (c RequestTransitionCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// ToStatus returns the requested target status.
func (c RequestTransitionCommand) ToStatus() delivery.Status {
	return c.toStatus
}

// FailureReason returns the supplied reason, NoFailure when absent.
func (c RequestTransitionCommand) FailureReason() delivery.FailureReason {
	return c.failureReason
}

// Source returns the origin tag recorded on the audit event.
func (c RequestTransitionCommand) Source() string {
	return c.source
}

// Description returns the optional free-form context.
func (c RequestTransitionCommand) Description() string {
	return c.description
}

// Metadata returns the optional structured context, opaque to the engine.
func (c RequestTransitionCommand) Metadata() string {
	return c.metadata
}

func (c *RequestTransitionCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.deliveryID = id
	return nil
}

func (c *RequestTransitionCommand) setToStatus(toStatus delivery.Status) error {
	if err := toStatus.Validate(); err != nil {
		return err
	}

	c.toStatus = toStatus
	return nil
}

func (c *RequestTransitionCommand) setFailureReason(reason delivery.FailureReason) error {
	if err := reason.Validate(); err != nil {
		return err
	}

	c.failureReason = reason
	return nil
}

func (c *RequestTransitionCommand) setSource(source string) error {
	if source == "" {
		return errs.NewValueIsRequiredError("source")
	}

	c.source = source
	return nil
}
