package commands

import (
	"errors"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/domain/services"
	"deliverystate/internal/pkg/guard"
)

var ErrPerformOperatorActionCommandIsNotConstructed = errors.New(
	"PerformOperatorActionCommand must be created via NewPerformOperatorActionCommand constructor",
)

// PerformOperatorActionCommand represents an operator intervention on a
// delivery: retry, cancel, address correction, or a contact-customer note.
// The failure reason is only meaningful for CANCEL_DELIVERY and the new
// address id only for UPDATE_ADDRESS; the translator rejects mismatches.
type PerformOperatorActionCommand struct { //nolint:recvcheck //using for validation
	deliveryID    kernel.UUID
	action        services.Action
	operatorID    kernel.UUID
	notes         string
	failureReason delivery.FailureReason
	newAddressID  *kernel.UUID

	guard guard.ConstructorGuard
}

// NewPerformOperatorActionCommand creates an operator action command.
// Notes, failure reason, and new address id are optional at this level.
func NewPerformOperatorActionCommand(
	deliveryID kernel.UUID,
	action services.Action,
	operatorID kernel.UUID,
	notes string,
	failureReason delivery.FailureReason,
	newAddressID *kernel.UUID,
) (PerformOperatorActionCommand, error) {
	cmd := PerformOperatorActionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setAction(action),
		cmd.setOperatorID(operatorID),
		cmd.setFailureReason(failureReason),
	); err != nil {
		return PerformOperatorActionCommand{}, err
	}

	cmd.notes = notes
	cmd.newAddressID = newAddressID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PerformOperatorActionCommand) Validate() error {
	return c.guard.Validate(ErrPerformOperatorActionCommandIsNotConstructed)
}

// DeliveryID returns the target delivery's identifier.
func (c PerformOperatorActionCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Action returns the requested operator action.
func (c PerformOperatorActionCommand) Action() services.Action {
	return c.action
}

// OperatorID returns the acting operator's identifier.
func (c PerformOperatorActionCommand) OperatorID() kernel.UUID {
	return c.operatorID
}

// Notes returns the operator's note, possibly empty.
func (c PerformOperatorActionCommand) Notes() string {
	return c.notes
}

// FailureReason returns the reason for CANCEL_DELIVERY, NoFailure otherwise.
func (c PerformOperatorActionCommand) FailureReason() delivery.FailureReason {
	return c.failureReason
}

// NewAddressID returns the replacement address for UPDATE_ADDRESS, or nil.
func (c PerformOperatorActionCommand) NewAddressID() *kernel.UUID {
	return c.newAddressID
}

func (c *PerformOperatorActionCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.deliveryID = id
	return nil
}

func (c *PerformOperatorActionCommand) setAction(action services.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}

	c.action = action
	return nil
}

func (c *PerformOperatorActionCommand) setOperatorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.operatorID = id
	return nil
}

func (c *PerformOperatorActionCommand) setFailureReason(reason delivery.FailureReason) error {
	if err := reason.Validate(); err != nil {
		return err
	}

	c.failureReason = reason
	return nil
}
