package commands

import (
	"errors"

	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/errs"
	"deliverystate/internal/pkg/guard"
)

var ErrAssignDeliveryNumberCommandIsNotConstructed = errors.New(
	"AssignDeliveryNumberCommand must be created via NewAssignDeliveryNumberCommand constructor",
)

// AssignDeliveryNumberCommand represents attaching an external tracking code
// to a delivery. The code changes no lifecycle state, so no audit event is
// produced; uniqueness across deliveries is enforced by the store.
type AssignDeliveryNumberCommand struct { //nolint:recvcheck //using for validation
	deliveryID     kernel.UUID
	deliveryNumber string

	guard guard.ConstructorGuard
}

// NewAssignDeliveryNumberCommand creates a command attaching the tracking code.
func NewAssignDeliveryNumberCommand(deliveryID kernel.UUID, deliveryNumber string) (AssignDeliveryNumberCommand, error) {
	cmd := AssignDeliveryNumberCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setDeliveryNumber(deliveryNumber),
	); err != nil {
		return AssignDeliveryNumberCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryNumberCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryNumberCommandIsNotConstructed)
}

// DeliveryID returns the target delivery's identifier.
func (c AssignDeliveryNumberCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// DeliveryNumber returns the external tracking code.
func (c AssignDeliveryNumberCommand) DeliveryNumber() string {
	return c.deliveryNumber
}

func (c *AssignDeliveryNumberCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.deliveryID = id
	return nil
}

func (c *AssignDeliveryNumberCommand) setDeliveryNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("deliveryNumber")
	}

	c.deliveryNumber = number
	return nil
}
