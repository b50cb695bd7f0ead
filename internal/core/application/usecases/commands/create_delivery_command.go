package commands

import (
	"errors"
	"time"

	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand represents a request to register a new delivery for an
// order. The delivery starts in Created status with a synthetic creation event
// opening its audit stream.
//
// Example:
//
//	cmd, err := NewCreateDeliveryCommand(kernel.NewUUID(), orderID, addressID, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
//
//	handler := NewCreateDeliveryCommandHandler(uowFactory, publisher)
//	created, err := handler.Handle(ctx, cmd)
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID            kernel.UUID
	orderID               kernel.UUID
	customerAddressID     kernel.UUID
	estimatedDeliveryTime *time.Time

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to register a new delivery.
// The estimated delivery time is optional; all identifiers must be valid.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	orderID kernel.UUID,
	customerAddressID kernel.UUID,
	estimatedDeliveryTime *time.Time,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setOrderID(orderID),
		cmd.setCustomerAddressID(customerAddressID),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	cmd.estimatedDeliveryTime = estimatedDeliveryTime
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the identifier the new delivery will carry.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// OrderID returns the identifier of the originating order.
func (c CreateDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerAddressID returns the destination address identifier.
func (c CreateDeliveryCommand) CustomerAddressID() kernel.UUID {
	return c.customerAddressID
}

// EstimatedDeliveryTime returns the optional delivery estimate.
func (c CreateDeliveryCommand) EstimatedDeliveryTime() *time.Time {
	return c.estimatedDeliveryTime
}

func (c *CreateDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.deliveryID = id
	return nil
}

func (c *CreateDeliveryCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateDeliveryCommand) setCustomerAddressID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.customerAddressID = id
	return nil
}
