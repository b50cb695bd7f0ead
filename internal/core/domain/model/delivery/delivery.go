package delivery

import (
	"errors"
	"fmt"
	"time"

	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
// created through NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// Delivery is the aggregate root tracking one physical delivery. It holds the
// current snapshot; the authoritative history lives in the append-only
// StateEvent log, of which this snapshot is a materialized view: status
// always equals the toStatus of the most recent event.
//
// Invariants maintained here:
//   - status changes only along transition-table edges (Transition)
//   - failureReason is present iff status == DELIVERY_FAILED
//   - actualDeliveryTime is written once, on the first entry into DELIVERED
//   - operator notes accumulate; they are never overwritten
type Delivery struct {
	id                kernel.UUID
	orderID           kernel.UUID
	customerAddressID kernel.UUID
	deliveryNumber    string
	status            Status
	failureReason     FailureReason
	estimatedDeliveryTime *time.Time
	actualDeliveryTime    *time.Time
	operatorID    *kernel.UUID
	operatorNotes string
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewDelivery registers a new delivery in Created status. The caller is
// expected to append the matching creation event (NewCreationEvent) in the
// same transaction; no delivery exists without its first event.
func NewDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	customerAddressID kernel.UUID,
	estimatedDeliveryTime *time.Time,
	now time.Time,
) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		customerAddressID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:                    id,
		orderID:               orderID,
		customerAddressID:     customerAddressID,
		status:                Created,
		estimatedDeliveryTime: estimatedDeliveryTime,
		createdAt:             now,
		updatedAt:             now,
		isConstructed:         true,
	}, nil
}

// RestoreDelivery rebuilds the aggregate from a persisted snapshot.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	customerAddressID kernel.UUID,
	deliveryNumber string,
	status Status,
	failureReason FailureReason,
	estimatedDeliveryTime *time.Time,
	actualDeliveryTime *time.Time,
	operatorID *kernel.UUID,
	operatorNotes string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		customerAddressID.Validate(),
		status.Validate(),
		failureReason.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:                    id,
		orderID:               orderID,
		customerAddressID:     customerAddressID,
		deliveryNumber:        deliveryNumber,
		status:                status,
		failureReason:         failureReason,
		estimatedDeliveryTime: estimatedDeliveryTime,
		actualDeliveryTime:    actualDeliveryTime,
		operatorID:            operatorID,
		operatorNotes:         operatorNotes,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
		isConstructed:         true,
	}, nil
}

// Validate ensures the aggregate came from a factory function.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// IsEqual compares deliveries by identifier.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the originating order's identifier.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// CustomerAddressID returns the destination address identifier.
func (d *Delivery) CustomerAddressID() kernel.UUID {
	return d.customerAddressID
}

// DeliveryNumber returns the external tracking code, or "" when unset.
func (d *Delivery) DeliveryNumber() string {
	return d.deliveryNumber
}

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status {
	return d.status
}

// FailureReason returns the attached reason; NoFailure unless the delivery is
// currently in DeliveryFailed.
func (d *Delivery) FailureReason() FailureReason {
	return d.failureReason
}

// EstimatedDeliveryTime returns the optional estimate set at creation.
func (d *Delivery) EstimatedDeliveryTime() *time.Time {
	return d.estimatedDeliveryTime
}

// ActualDeliveryTime returns the time of first delivery, or nil. The value is
// first-write-wins: a failure-and-retry cycle back into Delivered keeps the
// original timestamp.
func (d *Delivery) ActualDeliveryTime() *time.Time {
	return d.actualDeliveryTime
}

// OperatorID returns the last operator who acted on the delivery, or nil.
func (d *Delivery) OperatorID() *kernel.UUID {
	return d.operatorID
}

// OperatorNotes returns the accumulated, timestamped note log.
func (d *Delivery) OperatorNotes() string {
	return d.operatorNotes
}

// CreatedAt returns the creation timestamp.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

// Transition moves the delivery along the edge status -> to and returns the
// status it left, which callers need to build the matching StateEvent and to
// guard the snapshot write against concurrent transitions.
//
// Rules enforced, in order:
//   - a reason is required iff to == DeliveryFailed
//   - the edge must be in the transition table (self-transitions are not;
//     the creation self-loop never goes through here)
//
// On success the snapshot fields are updated: failureReason is set or
// cleared, actualDeliveryTime is stamped on the first entry into Delivered,
// and updatedAt is bumped.
func (d *Delivery) Transition(to Status, reason FailureReason, now time.Time) (Status, error) {
	if err := d.Validate(); err != nil {
		return Unknown, err
	}
	if err := reason.Validate(); err != nil {
		return Unknown, err
	}

	if to == DeliveryFailed && !reason.IsPresent() {
		return Unknown, errs.NewMissingFailureReasonError(to.String())
	}
	if to != DeliveryFailed && reason.IsPresent() {
		return Unknown, errs.NewUnexpectedFailureReasonError(reason.String(), to.String())
	}

	if err := d.status.ValidateTransitionTo(to); err != nil {
		return Unknown, err
	}

	from := d.status
	d.status = to
	d.failureReason = reason // cleared on any edge leaving DeliveryFailed

	if to == Delivered && d.actualDeliveryTime == nil {
		t := now
		d.actualDeliveryTime = &t
	}

	d.updatedAt = now
	return from, nil
}

// SetDeliveryNumber assigns the external tracking code. Overwriting an
// existing code is legal but unusual; uniqueness across deliveries is the
// store's concern (unique index), not the aggregate's.
func (d *Delivery) SetDeliveryNumber(number string, now time.Time) error {
	if number == "" {
		return errs.NewValueIsRequiredError("deliveryNumber")
	}
	d.deliveryNumber = number
	d.updatedAt = now
	return nil
}

// ChangeCustomerAddress repoints the delivery at a different address. Used by
// the UPDATE_ADDRESS operator action; ordinary lifecycle flow never touches
// the address.
func (d *Delivery) ChangeCustomerAddress(addressID kernel.UUID, now time.Time) error {
	if err := addressID.Validate(); err != nil {
		return err
	}
	d.customerAddressID = addressID
	d.updatedAt = now
	return nil
}

// StampOperator records that an operator acted on this delivery, appending
// the note (when present) to the timestamped note log. Notes accumulate; a
// later stamp never erases earlier ones.
func (d *Delivery) StampOperator(operatorID kernel.UUID, note string, now time.Time) error {
	if err := operatorID.Validate(); err != nil {
		return err
	}

	opID := operatorID
	d.operatorID = &opID

	if note != "" {
		entry := fmt.Sprintf("[%s] %s", now.UTC().Format(time.RFC3339), note)
		if d.operatorNotes == "" {
			d.operatorNotes = entry
		} else {
			d.operatorNotes = d.operatorNotes + "\n" + entry
		}
	}

	d.updatedAt = now
	return nil
}
