package delivery

import (
	"errors"
	"fmt"
	"time"

	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/errs"
)

const (
	// SourceSystem tags transitions produced by the system itself,
	// including the synthetic creation event.
	SourceSystem = "SYSTEM"

	// SourceCustomer tags transitions triggered by the customer, such as
	// the delivery confirmation.
	SourceCustomer = "CUSTOMER"
)

// ErrStateEventIsNotConstructed is returned when a StateEvent was not created
// through one of its factory functions.
var ErrStateEventIsNotConstructed = errors.New("StateEvent must be created via NewStateEvent, NewCreationEvent, or RestoreStateEvent")

// OperatorSource builds the source tag for operator-initiated transitions,
// e.g. "OPERATOR:5f0c...".
func OperatorSource(operatorID kernel.UUID) string {
	return fmt.Sprintf("OPERATOR:%s", operatorID)
}

// StateEvent is one immutable entry in a delivery's append-only transition
// log. Events are never updated or deleted; the log is the source of truth
// and the Delivery snapshot is derived from its last entry.
//
// Invariants:
//   - the (fromStatus, toStatus) edge is in the transition table, or is the
//     CREATED -> CREATED self-loop of the creation event
//   - failureReason is present iff toStatus == DELIVERY_FAILED
//   - source is never empty
type StateEvent struct {
	id            kernel.UUID
	deliveryID    kernel.UUID
	fromStatus    Status
	toStatus      Status
	failureReason FailureReason
	source        string
	description   string
	metadata      string
	createdAt     time.Time

	isConstructed bool
}

// NewStateEvent creates the log entry for a transition along a table edge.
// All event invariants are checked here, so an event that exists is an event
// that was legal to record.
func NewStateEvent(
	id kernel.UUID,
	deliveryID kernel.UUID,
	fromStatus Status,
	toStatus Status,
	failureReason FailureReason,
	source string,
	description string,
	metadata string,
	createdAt time.Time,
) (*StateEvent, error) {
	if err := fromStatus.ValidateTransitionTo(toStatus); err != nil {
		return nil, err
	}
	return newEvent(id, deliveryID, fromStatus, toStatus, failureReason, source, description, metadata, createdAt)
}

// NewCreationEvent creates the synthetic CREATED -> CREATED self-loop that
// opens every delivery's event stream. This is the only self-transition the
// model admits, and it is always system-sourced.
func NewCreationEvent(id kernel.UUID, deliveryID kernel.UUID, createdAt time.Time) (*StateEvent, error) {
	return newEvent(id, deliveryID, Created, Created, NoFailure, SourceSystem, "delivery created", "", createdAt)
}

// RestoreStateEvent rebuilds an event from persistence. Field-level
// invariants are still enforced, but the edge check is skipped: the log may
// legitimately contain edges recorded under an older transition table.
func RestoreStateEvent(
	id kernel.UUID,
	deliveryID kernel.UUID,
	fromStatus Status,
	toStatus Status,
	failureReason FailureReason,
	source string,
	description string,
	metadata string,
	createdAt time.Time,
) (*StateEvent, error) {
	return newEvent(id, deliveryID, fromStatus, toStatus, failureReason, source, description, metadata, createdAt)
}

func newEvent(
	id kernel.UUID,
	deliveryID kernel.UUID,
	fromStatus Status,
	toStatus Status,
	failureReason FailureReason,
	source string,
	description string,
	metadata string,
	createdAt time.Time,
) (*StateEvent, error) {
	if err := errors.Join(
		id.Validate(),
		deliveryID.Validate(),
		fromStatus.Validate(),
		toStatus.Validate(),
		failureReason.Validate(),
	); err != nil {
		return nil, err
	}

	if source == "" {
		return nil, errs.NewValueIsRequiredError("source")
	}

	if toStatus == DeliveryFailed && !failureReason.IsPresent() {
		return nil, errs.NewMissingFailureReasonError(toStatus.String())
	}
	if toStatus != DeliveryFailed && failureReason.IsPresent() {
		return nil, errs.NewUnexpectedFailureReasonError(failureReason.String(), toStatus.String())
	}

	return &StateEvent{
		id:            id,
		deliveryID:    deliveryID,
		fromStatus:    fromStatus,
		toStatus:      toStatus,
		failureReason: failureReason,
		source:        source,
		description:   description,
		metadata:      metadata,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the event came from a factory function.
func (e *StateEvent) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrStateEventIsNotConstructed
	}
	return nil
}

// ID returns the event's unique identifier, assigned at append time.
func (e *StateEvent) ID() kernel.UUID {
	return e.id
}

// DeliveryID returns the owning delivery's identifier.
func (e *StateEvent) DeliveryID() kernel.UUID {
	return e.deliveryID
}

// FromStatus returns the status the delivery left.
func (e *StateEvent) FromStatus() Status {
	return e.fromStatus
}

// ToStatus returns the status the delivery entered.
func (e *StateEvent) ToStatus() Status {
	return e.toStatus
}

// FailureReason returns the attached reason, or NoFailure.
func (e *StateEvent) FailureReason() FailureReason {
	return e.failureReason
}

// Source returns the origin tag of the transition: "SYSTEM", "CUSTOMER",
// "OPERATOR:<id>", or a carrier-supplied tag.
func (e *StateEvent) Source() string {
	return e.source
}

// Description returns the optional free-form context.
func (e *StateEvent) Description() string {
	return e.description
}

// Metadata returns the optional free-form metadata blob.
func (e *StateEvent) Metadata() string {
	return e.metadata
}

// CreatedAt returns the event timestamp. Within one delivery's stream these
// are non-decreasing; ties are broken by id ordering at read time.
func (e *StateEvent) CreatedAt() time.Time {
	return e.createdAt
}

// IsCreation reports whether this is the synthetic creation self-loop.
func (e *StateEvent) IsCreation() bool {
	return e.fromStatus == Created && e.toStatus == Created
}
