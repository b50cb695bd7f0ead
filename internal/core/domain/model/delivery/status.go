package delivery

import (
	"deliverystate/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
//
// The lifecycle forms a directed graph:
//
//	CREATED ────────────> PICKED_UP ──────────> DELIVERED ──> DELIVERY_CONFIRMED
//	   │  ▲                │  ▲  ▲                │   │
//	   │  │                │  │  └───(retry)──┐   │   │
//	   ▼  │                ▼  │               │   ▼   │
//	PENDING_BY_OPERATOR <──── DELIVERY_FAILED ┘<──────┘
//
// DELIVERY_CONFIRMED is the only terminal state. Legality of a status change
// is decided by the edge set below, not by scattered conditionals; adding an
// edge is a data change.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status assigned when a delivery is registered.
	Created

	// PickedUp indicates the package is in transit with the carrier.
	PickedUp

	// Delivered indicates the carrier reported the package handed over.
	Delivered

	// DeliveryConfirmed indicates the customer confirmed receipt.
	// Terminal: no outbound transitions exist.
	DeliveryConfirmed

	// DeliveryFailed indicates a failed delivery attempt. A delivery in this
	// status always carries a failure reason.
	DeliveryFailed

	// PendingByOperator indicates the delivery is parked awaiting a human
	// operator decision.
	PendingByOperator
)

// statusNames maps statuses to their wire/persistence names. The names match
// the status enum used by the delivery_orders table.
var statusNames = map[Status]string{
	Unknown:           "UNKNOWN",
	Created:           "CREATED",
	PickedUp:          "PICKED_UP",
	Delivered:         "DELIVERED",
	DeliveryConfirmed: "DELIVERY_CONFIRMED",
	DeliveryFailed:    "DELIVERY_FAILED",
	PendingByOperator: "PENDING_BY_OPERATOR",
}

// allowedEdges is the transition table. A requested change from -> to is
// legal iff to appears in allowedEdges[from]. The synthetic CREATED -> CREATED
// self-loop used for the creation event is handled by NewCreationEvent and is
// deliberately absent here.
var allowedEdges = map[Status][]Status{
	Created:           {PickedUp, DeliveryFailed, PendingByOperator},
	PickedUp:          {Delivered, DeliveryFailed, PendingByOperator},
	Delivered:         {DeliveryConfirmed, DeliveryFailed},
	DeliveryFailed:    {PendingByOperator, PickedUp},
	PendingByOperator: {PickedUp, DeliveryFailed, Created},
	DeliveryConfirmed: nil, // terminal
}

// StatusFromString parses a wire name back into a Status.
// Returns an error for unrecognized names, including "UNKNOWN".
func StatusFromString(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		errs.NewValueIsInvalidError(s))
}

// String returns the wire name of the status. Implements fmt.Stringer and is
// safe on any value, including invalid ones.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validate checks that the status is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := allowedEdges[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errs.NewValueIsInvalidError(s.String()))
	}
	return nil
}

// IsTerminal reports whether the status admits no outbound transitions.
func (s Status) IsTerminal() bool {
	edges, ok := allowedEdges[s]
	return ok && len(edges) == 0
}

// CanTransitionTo reports whether the edge s -> to is in the transition table.
func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range allowedEdges[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransitionTo checks the edge s -> to against the transition table
// without performing the transition. Self-transitions are never legal here;
// the creation self-loop is produced internally, not requested.
func (s Status) ValidateTransitionTo(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(to) {
		return errs.NewIllegalTransitionError(s.String(), to.String())
	}
	return nil
}
