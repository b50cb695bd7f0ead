// Package delivery provides the domain model for delivery lifecycle tracking.
// It implements the Delivery aggregate root, the status state machine, and the
// append-only state event entity.
//
// The package includes:
//   - Delivery: the aggregate root holding the current snapshot of a delivery
//   - Status: a state machine whose legal edges live in an explicit transition table
//   - FailureReason: the fixed classification attached to failed attempts
//   - StateEvent: one immutable entry in a delivery's transition log
//
// Key business rules:
//   - status changes only along edges of the transition table
//   - DELIVERY_CONFIRMED is the single terminal status
//   - a failure reason accompanies exactly the transitions into DELIVERY_FAILED
//   - the event log is append-only and the snapshot is derived from its last entry
//   - actualDeliveryTime records the first delivery and is never overwritten
//
// The package follows Domain-Driven Design principles: private fields,
// factory constructors, and validation that keeps every reachable instance
// inside its invariants.
package delivery
