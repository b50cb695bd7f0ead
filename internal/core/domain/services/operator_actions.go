package services

import (
	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/errs"
)

// Action is the bounded set of interventions an operator can request on a
// delivery. Each action (except ContactCustomer) translates into one or more
// lifecycle transitions carried out with operator-sourced provenance.
type Action int

const (
	// ActionUnknown is the zero value and never valid.
	ActionUnknown Action = iota
	// ActionRetryDelivery sends a failed or parked delivery back into transit.
	ActionRetryDelivery
	// ActionCancelDelivery fails the delivery terminally from any non-terminal status.
	ActionCancelDelivery
	// ActionUpdateAddress corrects the destination and restarts the lifecycle.
	ActionUpdateAddress
	// ActionContactCustomer records a note without touching the lifecycle.
	ActionContactCustomer
)

var actionNames = map[Action]string{
	ActionRetryDelivery:   "RETRY_DELIVERY",
	ActionCancelDelivery:  "CANCEL_DELIVERY",
	ActionUpdateAddress:   "UPDATE_ADDRESS",
	ActionContactCustomer: "CONTACT_CUSTOMER",
}

// ActionFromString parses the wire representation of an operator action.
//
// Returns:
//   - Action: the parsed action
//   - error: ValueIsInvalidError when the name is not a known action
func ActionFromString(s string) (Action, error) {
	for action, name := range actionNames {
		if name == s {
			return action, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action",
		errs.NewValueIsInvalidError(s))
}

// String returns the wire representation, or "UNKNOWN" for invalid values.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validate returns an error for actions outside the bounded set.
func (a Action) Validate() error {
	if _, ok := actionNames[a]; !ok {
		return errs.NewValueIsInvalidError("action")
	}
	return nil
}

// AddressUpdatePolicy selects what ActionUpdateAddress does beyond repointing
// the destination address.
type AddressUpdatePolicy int

const (
	// RestartLifecycle resets the delivery to Created after the address
	// change, producing a fresh attempt against the corrected destination.
	// This is the default policy.
	RestartLifecycle AddressUpdatePolicy = iota
	// DataOnlyCorrection changes the address without touching the status;
	// the delivery continues from wherever it currently is.
	DataOnlyCorrection
)

// AddressUpdatePolicyFromString parses the policy name used in configuration.
// The empty string selects RestartLifecycle.
func AddressUpdatePolicyFromString(s string) (AddressUpdatePolicy, error) {
	switch s {
	case "", "RESTART_LIFECYCLE":
		return RestartLifecycle, nil
	case "DATA_ONLY_CORRECTION":
		return DataOnlyCorrection, nil
	default:
		return RestartLifecycle, errs.NewValueIsInvalidError("addressUpdatePolicy")
	}
}

// TransitionStep is one lifecycle edge an action plan asks the caller to walk.
type TransitionStep struct {
	To     delivery.Status
	Reason delivery.FailureReason
}

// ActionPlan is the translator's output: the address to set (when the action
// carries one) and the ordered transition steps to perform. Either part may be
// empty; ContactCustomer produces a plan with neither. The operator
// stamp and note append happen on every action and are not part of the plan.
type ActionPlan struct {
	NewAddressID *kernel.UUID
	Steps        []TransitionStep
}

// HasTransitions reports whether the plan walks any lifecycle edge.
func (p ActionPlan) HasTransitions() bool {
	return len(p.Steps) > 0
}

// OperatorActionTranslator is a domain service mapping operator actions onto
// lifecycle transitions. It owns the action preconditions: violations surface
// as InvalidOperatorActionError, which is distinct from IllegalTransitionError
// so callers can tell "this action does not apply to the delivery's current
// state" apart from "the underlying edge is forbidden."
//
// Action table:
//   - RETRY_DELIVERY: from DeliveryFailed or PendingByOperator, -> PickedUp
//   - CANCEL_DELIVERY: from any non-terminal status, -> DeliveryFailed with
//     reason OTHER unless the operator supplied a more specific one
//   - UPDATE_ADDRESS: from PendingByOperator, or from DeliveryFailed with
//     reason IncorrectAddress; requires the new address id. Under
//     RestartLifecycle the plan resets the delivery to Created; from
//     DeliveryFailed that takes two edges, routed through PendingByOperator,
//     so the event log shows the park-then-reset explicitly.
//   - CONTACT_CUSTOMER: always applicable, no transitions
type OperatorActionTranslator struct {
	addressUpdatePolicy AddressUpdatePolicy
}

// NewOperatorActionTranslator creates a translator with the given address
// update policy.
func NewOperatorActionTranslator(policy AddressUpdatePolicy) OperatorActionTranslator {
	return OperatorActionTranslator{addressUpdatePolicy: policy}
}

// Translate checks the action's precondition against the delivery's current
// state and returns the plan to execute.
//
// Parameters:
//   - d: the target delivery (must be valid)
//   - action: the operator action to apply
//   - reason: optional failure reason; only CANCEL_DELIVERY accepts one
//   - newAddressID: required for UPDATE_ADDRESS, rejected elsewhere
//
// Returns:
//   - ActionPlan: the address change and transition steps to perform
//   - error: InvalidOperatorActionError on precondition violations
func (t OperatorActionTranslator) Translate(
	d *delivery.Delivery,
	action Action,
	reason delivery.FailureReason,
	newAddressID *kernel.UUID,
) (ActionPlan, error) {
	if err := d.Validate(); err != nil {
		return ActionPlan{}, err
	}
	if err := action.Validate(); err != nil {
		return ActionPlan{}, err
	}
	if err := reason.Validate(); err != nil {
		return ActionPlan{}, err
	}
	if action != ActionUpdateAddress && newAddressID != nil {
		return ActionPlan{}, errs.NewInvalidOperatorActionErrorWithCause(
			action.String(), d.Status().String(),
			errs.NewValueIsInvalidError("newAddressId"))
	}
	if action != ActionCancelDelivery && reason.IsPresent() {
		return ActionPlan{}, errs.NewInvalidOperatorActionErrorWithCause(
			action.String(), d.Status().String(),
			errs.NewValueIsInvalidError("failureReason"))
	}

	switch action {
	case ActionRetryDelivery:
		return t.translateRetry(d)
	case ActionCancelDelivery:
		return t.translateCancel(d, reason)
	case ActionUpdateAddress:
		return t.translateUpdateAddress(d, newAddressID)
	case ActionContactCustomer:
		return ActionPlan{}, nil
	default:
		return ActionPlan{}, errs.NewValueIsInvalidError("action")
	}
}

func (t OperatorActionTranslator) translateRetry(d *delivery.Delivery) (ActionPlan, error) {
	status := d.Status()
	if status != delivery.DeliveryFailed && status != delivery.PendingByOperator {
		return ActionPlan{}, errs.NewInvalidOperatorActionError(
			ActionRetryDelivery.String(), status.String())
	}
	return ActionPlan{
		Steps: []TransitionStep{{To: delivery.PickedUp}},
	}, nil
}

func (t OperatorActionTranslator) translateCancel(d *delivery.Delivery, reason delivery.FailureReason) (ActionPlan, error) {
	status := d.Status()
	if status.IsTerminal() {
		return ActionPlan{}, errs.NewInvalidOperatorActionError(
			ActionCancelDelivery.String(), status.String())
	}
	if !reason.IsPresent() {
		reason = delivery.OtherFailure
	}
	return ActionPlan{
		Steps: []TransitionStep{{To: delivery.DeliveryFailed, Reason: reason}},
	}, nil
}

func (t OperatorActionTranslator) translateUpdateAddress(d *delivery.Delivery, newAddressID *kernel.UUID) (ActionPlan, error) {
	status := d.Status()

	applicable := status == delivery.PendingByOperator ||
		(status == delivery.DeliveryFailed && d.FailureReason() == delivery.IncorrectAddress)
	if !applicable {
		return ActionPlan{}, errs.NewInvalidOperatorActionError(
			ActionUpdateAddress.String(), status.String())
	}
	if newAddressID == nil {
		return ActionPlan{}, errs.NewInvalidOperatorActionErrorWithCause(
			ActionUpdateAddress.String(), status.String(),
			errs.NewValueIsRequiredError("newAddressId"))
	}
	if err := newAddressID.Validate(); err != nil {
		return ActionPlan{}, errs.NewInvalidOperatorActionErrorWithCause(
			ActionUpdateAddress.String(), status.String(), err)
	}

	plan := ActionPlan{NewAddressID: newAddressID}
	if t.addressUpdatePolicy == DataOnlyCorrection {
		return plan, nil
	}

	// Reset to Created. The edge table has no DeliveryFailed -> Created edge,
	// so from a failed delivery the reset is routed through PendingByOperator
	// and both hops land in the event log.
	if status == delivery.DeliveryFailed {
		plan.Steps = append(plan.Steps, TransitionStep{To: delivery.PendingByOperator})
	}
	plan.Steps = append(plan.Steps, TransitionStep{To: delivery.Created})
	return plan, nil
}
