// Package errs provides the standardized error types used across the
// delivery tracking application.
//
// Every error kind follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound) for errors.Is checks
//   - a struct type carrying the error details
//   - constructor functions with and without an underlying cause
//   - Error() for formatting and Unwrap() for sentinel matching
//
// General-purpose kinds (not found, invalid, required, out of range) are
// complemented by the transition taxonomy: IllegalTransitionError,
// MissingFailureReasonError, UnexpectedFailureReasonError,
// InvalidOperatorActionError, and ConflictingUpdateError. Callers classify
// failures with errors.Is against the matching sentinel.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrObjectNotFound indicates a lookup by identifier matched nothing.
	ErrObjectNotFound = errors.New("object not found")

	// ErrValueIsInvalid indicates a value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")

	// ErrValueIsOutOfRange indicates a value fell outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")

	// ErrValueIsRequired indicates a required value was absent.
	ErrValueIsRequired = errors.New("value is required")

	// ErrIllegalTransition indicates a requested status edge is not in the
	// transition table.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrMissingFailureReason indicates a transition into the failed status
	// arrived without a failure reason.
	ErrMissingFailureReason = errors.New("failure reason is required")

	// ErrUnexpectedFailureReason indicates a failure reason was supplied for
	// a transition whose target is not the failed status.
	ErrUnexpectedFailureReason = errors.New("failure reason is not allowed")

	// ErrInvalidOperatorAction indicates an operator action's precondition
	// does not hold for the delivery's current status.
	ErrInvalidOperatorAction = errors.New("operator action is invalid")

	// ErrConflictingUpdate indicates a concurrent transition changed the
	// delivery between the caller's read and its attempted commit. The
	// request was not applied; callers may re-read and retry.
	ErrConflictingUpdate = errors.New("conflicting update")
)

// sanitize strips newlines from values interpolated into error messages so a
// single log line never spans multiple lines.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError reports that the object identified by ID (named by
// ParamName) does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an
// underlying cause, typically a storage-layer error.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports that the value named by ParamName failed
// validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping the
// underlying validation failure.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports that Value for ParamName fell outside the
// closed interval [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping
// an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports that the value named by ParamName was absent.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an
// underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// IllegalTransitionError reports an attempted status edge that the transition
// table does not permit. From and To carry the status names so callers can
// tell which edge was rejected.
type IllegalTransitionError struct {
	From string
	To   string
}

// NewIllegalTransitionError creates an IllegalTransitionError for the edge
// from -> to.
func NewIllegalTransitionError(from, to string) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// MissingFailureReasonError reports a transition into the failed status that
// did not carry a failure reason.
type MissingFailureReasonError struct {
	ToStatus string
}

// NewMissingFailureReasonError creates a MissingFailureReasonError for the
// given target status.
func NewMissingFailureReasonError(toStatus string) *MissingFailureReasonError {
	return &MissingFailureReasonError{ToStatus: toStatus}
}

func (e *MissingFailureReasonError) Error() string {
	return fmt.Sprintf("%s: transition to %s", ErrMissingFailureReason, e.ToStatus)
}

func (e *MissingFailureReasonError) Unwrap() error {
	return ErrMissingFailureReason
}

// UnexpectedFailureReasonError reports a failure reason supplied on a
// transition whose target is not the failed status.
type UnexpectedFailureReasonError struct {
	Reason   string
	ToStatus string
}

// NewUnexpectedFailureReasonError creates an UnexpectedFailureReasonError for
// the given reason and target status.
func NewUnexpectedFailureReasonError(reason, toStatus string) *UnexpectedFailureReasonError {
	return &UnexpectedFailureReasonError{Reason: reason, ToStatus: toStatus}
}

func (e *UnexpectedFailureReasonError) Error() string {
	return fmt.Sprintf("%s: %s supplied for transition to %s",
		ErrUnexpectedFailureReason, sanitize(e.Reason), e.ToStatus)
}

func (e *UnexpectedFailureReasonError) Unwrap() error {
	return ErrUnexpectedFailureReason
}

// InvalidOperatorActionError reports an operator action whose precondition is
// not satisfied by the delivery's current status. It is deliberately distinct
// from IllegalTransitionError: the action itself does not apply, regardless of
// whether its underlying edge would be legal.
type InvalidOperatorActionError struct {
	Action string
	Status string
	Cause  error
}

// NewInvalidOperatorActionError creates an InvalidOperatorActionError for the
// given action and current status.
func NewInvalidOperatorActionError(action, status string) *InvalidOperatorActionError {
	return &InvalidOperatorActionError{Action: action, Status: status}
}

// NewInvalidOperatorActionErrorWithCause creates an InvalidOperatorActionError
// wrapping an underlying cause.
func NewInvalidOperatorActionErrorWithCause(action, status string, cause error) *InvalidOperatorActionError {
	return &InvalidOperatorActionError{Action: action, Status: status, Cause: cause}
}

func (e *InvalidOperatorActionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s not applicable in status %s (cause: %s)",
			ErrInvalidOperatorAction, e.Action, e.Status, e.Cause)
	}
	return fmt.Sprintf("%s: %s not applicable in status %s",
		ErrInvalidOperatorAction, e.Action, e.Status)
}

func (e *InvalidOperatorActionError) Unwrap() error {
	return ErrInvalidOperatorAction
}

// ConflictingUpdateError reports that a concurrent transition on the same
// delivery invalidated the caller's view of the current status. Nothing was
// written; the caller should re-read the snapshot and retry if still desired.
type ConflictingUpdateError struct {
	ID             any
	ExpectedStatus string
}

// NewConflictingUpdateError creates a ConflictingUpdateError for the delivery
// whose status was expected to still be expectedStatus.
func NewConflictingUpdateError(id any, expectedStatus string) *ConflictingUpdateError {
	return &ConflictingUpdateError{ID: id, ExpectedStatus: expectedStatus}
}

func (e *ConflictingUpdateError) Error() string {
	return fmt.Sprintf("%s: delivery %v no longer in status %s",
		ErrConflictingUpdate, e.ID, e.ExpectedStatus)
}

func (e *ConflictingUpdateError) Unwrap() error {
	return ErrConflictingUpdate
}
