package delivery

import (
	"deliverystate/internal/pkg/errs"
)

// FailureReason classifies why a delivery attempt failed. It accompanies
// every transition into DeliveryFailed and is absent everywhere else; the
// zero value NoFailure models absence.
type FailureReason int

const (
	// NoFailure is the zero value: no failure reason is attached.
	NoFailure FailureReason = iota

	// IncorrectAddress: the recorded customer address is wrong or unusable.
	IncorrectAddress

	// CustomerNotAvailable: nobody could receive the package.
	CustomerNotAvailable

	// PackageDamaged: the package was damaged in transit.
	PackageDamaged

	// OtherFailure: catch-all for reasons outside the fixed set.
	OtherFailure
)

var failureReasonNames = map[FailureReason]string{
	IncorrectAddress:     "INCORRECT_ADDRESS",
	CustomerNotAvailable: "CUSTOMER_NOT_AVAILABLE",
	PackageDamaged:       "PACKAGE_DAMAGED",
	OtherFailure:         "OTHER",
}

// FailureReasonFromString parses a wire name into a FailureReason. The empty
// string maps to NoFailure; unrecognized names are rejected.
func FailureReasonFromString(s string) (FailureReason, error) {
	if s == "" {
		return NoFailure, nil
	}
	for reason, name := range failureReasonNames {
		if name == s {
			return reason, nil
		}
	}
	return NoFailure, errs.NewValueIsInvalidErrorWithCause("failureReason",
		errs.NewValueIsInvalidError(s))
}

// String returns the wire name, or the empty string for NoFailure.
func (r FailureReason) String() string {
	return failureReasonNames[r]
}

// IsPresent reports whether a reason is attached.
func (r FailureReason) IsPresent() bool {
	return r != NoFailure
}

// Validate checks that the reason is one of the defined values.
// NoFailure is valid: absence is a legitimate state.
func (r FailureReason) Validate() error {
	if r == NoFailure {
		return nil
	}
	if _, ok := failureReasonNames[r]; !ok {
		return errs.NewValueIsInvalidError("failureReason")
	}
	return nil
}
