package errs_test

import (
	"errors"
	"testing"

	"deliverystate/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("deliveryId", "123")

		assert.Equal(t, "deliveryId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("deliveryId", "123", cause)

		assert.Equal(t, "deliveryId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: deliveryId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, "status", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("volume", 150, 0, 120)

		assert.Equal(t, "volume", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 120, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 150 is volume, min value is 0, max value is 120", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("source")

		assert.Equal(t, "source", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: source", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("source", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: source (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestIllegalTransitionError(t *testing.T) {
	err := errs.NewIllegalTransitionError("DELIVERY_CONFIRMED", "PICKED_UP")

	assert.Equal(t, "DELIVERY_CONFIRMED", err.From)
	assert.Equal(t, "PICKED_UP", err.To)
	assert.Equal(t, "illegal transition: DELIVERY_CONFIRMED -> PICKED_UP", err.Error())
	assert.Equal(t, errs.ErrIllegalTransition, err.Unwrap())
}

func TestMissingFailureReasonError(t *testing.T) {
	err := errs.NewMissingFailureReasonError("DELIVERY_FAILED")

	assert.Equal(t, "DELIVERY_FAILED", err.ToStatus)
	assert.Equal(t, "failure reason is required: transition to DELIVERY_FAILED", err.Error())
	assert.Equal(t, errs.ErrMissingFailureReason, err.Unwrap())
}

func TestUnexpectedFailureReasonError(t *testing.T) {
	err := errs.NewUnexpectedFailureReasonError("OTHER", "PICKED_UP")

	assert.Equal(t, "OTHER", err.Reason)
	assert.Equal(t, "PICKED_UP", err.ToStatus)
	assert.Equal(t, "failure reason is not allowed: OTHER supplied for transition to PICKED_UP", err.Error())
	assert.Equal(t, errs.ErrUnexpectedFailureReason, err.Unwrap())
}

func TestInvalidOperatorActionError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewInvalidOperatorActionError("RETRY_DELIVERY", "CREATED")

		assert.Equal(t, "RETRY_DELIVERY", err.Action)
		assert.Equal(t, "CREATED", err.Status)
		assert.Equal(t, "operator action is invalid: RETRY_DELIVERY not applicable in status CREATED", err.Error())
		assert.Equal(t, errs.ErrInvalidOperatorAction, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("address unchanged")
		err := errs.NewInvalidOperatorActionErrorWithCause("UPDATE_ADDRESS", "PICKED_UP", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Contains(t, err.Error(), "(cause: address unchanged)")
	})
}

func TestConflictingUpdateError(t *testing.T) {
	err := errs.NewConflictingUpdateError("d-42", "PICKED_UP")

	assert.Equal(t, "d-42", err.ID)
	assert.Equal(t, "PICKED_UP", err.ExpectedStatus)
	assert.Equal(t, "conflicting update: delivery d-42 no longer in status PICKED_UP", err.Error())
	assert.Equal(t, errs.ErrConflictingUpdate, err.Unwrap())
}

func TestSentinelErrors(t *testing.T) {
	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "illegal transition", errs.ErrIllegalTransition.Error())
		assert.Equal(t, "failure reason is required", errs.ErrMissingFailureReason.Error())
		assert.Equal(t, "failure reason is not allowed", errs.ErrUnexpectedFailureReason.Error())
		assert.Equal(t, "operator action is invalid", errs.ErrInvalidOperatorAction.Error())
		assert.Equal(t, "conflicting update", errs.ErrConflictingUpdate.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("deliveryId", "123"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("volume", 150, 0, 120), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("source"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewIllegalTransitionError("A", "B"), errs.ErrIllegalTransition)
		require.ErrorIs(t, errs.NewMissingFailureReasonError("DELIVERY_FAILED"), errs.ErrMissingFailureReason)
		require.ErrorIs(t, errs.NewUnexpectedFailureReasonError("OTHER", "PICKED_UP"), errs.ErrUnexpectedFailureReason)
		require.ErrorIs(t, errs.NewInvalidOperatorActionError("RETRY_DELIVERY", "CREATED"), errs.ErrInvalidOperatorAction)
		require.ErrorIs(t, errs.NewConflictingUpdateError("d-1", "CREATED"), errs.ErrConflictingUpdate)
	})
}
