package guard_test

import (
	"errors"
	"testing"

	"deliverystate/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		customError := errors.New("test object not constructed")
		require.NoError(t, g.Validate(customError))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})

	t.Run("default_error_has_meaningful_message", func(t *testing.T) {
		assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
	})
}

// TestConstructorGuardUsageExample demonstrates the intended embedding pattern
// for domain objects that must be built through a constructor.
func TestConstructorGuardUsageExample(t *testing.T) {
	type TrackingCode struct {
		code  string
		guard guard.ConstructorGuard
	}

	var errTrackingCodeNotConstructed = errors.New("TrackingCode must be created via NewTrackingCode")

	newTrackingCode := func(code string) (TrackingCode, error) {
		if code == "" {
			return TrackingCode{}, errors.New("code is required")
		}
		return TrackingCode{code: code, guard: guard.NewConstructorGuard()}, nil
	}

	validate := func(tc TrackingCode) error {
		return tc.guard.Validate(errTrackingCodeNotConstructed)
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		tc, err := newTrackingCode("TRK-001")
		require.NoError(t, err)
		require.NoError(t, validate(tc))
		assert.Equal(t, "TRK-001", tc.code)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var tc TrackingCode
		err := validate(tc)
		require.Error(t, err)
		assert.Equal(t, errTrackingCodeNotConstructed, err)
	})

	t.Run("constructor_validates_business_rules", func(t *testing.T) {
		_, err := newTrackingCode("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code is required")
	})
}

// TestConstructorGuardConcurrency verifies the guard is safe to validate
// from many goroutines at once.
func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 500 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}
