package commands_test

import (
	"testing"

	"deliverystate/internal/core/application/usecases/commands"
	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestTransitionCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewRequestTransitionCommand(
		id, delivery.DeliveryFailed, delivery.PackageDamaged, delivery.SourceSystem, "crushed in transit", `{"hub":"east"}`)

	require.NoError(t, err)
	assert.Equal(t, id, cmd.DeliveryID())
	assert.Equal(t, delivery.DeliveryFailed, cmd.ToStatus())
	assert.Equal(t, delivery.PackageDamaged, cmd.FailureReason())
	assert.Equal(t, delivery.SourceSystem, cmd.Source())
	assert.Equal(t, "crushed in transit", cmd.Description())
	assert.Equal(t, `{"hub":"east"}`, cmd.Metadata())
}

func TestNewRequestTransitionCommand_InvalidDeliveryID(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.UUID{}, delivery.PickedUp, delivery.NoFailure, delivery.SourceSystem, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewRequestTransitionCommand_InvalidStatus(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.NewUUID(), delivery.Unknown, delivery.NoFailure, delivery.SourceSystem, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewRequestTransitionCommand_EmptySource(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.NewUUID(), delivery.PickedUp, delivery.NoFailure, "", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestRequestTransitionCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.RequestTransitionCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrRequestTransitionCommandIsNotConstructed)
}
