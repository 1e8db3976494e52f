package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almox/internal/core/id"
	"almox/internal/domain/movement"
)

func TestEditMovementRequestToInput(t *testing.T) {
	productID := id.New().String()
	exitType := "exit"
	dest := "maintenance dept"

	t.Run("destination only", func(t *testing.T) {
		in, err := EditMovementRequest{Destination: &dest}.ToInput()
		require.NoError(t, err)
		assert.Nil(t, in.Reconcile)
		require.NotNil(t, in.Destination)
		assert.Equal(t, dest, *in.Destination)
	})

	t.Run("line items without type leave type unset", func(t *testing.T) {
		in, err := EditMovementRequest{
			LineItems: []LineItemRequest{{ProductID: productID, Quantity: 2}},
		}.ToInput()
		require.NoError(t, err)
		require.NotNil(t, in.Reconcile)
		assert.Empty(t, in.Reconcile.Type)
		assert.Len(t, in.Reconcile.LineItems, 1)
	})

	t.Run("type without line items", func(t *testing.T) {
		in, err := EditMovementRequest{Type: &exitType}.ToInput()
		require.NoError(t, err)
		require.NotNil(t, in.Reconcile)
		assert.Equal(t, movement.TypeExit, in.Reconcile.Type)
		assert.Empty(t, in.Reconcile.LineItems)
	})

	t.Run("invalid product id", func(t *testing.T) {
		_, err := EditMovementRequest{
			Type:      &exitType,
			LineItems: []LineItemRequest{{ProductID: "not-a-uuid", Quantity: 2}},
		}.ToInput()
		require.Error(t, err)
	})
}
