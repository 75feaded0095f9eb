package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPlaced, StatusProcessing, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusPlaced, StatusShipped, false},
		{StatusPlaced, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPlaced, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusDelivered, StatusProcessing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPlaced, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCancelled, StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPlaced.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusShipped.Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPlaced.Valid())
	assert.False(t, Status("Refunded").Valid())
	assert.False(t, Status("").Valid())
}

func TestNewOrder(t *testing.T) {
	lines := []Line{{ProductID: "shirt-1", Size: "M", Quantity: 2}}
	addr := Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"}

	o := NewOrder("cust-1", lines, addr, "cod")

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "cust-1", o.CustomerID)
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Equal(t, lines, o.Lines)
	assert.Equal(t, addr, o.Address)
	assert.Equal(t, "cod", o.PaymentMethod)
	assert.False(t, o.CreatedAt.IsZero())
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)
}

func TestAddressComplete(t *testing.T) {
	addr := Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"}
	assert.True(t, addr.Complete())

	addr.Zip = ""
	assert.False(t, addr.Complete())
	assert.False(t, Address{}.Complete())
}
