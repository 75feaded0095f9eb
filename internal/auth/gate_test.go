package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_CustomerToken(t *testing.T) {
	gate := NewGate("test-secret")

	token, err := gate.IssueCustomerToken("cust-1", time.Minute)
	require.NoError(t, err)

	id, err := gate.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", id.CustomerID)
	assert.False(t, id.Operator)
}

func TestVerify_OperatorToken(t *testing.T) {
	gate := NewGate("test-secret")

	token, err := gate.IssueOperatorToken(time.Minute)
	require.NoError(t, err)

	id, err := gate.Verify(token)
	require.NoError(t, err)
	assert.True(t, id.Operator)
	assert.Empty(t, id.CustomerID)
}

func TestVerify_Rejections(t *testing.T) {
	gate := NewGate("test-secret")

	t.Run("empty", func(t *testing.T) {
		_, err := gate.Verify("")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := gate.Verify("not.a.jwt")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewGate("other-secret")
		token, err := other.IssueOperatorToken(time.Minute)
		require.NoError(t, err)

		_, err = gate.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := gate.IssueCustomerToken("cust-1", -time.Minute)
		require.NoError(t, err)

		_, err = gate.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
