package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", " Confirmed ", "PREPARING", "delivering", "Delivered"} {
		status, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.True(t, status.Valid())
	}
	_, err := ParseStatus("cancelled")
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseStatus("")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusDelivered, true},
		{StatusPreparing, StatusDelivering, true},
		{StatusConfirmed, StatusPending, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusDelivering, false},
		{StatusDelivering, Status("LOST"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderTransitionTo(t *testing.T) {
	order := &Order{Status: StatusDelivered}

	changed, err := order.TransitionTo(StatusDelivered)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = order.TransitionTo(StatusPreparing)
	var transition *TransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, StatusPreparing, transition.To)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusDelivered, order.Status)
}

func TestNext(t *testing.T) {
	next, ok := StatusPreparing.Next()
	require.True(t, ok)
	assert.Equal(t, StatusDelivering, next)

	next, ok = StatusDelivering.Next()
	require.True(t, ok)
	assert.Equal(t, StatusDelivered, next)

	_, ok = StatusConfirmed.Next()
	assert.False(t, ok)
	assert.True(t, StatusDelivered.Terminal())
}
