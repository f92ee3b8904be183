//go:build unit

package booking_test

import (
	"testing"

	"stayhub/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    booking.Status
		to      booking.Status
		actor   booking.Role
		wantErr error
	}{
		{"host confirms pending", booking.StatusPending, booking.StatusConfirmed, booking.RoleHost, nil},
		{"host rejects pending", booking.StatusPending, booking.StatusRejected, booking.RoleHost, nil},
		{"renter cancels pending", booking.StatusPending, booking.StatusCancelled, booking.RoleRenter, nil},
		{"renter cancels confirmed", booking.StatusConfirmed, booking.StatusCancelled, booking.RoleRenter, nil},
		{"host cancels confirmed", booking.StatusConfirmed, booking.StatusCancelled, booking.RoleHost, nil},
		{"system completes confirmed", booking.StatusConfirmed, booking.StatusCompleted, booking.RoleSystem, nil},

		// Legal edge, wrong actor
		{"renter cannot confirm", booking.StatusPending, booking.StatusConfirmed, booking.RoleRenter, booking.ErrActorNotAllowed},
		{"renter cannot reject", booking.StatusPending, booking.StatusRejected, booking.RoleRenter, booking.ErrActorNotAllowed},
		{"host cannot cancel pending", booking.StatusPending, booking.StatusCancelled, booking.RoleHost, booking.ErrActorNotAllowed},
		{"renter cannot complete", booking.StatusConfirmed, booking.StatusCompleted, booking.RoleRenter, booking.ErrActorNotAllowed},

		// No such edge for anyone
		{"pending cannot complete", booking.StatusPending, booking.StatusCompleted, booking.RoleSystem, booking.ErrIllegalTransition},
		{"confirmed cannot revert to pending", booking.StatusConfirmed, booking.StatusPending, booking.RoleHost, booking.ErrIllegalTransition},
		{"cancelled is terminal", booking.StatusCancelled, booking.StatusConfirmed, booking.RoleHost, booking.ErrIllegalTransition},
		{"completed is terminal", booking.StatusCompleted, booking.StatusCancelled, booking.RoleRenter, booking.ErrIllegalTransition},
		{"rejected is terminal", booking.StatusRejected, booking.StatusConfirmed, booking.RoleHost, booking.ErrIllegalTransition},
		{"no self loop", booking.StatusPending, booking.StatusPending, booking.RoleHost, booking.ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := booking.ValidateTransition(tt.from, tt.to, tt.actor)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			var trErr *booking.TransitionError
			assert.ErrorAs(t, err, &trErr)
			assert.Equal(t, tt.from, trErr.From)
			assert.Equal(t, tt.to, trErr.To)
			assert.Equal(t, tt.actor, trErr.Actor)
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, booking.CanTransition(booking.StatusPending, booking.StatusConfirmed))
	assert.True(t, booking.CanTransition(booking.StatusConfirmed, booking.StatusCompleted))
	assert.False(t, booking.CanTransition(booking.StatusPending, booking.StatusCompleted))
	assert.False(t, booking.CanTransition(booking.StatusCompleted, booking.StatusConfirmed))
}
