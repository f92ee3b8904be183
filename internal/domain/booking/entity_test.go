//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/pkg/clock"
	"stayhub/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(now time.Time) *booking.Services {
	return &booking.Services{
		Clock:  clock.NewMockClock(now),
		Quoter: booking.NewNightlyPriceQuoter(),
	}
}

func TestNewBooking(t *testing.T) {
	now := date(2026, 1, 1)
	futureRange := mustRange(t, date(2026, 2, 10), date(2026, 2, 13))

	t.Run("pending when listing requires approval", func(t *testing.T) {
		spec := builder.NewListingBuilder().BuildSpec()
		renterID := uuid.New()

		b, err := booking.NewBooking(newServices(now), spec, renterID, futureRange)
		require.NoError(t, err)

		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, spec.ID, b.ListingID())
		assert.Equal(t, spec.HostID, b.HostID())
		assert.Equal(t, renterID, b.RenterID())
		assert.Equal(t, int64(30000), b.Total().Cents())
		assert.Equal(t, "USD", b.Total().Currency())
	})

	t.Run("instantly confirmed without approval requirement", func(t *testing.T) {
		spec := builder.NewListingBuilder().
			With(func(l *builder.ListingBuilder) { l.RequiresHostApproval = false }).
			BuildSpec()

		b, err := booking.NewBooking(newServices(now), spec, uuid.New(), futureRange)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("security deposit added to quote", func(t *testing.T) {
		spec := builder.NewListingBuilder().
			With(func(l *builder.ListingBuilder) { l.HasSecurityDeposit = true }).
			BuildSpec()

		b, err := booking.NewBooking(newServices(now), spec, uuid.New(), futureRange)
		require.NoError(t, err)
		assert.Equal(t, int64(30000+25000), b.Total().Cents())
	})

	t.Run("host cannot book own listing", func(t *testing.T) {
		lb := builder.NewListingBuilder()
		_, err := booking.NewBooking(newServices(now), lb.BuildSpec(), lb.HostID, futureRange)
		assert.ErrorIs(t, err, booking.ErrOwnListing)
	})

	t.Run("dateless listing rejected", func(t *testing.T) {
		spec := builder.NewListingBuilder().
			With(func(l *builder.ListingBuilder) { l.HasDateRange = false }).
			BuildSpec()
		_, err := booking.NewBooking(newServices(now), spec, uuid.New(), futureRange)
		assert.ErrorIs(t, err, booking.ErrDatelessListing)
	})

	t.Run("past range rejected", func(t *testing.T) {
		spec := builder.NewListingBuilder().BuildSpec()
		_, err := booking.NewBooking(newServices(date(2026, 3, 1)), spec, uuid.New(), futureRange)
		assert.ErrorIs(t, err, booking.ErrRangeInPast)
	})
}

func TestBooking_RoleOf(t *testing.T) {
	b := builder.NewBookingBuilder().BuildDomain()

	role, ok := b.RoleOf(b.RenterID())
	assert.True(t, ok)
	assert.Equal(t, booking.RoleRenter, role)

	role, ok = b.RoleOf(b.HostID())
	assert.True(t, ok)
	assert.Equal(t, booking.RoleHost, role)

	_, ok = b.RoleOf(uuid.New())
	assert.False(t, ok)
}

func TestBooking_ApplyTransition(t *testing.T) {
	now := date(2026, 1, 2)

	t.Run("updates status and timestamp", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, b.ApplyTransition(booking.StatusConfirmed, booking.RoleHost, now))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, now, b.UpdatedAt())
	})

	t.Run("rejects wrong actor without mutating", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		err := b.ApplyTransition(booking.StatusConfirmed, booking.RoleRenter, now)
		assert.ErrorIs(t, err, booking.ErrActorNotAllowed)
		assert.Equal(t, booking.StatusPending, b.Status())
	})
}

func TestBooking_SettleElapsed(t *testing.T) {
	confirmed := func() *booking.Booking {
		return builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.Status = booking.StatusConfirmed }).
			BuildDomain()
	}

	t.Run("completes once range has ended", func(t *testing.T) {
		b := confirmed()
		assert.True(t, b.SettleElapsed(date(2026, 2, 13)))
		assert.Equal(t, booking.StatusCompleted, b.Status())
	})

	t.Run("no-op while range is running", func(t *testing.T) {
		b := confirmed()
		assert.False(t, b.SettleElapsed(date(2026, 2, 12)))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("never settles non-confirmed bookings", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		assert.False(t, b.SettleElapsed(date(2026, 3, 1)))
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("monotonic once completed", func(t *testing.T) {
		b := confirmed()
		require.True(t, b.SettleElapsed(date(2026, 2, 13)))
		assert.False(t, b.SettleElapsed(date(2026, 2, 14)))
		assert.Equal(t, booking.StatusCompleted, b.Status())
	})
}

func TestBooking_CancellableAt(t *testing.T) {
	b := builder.NewBookingBuilder().
		With(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusConfirmed }).
		BuildDomain()
	// booking starts 2026-02-10

	t.Run("zero cutoff allows cancellation until check-in", func(t *testing.T) {
		assert.True(t, b.CancellableAt(date(2026, 2, 9), 0))
		assert.False(t, b.CancellableAt(date(2026, 2, 10), 0))
	})

	t.Run("cutoff shifts the deadline earlier", func(t *testing.T) {
		cutoff := 48 * time.Hour
		assert.True(t, b.CancellableAt(date(2026, 2, 7), cutoff))
		assert.False(t, b.CancellableAt(date(2026, 2, 8), cutoff))
	})
}
