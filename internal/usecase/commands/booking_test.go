//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"
	"stayhub/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	clk       *clock.MockClock
	publisher *memory.CapturePublisher
	commands  commands.BookingCommands
	queries   queries.BookingQueries
}

func newFixture(t *testing.T, mutateCfg ...func(*config.Config)) *fixture {
	t.Helper()

	cfg := config.NewTestConfig()
	for _, m := range mutateCfg {
		m(&cfg)
	}

	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore()
	publisher := memory.NewCapturePublisher()
	bookingQueries := queries.NewBookingQueries(memory.NewBookingReadStore(store, clk))
	services := &booking.Services{Clock: clk, Quoter: booking.NewNightlyPriceQuoter()}

	return &fixture{
		store:     store,
		clk:       clk,
		publisher: publisher,
		queries:   bookingQueries,
		commands: commands.NewBookingCommands(
			memory.NewUoW(store),
			bookingQueries,
			services,
			publisher,
			commands.NopDeduper{},
			clk,
			cfg,
		),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func params(listingID uuid.UUID, start, end time.Time) commands.CreateBookingParams {
	return commands.CreateBookingParams{ListingID: listingID, Start: start, End: end}
}

// =============================================================================
// CreateBooking
// =============================================================================

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending booking on approval-required listing", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		renterID := uuid.New()

		view, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), renterID, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, renterID, view.RenterID)
		assert.Equal(t, lb.HostID, view.HostID)
		assert.Equal(t, int64(30000), view.TotalCents)
		assert.Equal(t, lb.Name, view.ListingName)
		assert.Equal(t, []string{"booking.created"}, f.publisher.Names())
	})

	t.Run("instant-book listing confirms immediately", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder().
			With(func(l *builder.ListingBuilder) { l.RequiresHostApproval = false })
		f.store.SeedListing(lb.BuildDomain())

		view, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "confirmed", view.Status)
	})

	t.Run("rejects overlap with pending booking", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		require.NoError(t, err)

		_, err = f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 12), date(2026, 2, 15)), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrSlotUnavailable)

		var conflict *commands.SlotConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, lb.ID, conflict.ListingID)
		assert.Equal(t, "[2026-02-10,2026-02-13)", conflict.Conflicting.String())
		assert.Equal(t, 1, f.store.BookingCount())
	})

	t.Run("back-to-back bookings share a boundary day", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		require.NoError(t, err)

		_, err = f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 13), date(2026, 2, 16)), uuid.New(), uuid.New())
		assert.NoError(t, err)
		assert.Equal(t, 2, f.store.BookingCount())
	})

	t.Run("other listings are unaffected", func(t *testing.T) {
		f := newFixture(t)
		lb1 := builder.NewListingBuilder()
		lb2 := builder.NewListingBuilder()
		f.store.SeedListing(lb1.BuildDomain())
		f.store.SeedListing(lb2.BuildDomain())

		_, err := f.commands.CreateBooking(ctx, params(lb1.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		require.NoError(t, err)
		_, err = f.commands.CreateBooking(ctx, params(lb2.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		assert.NoError(t, err)
	})

	t.Run("invalid range", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 13), date(2026, 2, 10)), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrInvalidRange)

		_, err = f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 10)), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrInvalidRange)
	})

	t.Run("past range", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2025, 12, 1), date(2025, 12, 5)), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrInvalidRange)
	})

	t.Run("unknown listing", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.commands.CreateBooking(ctx, params(uuid.New(), date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrListingNotFound)
	})

	t.Run("host cannot book own listing", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), lb.HostID, uuid.New())
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("dateless listing fails validation", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder().
			With(func(l *builder.ListingBuilder) { l.HasDateRange = false })
		f.store.SeedListing(lb.BuildDomain())

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestCreateBooking_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("same key replays the original booking", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		renterID := uuid.New()
		key := uuid.New()
		p := params(lb.ID, date(2026, 2, 10), date(2026, 2, 13))

		first, err := f.commands.CreateBooking(ctx, p, renterID, key)
		require.NoError(t, err)

		second, err := f.commands.CreateBooking(ctx, p, renterID, key)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, f.store.BookingCount())
		assert.Equal(t, []string{"booking.created"}, f.publisher.Names())
	})

	t.Run("same key with different parameters is rejected", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		renterID := uuid.New()
		key := uuid.New()

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), renterID, key)
		require.NoError(t, err)

		_, err = f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 3, 1), date(2026, 3, 5)), renterID, key)
		assert.ErrorIs(t, err, errs.ErrDuplicateRequest)
		assert.Equal(t, 1, f.store.BookingCount())
	})

	t.Run("same key from a different renter books independently", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		key := uuid.New()

		_, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), key)
		require.NoError(t, err)

		_, err = f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 3, 1), date(2026, 3, 5)), uuid.New(), key)
		assert.NoError(t, err)
	})
}

func TestCreateBooking_ConcurrentOverlap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lb := builder.NewListingBuilder()
	f.store.SeedListing(lb.BuildDomain())

	requests := []commands.CreateBookingParams{
		params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)),
		params(lb.ID, date(2026, 2, 12), date(2026, 2, 15)),
	}

	errors := make([]error, len(requests))
	var wg sync.WaitGroup
	for i, p := range requests {
		wg.Add(1)
		go func(i int, p commands.CreateBookingParams) {
			defer wg.Done()
			_, errors[i] = f.commands.CreateBooking(ctx, p, uuid.New(), uuid.New())
		}(i, p)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errors {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, errs.ErrSlotUnavailable):
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one writer must win")
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, 1, f.store.BookingCount())
}

// =============================================================================
// Transition
// =============================================================================

func TestTransition(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *fixture, lb *builder.ListingBuilder, renterID uuid.UUID) *queries.BookingView {
		t.Helper()
		view, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), renterID, uuid.New())
		require.NoError(t, err)
		return view
	}

	t.Run("host confirms pending", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		view := create(t, f, lb, uuid.New())

		updated, err := f.commands.Transition(ctx, view.ID, booking.StatusConfirmed, lb.HostID)
		require.NoError(t, err)
		assert.Equal(t, "confirmed", updated.Status)
		assert.Contains(t, f.publisher.Names(), "booking.confirmed")
	})

	t.Run("host rejects pending", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		view := create(t, f, lb, uuid.New())

		updated, err := f.commands.Transition(ctx, view.ID, booking.StatusRejected, lb.HostID)
		require.NoError(t, err)
		assert.Equal(t, "rejected", updated.Status)
	})

	t.Run("renter cannot confirm own request", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		renterID := uuid.New()
		view := create(t, f, lb, renterID)

		_, err := f.commands.Transition(ctx, view.ID, booking.StatusConfirmed, renterID)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("stranger gets forbidden regardless of edge", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		view := create(t, f, lb, uuid.New())

		_, err := f.commands.Transition(ctx, view.ID, booking.StatusCancelled, uuid.New())
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("illegal edge", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		view := create(t, f, lb, uuid.New())

		_, err := f.commands.Transition(ctx, view.ID, booking.StatusCompleted, lb.HostID)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("unknown target status", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.commands.Transition(ctx, uuid.New(), booking.Status("archived"), uuid.New())
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.commands.Transition(ctx, uuid.New(), booking.StatusCancelled, uuid.New())
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("cancellation frees the slot", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		renterID := uuid.New()
		view := create(t, f, lb, renterID)

		_, err := f.commands.Transition(ctx, view.ID, booking.StatusCancelled, renterID)
		require.NoError(t, err)

		_, err = f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), uuid.New(), uuid.New())
		assert.NoError(t, err)
	})

	t.Run("rejection frees the slot", func(t *testing.T) {
		f := newFixture(t)
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		view := create(t, f, lb, uuid.New())

		_, err := f.commands.Transition(ctx, view.ID, booking.StatusRejected, lb.HostID)
		require.NoError(t, err)

		_, err = f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 11), date(2026, 2, 14)), uuid.New(), uuid.New())
		assert.NoError(t, err)
	})

	t.Run("confirmed cancellation blocked past the cutoff", func(t *testing.T) {
		f := newFixture(t, func(cfg *config.Config) {
			cfg.Booking.CancelCutoff = 45 * 24 * time.Hour
		})
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		renterID := uuid.New()
		view := create(t, f, lb, renterID)
		_, err := f.commands.Transition(ctx, view.ID, booking.StatusConfirmed, lb.HostID)
		require.NoError(t, err)

		// now = Jan 1, check-in Feb 10, cutoff 45 days: deadline already passed
		_, err = f.commands.Transition(ctx, view.ID, booking.StatusCancelled, renterID)
		assert.ErrorIs(t, err, errs.ErrCancelCutoffPassed)
	})

	t.Run("pending cancellation ignores the cutoff", func(t *testing.T) {
		f := newFixture(t, func(cfg *config.Config) {
			cfg.Booking.CancelCutoff = 45 * 24 * time.Hour
		})
		lb := builder.NewListingBuilder()
		f.store.SeedListing(lb.BuildDomain())
		renterID := uuid.New()
		view := create(t, f, lb, renterID)

		_, err := f.commands.Transition(ctx, view.ID, booking.StatusCancelled, renterID)
		assert.NoError(t, err)
	})
}

func TestTransition_ConfirmRecheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lb := builder.NewListingBuilder()
	f.store.SeedListing(lb.BuildDomain())

	// Two overlapping pendings can coexist only via direct seeding; the create
	// flow rejects the second. Both target the same February window.
	p1 := builder.NewBookingBuilder().ForListing(lb)
	p2 := builder.NewBookingBuilder().ForListing(lb).
		With(func(b *builder.BookingBuilder) {
			b.StartDate = date(2026, 2, 12)
			b.EndDate = date(2026, 2, 15)
		})
	f.store.SeedBooking(p1.BuildDomain())
	f.store.SeedBooking(p2.BuildDomain())

	_, err := f.commands.Transition(ctx, p1.ID, booking.StatusConfirmed, lb.HostID)
	require.NoError(t, err)

	// The second pending now collides with a confirmed booking.
	_, err = f.commands.Transition(ctx, p2.ID, booking.StatusConfirmed, lb.HostID)
	assert.ErrorIs(t, err, errs.ErrSlotUnavailable)

	view, err := f.queries.GetByIDSystem(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", view.Status)
}

// =============================================================================
// Completion
// =============================================================================

func TestLazyCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lb := builder.NewListingBuilder().
		With(func(l *builder.ListingBuilder) { l.RequiresHostApproval = false })
	f.store.SeedListing(lb.BuildDomain())
	renterID := uuid.New()

	view, err := f.commands.CreateBooking(ctx, params(lb.ID, date(2026, 2, 10), date(2026, 2, 13)), renterID, uuid.New())
	require.NoError(t, err)
	require.Equal(t, "confirmed", view.Status)

	f.clk.Set(date(2026, 2, 14))

	// Reads derive completion before anything is persisted.
	view, err = f.queries.GetByIDSystem(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", view.Status)

	// A transition settles the stored row first, then fails on the terminal
	// status rather than acting on stale 'confirmed'.
	_, err = f.commands.Transition(ctx, view.ID, booking.StatusCancelled, renterID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestCompleteElapsed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lb := builder.NewListingBuilder()
	f.store.SeedListing(lb.BuildDomain())

	elapsed := builder.NewBookingBuilder().ForListing(lb).
		With(func(b *builder.BookingBuilder) { b.Status = booking.StatusConfirmed })
	running := builder.NewBookingBuilder().ForListing(lb).
		With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusConfirmed
			b.StartDate = date(2026, 3, 1)
			b.EndDate = date(2026, 3, 5)
		})
	stillPending := builder.NewBookingBuilder().ForListing(lb).
		With(func(b *builder.BookingBuilder) {
			b.StartDate = date(2026, 4, 1)
			b.EndDate = date(2026, 4, 5)
		})
	f.store.SeedBooking(elapsed.BuildDomain())
	f.store.SeedBooking(running.BuildDomain())
	f.store.SeedBooking(stillPending.BuildDomain())

	f.clk.Set(date(2026, 2, 14))

	count, err := f.commands.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"booking.completed"}, f.publisher.Names())

	view, err := f.queries.GetByIDSystem(ctx, elapsed.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", view.Status)

	// Sweep is idempotent.
	count, err = f.commands.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
