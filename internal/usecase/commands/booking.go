package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/infra"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/queries"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

const createBookingEndpoint = "POST /bookings"

const idempotencyWindow = 24 * time.Hour

// SlotConflictError carries enough structure for the caller to explain a
// rejected booking without a second round-trip.
type SlotConflictError struct {
	ListingID   uuid.UUID
	Requested   booking.DateRange
	Conflicting booking.DateRange
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot unavailable: listing %s, requested %s conflicts with %s",
		e.ListingID, e.Requested, e.Conflicting)
}

func (e *SlotConflictError) Unwrap() error {
	return errs.ErrSlotUnavailable
}

type CreateBookingParams struct {
	ListingID uuid.UUID `json:"listing_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, params CreateBookingParams, renterID, idempotencyKey uuid.UUID) (*queries.BookingView, error)
	Transition(ctx context.Context, bookingID uuid.UUID, target booking.Status, actorID uuid.UUID) (*queries.BookingView, error)
	// CompleteElapsed is the system sweep behind confirmed -> completed.
	// Read projections also derive completion lazily, so the sweep only has
	// to be monotonic, not prompt.
	CompleteElapsed(ctx context.Context) (int, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	services       *booking.Services
	publisher      EventPublisher
	deduper        CreateDeduper
	clock          clock.Clock
	policy         config.BookingConfig
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	services *booking.Services,
	publisher EventPublisher,
	deduper CreateDeduper,
	clk clock.Clock,
	cfg config.Config,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		services:       services,
		publisher:      publisher,
		deduper:        deduper,
		clock:          clk,
		policy:         cfg.Booking,
	}
}

func (c *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	params CreateBookingParams,
	renterID, idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	// Reject malformed input before any store access.
	dateRange, err := booking.NewDateRange(params.Start, params.End)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRange)
	}

	requestHash := calculateRequestHash(params)

	// Known duplicate: skip the listing lock and replay from the
	// authoritative idempotency record.
	if c.deduper.Seen(ctx, renterID, idempotencyKey) {
		if view, ok := c.tryReplay(ctx, idempotencyKey, renterID, requestHash); ok {
			return view, nil
		}
	}

	var (
		created  *booking.Booking
		replayID *uuid.UUID
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = nil
		replayID = nil

		expiresAt := c.clock.Now().Add(idempotencyWindow)
		if err := tx.Idempotency().TryInsert(ctx, idempotencyKey, renterID, createBookingEndpoint, requestHash, expiresAt); err != nil {
			return errs.Mark(err, errs.ErrIdempotencyCheckFailed)
		}
		record, err := tx.Idempotency().Get(ctx, idempotencyKey, renterID)
		if err != nil {
			return errs.Mark(err, errs.ErrIdempotencyCheckFailed)
		}
		if record.RequestHash != requestHash {
			return errs.ErrDuplicateRequest
		}
		switch record.Status {
		case "completed":
			if record.ResultBookingID == nil {
				return errs.New("completed request missing result booking ID")
			}
			replayID = record.ResultBookingID
			return nil
		case "processing":
			// This request claimed the key, or an identical retry did after a
			// failed attempt; proceed either way.
		default:
			return errs.New("invalid idempotency key status")
		}

		// Per-listing exclusion: the row lock serializes every concurrent
		// check-then-write for this listing until commit.
		lst, err := tx.Listings().FindByIDForUpdate(ctx, params.ListingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrListingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		b, err := booking.NewBooking(c.services, lst.Spec(), renterID, dateRange)
		if err != nil {
			return markDomainErr(err)
		}

		committed, err := tx.Bookings().CommittedRanges(ctx, lst.ID(), booking.CommittedStatuses(), uuid.Nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if conflicting, found := booking.FindConflict(dateRange, committed); found {
			return &SlotConflictError{ListingID: lst.ID(), Requested: dateRange, Conflicting: conflicting}
		}

		if err := tx.Bookings().Insert(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Idempotency().MarkCompleted(ctx, idempotencyKey, renterID, b.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, mapInfraErr(err)
	}

	if replayID != nil {
		return c.bookingQueries.GetByIDSystem(ctx, *replayID)
	}

	c.deduper.Mark(ctx, renterID, idempotencyKey)

	view, err := c.bookingQueries.GetByIDSystem(ctx, created.ID())
	if err != nil {
		return nil, err
	}

	c.publisher.Publish(ctx, booking.BookingCreated{
		BookingID:  created.ID(),
		ListingID:  created.ListingID(),
		RenterID:   created.RenterID(),
		HostID:     created.HostID(),
		Range:      created.DateRange(),
		Status:     created.Status(),
		TotalCents: created.Total().Cents(),
		Currency:   created.Total().Currency(),
		At:         created.CreatedAt(),
	})

	return view, nil
}

func (c *bookingCommandsImpl) tryReplay(
	ctx context.Context,
	key, renterID uuid.UUID,
	requestHash string,
) (*queries.BookingView, bool) {
	var view *queries.BookingView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		record, err := tx.Idempotency().Get(ctx, key, renterID)
		if err != nil {
			return err
		}
		if record.Status != "completed" || record.ResultBookingID == nil || record.RequestHash != requestHash {
			return errs.New("not replayable")
		}
		view, err = c.bookingQueries.GetByIDSystem(ctx, *record.ResultBookingID)
		return err
	})
	if err != nil {
		return nil, false
	}
	return view, true
}

func (c *bookingCommandsImpl) Transition(
	ctx context.Context,
	bookingID uuid.UUID,
	target booking.Status,
	actorID uuid.UUID,
) (*queries.BookingView, error) {
	if !target.IsValid() {
		return nil, errs.Mark(errs.New("unknown target status "+target.String()), errs.ErrInvalidTransition)
	}

	var ev booking.Event
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ev = nil

		probe, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Lock order is listing first, then booking, matching CreateBooking,
		// so confirm re-checks and creations on one listing serialize.
		if _, err := tx.Listings().FindByIDForUpdate(ctx, probe.ListingID()); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrListingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		now := c.clock.Now()
		if b.SettleElapsed(now) {
			if err := tx.Bookings().UpdateStatus(ctx, b.ID(), b.Status(), now); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		// Authorization before edge legality: strangers get Forbidden
		// regardless of the requested edge.
		role, ok := b.RoleOf(actorID)
		if !ok {
			return errs.ErrForbidden
		}

		if b.Status() == booking.StatusConfirmed && target == booking.StatusCancelled &&
			!b.CancellableAt(now, c.policy.CancelCutoff) {
			return errs.ErrCancelCutoffPassed
		}

		if b.Status() == booking.StatusPending && target == booking.StatusConfirmed {
			// Another overlapping request may have been confirmed since this
			// one was created; only confirmed bookings block confirmation.
			committed, err := tx.Bookings().CommittedRanges(ctx, b.ListingID(), []booking.Status{booking.StatusConfirmed}, b.ID())
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if conflicting, found := booking.FindConflict(b.DateRange(), committed); found {
				return &SlotConflictError{ListingID: b.ListingID(), Requested: b.DateRange(), Conflicting: conflicting}
			}
		}

		if err := b.ApplyTransition(target, role, now); err != nil {
			return markTransitionErr(err)
		}
		if err := tx.Bookings().UpdateStatus(ctx, b.ID(), b.Status(), now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		ev = booking.EventForTransition(b, role, now)
		return nil
	})
	if err != nil {
		return nil, mapInfraErr(err)
	}

	if ev != nil {
		c.publisher.Publish(ctx, ev)
	}

	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (c *bookingCommandsImpl) CompleteElapsed(ctx context.Context) (int, error) {
	var done []shared.CompletedBooking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		done, err = tx.Bookings().CompleteElapsed(ctx, c.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return 0, mapInfraErr(err)
	}

	at := c.clock.Now()
	for _, cb := range done {
		c.publisher.Publish(ctx, booking.BookingCompleted{BookingID: cb.ID, ListingID: cb.ListingID, At: at})
	}
	if len(done) > 0 {
		slog.Info("completed elapsed bookings", "count", len(done))
	}
	return len(done), nil
}

func markDomainErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrEmptyRange), errors.Is(err, booking.ErrRangeInPast):
		return errs.Mark(err, errs.ErrInvalidRange)
	case errors.Is(err, booking.ErrOwnListing):
		return errs.Mark(err, errs.ErrForbidden)
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}

func markTransitionErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrActorNotAllowed):
		return errs.Mark(err, errs.ErrForbidden)
	default:
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
}

// mapInfraErr translates exhausted-retry and deadline failures into the
// caller-facing taxonomy; business errors pass through untouched.
func mapInfraErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Mark(err, errs.ErrOperationTimeout)
	case infra.IsKind(err, infra.KindDBFailure):
		return errs.Mark(err, errs.ErrStoreUnavailable)
	default:
		return err
	}
}

func calculateRequestHash(params CreateBookingParams) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
