package shared

import (
	"context"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/listing"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic.
	// Conflict checks and the write they guard must share one call.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Listings() ListingRepository
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
}

type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	// FindByIDForUpdate takes the per-listing lock serializing booking writes
	// for that listing until the transaction ends. Writers of different
	// listings never contend.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
}

type BookingRepository interface {
	Insert(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, updatedAt time.Time) error
	// CommittedRanges returns the ordered ranges of bookings on the listing
	// whose status is in statuses, excluding the given booking id (uuid.Nil
	// excludes nothing).
	CommittedRanges(ctx context.Context, listingID uuid.UUID, statuses []booking.Status, exclude uuid.UUID) ([]booking.DateRange, error)
	// CompleteElapsed marks confirmed bookings whose range has ended as
	// completed and reports what it touched.
	CompleteElapsed(ctx context.Context, now time.Time) ([]CompletedBooking, error)
}

type CompletedBooking struct {
	ID        uuid.UUID
	ListingID uuid.UUID
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Endpoint        string
	RequestHash     string
	Status          string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key, userID uuid.UUID, resultBookingID uuid.UUID) error
}
