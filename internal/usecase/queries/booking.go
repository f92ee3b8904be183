package queries

import (
	"context"
	"time"

	"stayhub/internal/infra"
	"stayhub/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	RenterID    uuid.UUID `json:"renter_id"`
	HostID      uuid.UUID `json:"host_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"total_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"total_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookedRange is the public calendar view: dates only, no personal fields.
type BookedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRenterID(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error)
	FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*BookingListItem, error)
	// FindCommittedRanges returns ordered pending/confirmed ranges for the
	// listing, derived from the booking table on every call.
	FindCommittedRanges(ctx context.Context, listingID uuid.UUID) ([]BookedRange, error)
}

type BookingQueries interface {
	// GetByID is actor-scoped: only the booking's renter or host may read it.
	GetByID(ctx context.Context, actorID, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips the actor check, for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]*BookingListItem, error)
	// BookedDates is safe for public display.
	BookedDates(ctx context.Context, listingID uuid.UUID) ([]BookedRange, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != view.RenterID && actorID != view.HostID {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error) {
	items, err := q.store.FindByRenterID(ctx, renterID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return items, nil
}

func (q *bookingQueriesImpl) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*BookingListItem, error) {
	items, err := q.store.FindByHostID(ctx, hostID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return items, nil
}

func (q *bookingQueriesImpl) BookedDates(ctx context.Context, listingID uuid.UUID) ([]BookedRange, error) {
	ranges, err := q.store.FindCommittedRanges(ctx, listingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return ranges, nil
}
