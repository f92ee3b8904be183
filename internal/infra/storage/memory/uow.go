package memory

import (
	"context"
	"sort"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/listing"
	"stayhub/internal/infra"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

// UoW runs the transaction function against the shared store. Writes apply
// immediately; the flows validate before writing, so there is nothing to roll
// back on the paths tests exercise.
type UoW struct {
	store *Store
}

func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

var _ shared.UnitOfWork = (*UoW)(nil)

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &memTx{store: u.store, held: make(map[uuid.UUID]struct{})}
	defer tx.releaseLocks()
	return fn(ctx, tx)
}

type memTx struct {
	store *Store
	held  map[uuid.UUID]struct{}
}

func (t *memTx) Listings() shared.ListingRepository { return &listingRepo{tx: t} }

func (t *memTx) Bookings() shared.BookingRepository { return &bookingRepo{tx: t} }

func (t *memTx) Idempotency() shared.IdempotencyRepository { return &idemRepo{tx: t} }

func (t *memTx) releaseLocks() {
	for id := range t.held {
		t.store.listingLock(id).Unlock()
	}
}

type listingRepo struct {
	tx *memTx
}

func (r *listingRepo) FindByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "listing not found", nil)
	}
	return l, nil
}

func (r *listingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, already := r.tx.held[id]; !already {
		r.tx.store.listingLock(id).Lock()
		r.tx.held[id] = struct{}{}
	}
	return l, nil
}

type bookingRepo struct {
	tx *memTx
}

func (r *bookingRepo) Insert(_ context.Context, b *booking.Booking) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[b.ID()]; exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "booking already exists", nil)
	}
	s.bookings[b.ID()] = snapshotBooking(b)
	return nil
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return snapshotBooking(b), nil
}

func (r *bookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *bookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status booking.Status, updatedAt time.Time) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found for status update", nil)
	}
	s.bookings[id] = booking.ReconstructBooking(
		b.ID(), b.ListingID(), b.RenterID(), b.HostID(),
		b.DateRange(), status, b.Total(),
		b.CreatedAt(), updatedAt,
	)
	return nil
}

func (r *bookingRepo) CommittedRanges(
	_ context.Context,
	listingID uuid.UUID,
	statuses []booking.Status,
	exclude uuid.UUID,
) ([]booking.DateRange, error) {
	wanted := make(map[booking.Status]struct{}, len(statuses))
	for _, st := range statuses {
		wanted[st] = struct{}{}
	}

	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ranges []booking.DateRange
	for _, b := range s.bookings {
		if b.ListingID() != listingID || b.ID() == exclude {
			continue
		}
		if _, ok := wanted[b.Status()]; !ok {
			continue
		}
		ranges = append(ranges, b.DateRange())
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start().Before(ranges[j].Start()) })
	return ranges, nil
}

func (r *bookingRepo) CompleteElapsed(_ context.Context, now time.Time) ([]shared.CompletedBooking, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var done []shared.CompletedBooking
	for id, b := range s.bookings {
		if b.Status() != booking.StatusConfirmed || !b.DateRange().HasEnded(now) {
			continue
		}
		s.bookings[id] = booking.ReconstructBooking(
			b.ID(), b.ListingID(), b.RenterID(), b.HostID(),
			b.DateRange(), booking.StatusCompleted, b.Total(),
			b.CreatedAt(), now,
		)
		done = append(done, shared.CompletedBooking{ID: b.ID(), ListingID: b.ListingID()})
	}
	return done, nil
}

type idemRepo struct {
	tx *memTx
}

func (r *idemRepo) TryInsert(_ context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	k := idemKey{key: key, userID: userID}
	if _, exists := s.idem[k]; exists {
		return nil
	}
	s.idem[k] = &shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Status:      "processing",
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (r *idemRepo) Get(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.idem[idemKey{key: key, userID: userID}]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "idempotency key not found", nil)
	}
	cp := *rec
	return &cp, nil
}

func (r *idemRepo) MarkCompleted(_ context.Context, key, userID, resultBookingID uuid.UUID) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.idem[idemKey{key: key, userID: userID}]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "idempotency key not found", nil)
	}
	rec.Status = "completed"
	id := resultBookingID
	rec.ResultBookingID = &id
	return nil
}
