package memory

import (
	"context"
	"sort"

	"stayhub/internal/domain/booking"
	"stayhub/internal/infra"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingReadStore projects the store's maps the way the SQL read side
// projects its tables, including lazy completion of elapsed confirmed
// bookings.
type BookingReadStore struct {
	store *Store
	clock clock.Clock
}

func NewBookingReadStore(store *Store, clk clock.Clock) *BookingReadStore {
	return &BookingReadStore{store: store, clock: clk}
}

var _ queries.BookingReadStore = (*BookingReadStore)(nil)

func (s *BookingReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	b, ok := s.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return &queries.BookingView{
		ID:          b.ID(),
		ListingID:   b.ListingID(),
		ListingName: s.listingName(b.ListingID()),
		RenterID:    b.RenterID(),
		HostID:      b.HostID(),
		StartDate:   b.DateRange().Start(),
		EndDate:     b.DateRange().End(),
		Status:      s.effectiveStatus(b).String(),
		TotalCents:  b.Total().Cents(),
		Currency:    b.Total().Currency(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}, nil
}

func (s *BookingReadStore) FindByRenterID(_ context.Context, renterID uuid.UUID) ([]*queries.BookingListItem, error) {
	return s.list(func(b *booking.Booking) bool { return b.RenterID() == renterID }), nil
}

func (s *BookingReadStore) FindByHostID(_ context.Context, hostID uuid.UUID) ([]*queries.BookingListItem, error) {
	return s.list(func(b *booking.Booking) bool { return b.HostID() == hostID }), nil
}

func (s *BookingReadStore) FindCommittedRanges(_ context.Context, listingID uuid.UUID) ([]queries.BookedRange, error) {
	now := s.clock.Now()
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var ranges []queries.BookedRange
	for _, b := range s.store.bookings {
		if b.ListingID() != listingID || b.Status().IsTerminal() || b.DateRange().HasEnded(now) {
			continue
		}
		ranges = append(ranges, queries.BookedRange{Start: b.DateRange().Start(), End: b.DateRange().End()})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start.Before(ranges[j].Start) })
	return ranges, nil
}

func (s *BookingReadStore) list(match func(*booking.Booking) bool) []*queries.BookingListItem {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var items []*queries.BookingListItem
	for _, b := range s.store.bookings {
		if !match(b) {
			continue
		}
		items = append(items, &queries.BookingListItem{
			ID:          b.ID(),
			ListingID:   b.ListingID(),
			ListingName: s.listingName(b.ListingID()),
			StartDate:   b.DateRange().Start(),
			EndDate:     b.DateRange().End(),
			Status:      s.effectiveStatus(b).String(),
			TotalCents:  b.Total().Cents(),
			Currency:    b.Total().Currency(),
			CreatedAt:   b.CreatedAt(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items
}

func (s *BookingReadStore) effectiveStatus(b *booking.Booking) booking.Status {
	if b.Status() == booking.StatusConfirmed && b.DateRange().HasEnded(s.clock.Now()) {
		return booking.StatusCompleted
	}
	return b.Status()
}

func (s *BookingReadStore) listingName(id uuid.UUID) string {
	if l, ok := s.store.listings[id]; ok {
		return l.Name()
	}
	return ""
}
