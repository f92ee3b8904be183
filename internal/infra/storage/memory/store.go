// Package memory is a map-backed storage double for exercising the booking
// flows without Postgres. The per-listing mutex mirrors the production row
// lock: FindByIDForUpdate blocks until the holding transaction finishes, so
// concurrency tests see the same serialization the database enforces.
package memory

import (
	"sync"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/listing"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type idemKey struct {
	key    uuid.UUID
	userID uuid.UUID
}

type Store struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]*listing.Listing
	bookings map[uuid.UUID]*booking.Booking
	idem     map[idemKey]*shared.IdempotencyRecord

	lockMu       sync.Mutex
	listingLocks map[uuid.UUID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		listings:     make(map[uuid.UUID]*listing.Listing),
		bookings:     make(map[uuid.UUID]*booking.Booking),
		idem:         make(map[idemKey]*shared.IdempotencyRecord),
		listingLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) SeedListing(l *listing.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID()] = l
}

// SeedBooking stores a booking directly, bypassing the create flow. Tests use
// it to set up histories the flow would reject today.
func (s *Store) SeedBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = snapshotBooking(b)
}

func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

func (s *Store) listingLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	m, ok := s.listingLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.listingLocks[id] = m
	}
	return m
}

// snapshotBooking copies the entity so callers never share mutable state with
// the store.
func snapshotBooking(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.ListingID(), b.RenterID(), b.HostID(),
		b.DateRange(), b.Status(), b.Total(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}
