//go:build unit || e2e

package builder

import (
	"time"

	dombooking "stayhub/internal/domain/booking"
	domlisting "stayhub/internal/domain/listing"

	"github.com/google/uuid"
)

type ListingBuilder struct {
	ID                   uuid.UUID
	HostID               uuid.UUID
	Name                 string
	RequiresHostApproval bool
	HasDateRange         bool
	HasSecurityDeposit   bool
	NightlyRateCents     int64
	SecurityDepositCents int64
	Currency             string
	CreatedAt            time.Time
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		ID:                   uuid.New(),
		HostID:               uuid.New(),
		Name:                 "Seaside Cottage",
		RequiresHostApproval: true,
		HasDateRange:         true,
		HasSecurityDeposit:   false,
		NightlyRateCents:     10000,
		SecurityDepositCents: 25000,
		Currency:             "USD",
		CreatedAt:            time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(b)
	return b
}

func (b *ListingBuilder) BuildDomain() *domlisting.Listing {
	return domlisting.ReconstructListing(
		b.ID, b.HostID, b.Name,
		b.RequiresHostApproval, b.HasDateRange, b.HasSecurityDeposit,
		b.NightlyRateCents, b.SecurityDepositCents, b.Currency,
		b.CreatedAt, b.CreatedAt,
	)
}

func (b *ListingBuilder) BuildSpec() dombooking.ListingSpec {
	return b.BuildDomain().Spec()
}

type BookingBuilder struct {
	ID         uuid.UUID
	ListingID  uuid.UUID
	RenterID   uuid.UUID
	HostID     uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Status     dombooking.Status
	TotalCents int64
	Currency   string
	CreatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:         uuid.New(),
		ListingID:  uuid.New(),
		RenterID:   uuid.New(),
		HostID:     uuid.New(),
		StartDate:  time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
		Status:     dombooking.StatusPending,
		TotalCents: 30000,
		Currency:   "USD",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// ForListing aligns the booking with a listing built by ListingBuilder.
func (b *BookingBuilder) ForListing(l *ListingBuilder) *BookingBuilder {
	b.ListingID = l.ID
	b.HostID = l.HostID
	return b
}

func (b *BookingBuilder) BuildDomain() *dombooking.Booking {
	return dombooking.ReconstructBooking(
		b.ID, b.ListingID, b.RenterID, b.HostID,
		dombooking.ReconstructDateRange(b.StartDate, b.EndDate),
		b.Status,
		dombooking.ReconstructMoney(b.TotalCents, b.Currency),
		b.CreatedAt, b.CreatedAt,
	)
}
