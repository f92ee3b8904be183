package listing

import (
	"errors"
	"time"

	"stayhub/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrEmptyName    = errors.New("listing name is required")
	ErrMissingHost  = errors.New("listing host is required")
	ErrNegativeRate = errors.New("nightly rate cannot be negative")
)

// Listing is the reservation core's view of a rentable item. The surrounding
// application owns listing CRUD; this entity only carries what booking
// decisions need, including the capability flags that distinguish dated
// rentals (houses, rooms, vehicles) from dateless ones.
type Listing struct {
	id                   uuid.UUID
	hostID               uuid.UUID
	name                 string
	requiresHostApproval bool
	hasDateRange         bool
	hasSecurityDeposit   bool
	nightlyRateCents     int64
	securityDepositCents int64
	currency             string
	createdAt            time.Time
	updatedAt            time.Time
}

func NewListing(
	id, hostID uuid.UUID,
	name string,
	requiresHostApproval, hasDateRange, hasSecurityDeposit bool,
	nightlyRateCents, securityDepositCents int64,
	currency string,
) (*Listing, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if hostID == uuid.Nil {
		return nil, ErrMissingHost
	}
	if nightlyRateCents < 0 || securityDepositCents < 0 {
		return nil, ErrNegativeRate
	}
	return &Listing{
		id:                   id,
		hostID:               hostID,
		name:                 name,
		requiresHostApproval: requiresHostApproval,
		hasDateRange:         hasDateRange,
		hasSecurityDeposit:   hasSecurityDeposit,
		nightlyRateCents:     nightlyRateCents,
		securityDepositCents: securityDepositCents,
		currency:             currency,
	}, nil
}

func ReconstructListing(
	id, hostID uuid.UUID,
	name string,
	requiresHostApproval, hasDateRange, hasSecurityDeposit bool,
	nightlyRateCents, securityDepositCents int64,
	currency string,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:                   id,
		hostID:               hostID,
		name:                 name,
		requiresHostApproval: requiresHostApproval,
		hasDateRange:         hasDateRange,
		hasSecurityDeposit:   hasSecurityDeposit,
		nightlyRateCents:     nightlyRateCents,
		securityDepositCents: securityDepositCents,
		currency:             currency,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// Spec projects the listing into the booking domain's snapshot type.
func (l *Listing) Spec() booking.ListingSpec {
	return booking.ListingSpec{
		ID:                   l.id,
		HostID:               l.hostID,
		RequiresHostApproval: l.requiresHostApproval,
		HasDateRange:         l.hasDateRange,
		HasSecurityDeposit:   l.hasSecurityDeposit,
		NightlyRateCents:     l.nightlyRateCents,
		SecurityDepositCents: l.securityDepositCents,
		Currency:             l.currency,
	}
}

func (l *Listing) ID() uuid.UUID              { return l.id }
func (l *Listing) HostID() uuid.UUID          { return l.hostID }
func (l *Listing) Name() string               { return l.name }
func (l *Listing) RequiresHostApproval() bool { return l.requiresHostApproval }
func (l *Listing) HasDateRange() bool         { return l.hasDateRange }
func (l *Listing) HasSecurityDeposit() bool   { return l.hasSecurityDeposit }
func (l *Listing) NightlyRateCents() int64    { return l.nightlyRateCents }
func (l *Listing) Currency() string           { return l.currency }
func (l *Listing) CreatedAt() time.Time       { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time       { return l.updatedAt }
