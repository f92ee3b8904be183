package booking

import (
	"errors"
	"time"

	"stayhub/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrOwnListing      = errors.New("renter cannot book their own listing")
	ErrDatelessListing = errors.New("listing does not take date-range bookings")
	ErrNegativeQuote   = errors.New("quoted total cannot be negative")
)

// ListingSpec is the slice of a listing the reservation core needs. The host
// id is copied onto the booking at creation and frozen there; a listing
// changing hands later never rewrites existing bookings.
type ListingSpec struct {
	ID                   uuid.UUID
	HostID               uuid.UUID
	RequiresHostApproval bool
	HasDateRange         bool
	HasSecurityDeposit   bool
	NightlyRateCents     int64
	SecurityDepositCents int64
	Currency             string
}

type PriceQuoter interface {
	QuoteTotalCents(spec ListingSpec, r DateRange) int64
}

type Services struct {
	Clock  clock.Clock
	Quoter PriceQuoter
}

type Booking struct {
	id        uuid.UUID
	listingID uuid.UUID
	renterID  uuid.UUID
	hostID    uuid.UUID
	dateRange DateRange
	status    Status
	total     Money
	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(
	services *Services,
	spec ListingSpec,
	renterID uuid.UUID,
	r DateRange,
) (*Booking, error) {
	if !spec.HasDateRange {
		return nil, ErrDatelessListing
	}
	if renterID == spec.HostID {
		return nil, ErrOwnListing
	}
	now := services.Clock.Now()
	if err := r.ValidateNotPast(now); err != nil {
		return nil, err
	}

	quoted := services.Quoter.QuoteTotalCents(spec, r)
	if quoted < 0 {
		return nil, ErrNegativeQuote
	}
	total, err := NewMoney(quoted, spec.Currency)
	if err != nil {
		return nil, err
	}

	status := StatusConfirmed
	if spec.RequiresHostApproval {
		status = StatusPending
	}

	created := now.UTC()
	return &Booking{
		id:        uuid.New(),
		listingID: spec.ID,
		renterID:  renterID,
		hostID:    spec.HostID,
		dateRange: r,
		status:    status,
		total:     total,
		createdAt: created,
		updatedAt: created,
	}, nil
}

func ReconstructBooking(
	id, listingID, renterID, hostID uuid.UUID,
	dateRange DateRange,
	status Status,
	total Money,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		listingID: listingID,
		renterID:  renterID,
		hostID:    hostID,
		dateRange: dateRange,
		status:    status,
		total:     total,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// RoleOf resolves the actor's relationship to this booking. Anyone else has
// no standing on it.
func (b *Booking) RoleOf(actorID uuid.UUID) (Role, bool) {
	switch actorID {
	case b.renterID:
		return RoleRenter, true
	case b.hostID:
		return RoleHost, true
	default:
		return "", false
	}
}

// ApplyTransition moves the booking along a validated edge. Authorization and
// edge legality are both enforced here; callers re-check slot conflicts for
// the pending -> confirmed edge before persisting.
func (b *Booking) ApplyTransition(target Status, actor Role, now time.Time) error {
	if err := ValidateTransition(b.status, target, actor); err != nil {
		return err
	}
	b.status = target
	b.updatedAt = now.UTC()
	return nil
}

// SettleElapsed lazily completes a confirmed booking whose range has ended.
// The move is monotonic: completed is terminal and never reverts.
func (b *Booking) SettleElapsed(now time.Time) bool {
	if b.status == StatusConfirmed && b.dateRange.HasEnded(now) {
		b.status = StatusCompleted
		b.updatedAt = now.UTC()
		return true
	}
	return false
}

// CancellableAt reports whether a confirmed booking may still be cancelled,
// given the policy cutoff before check-in.
func (b *Booking) CancellableAt(now time.Time, cutoff time.Duration) bool {
	return now.Before(b.dateRange.Start().Add(-cutoff))
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) ListingID() uuid.UUID { return b.listingID }
func (b *Booking) RenterID() uuid.UUID  { return b.renterID }
func (b *Booking) HostID() uuid.UUID    { return b.hostID }
func (b *Booking) DateRange() DateRange { return b.dateRange }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) Total() Money         { return b.total }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// NightlyPriceQuoter quotes nightly rate times nights, plus the security
// deposit where the listing carries one.
type NightlyPriceQuoter struct{}

func NewNightlyPriceQuoter() *NightlyPriceQuoter {
	return &NightlyPriceQuoter{}
}

func (q *NightlyPriceQuoter) QuoteTotalCents(spec ListingSpec, r DateRange) int64 {
	total := spec.NightlyRateCents * int64(r.Nights())
	if spec.HasSecurityDeposit {
		total += spec.SecurityDepositCents
	}
	return total
}
