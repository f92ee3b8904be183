package booking

import (
	"time"

	"github.com/google/uuid"
)

// Event is consumed by the notification collaborator. Delivery is
// best-effort and never part of the booking transaction.
type Event interface {
	EventName() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

type BookingCreated struct {
	BookingID  uuid.UUID
	ListingID  uuid.UUID
	RenterID   uuid.UUID
	HostID     uuid.UUID
	Range      DateRange
	Status     Status
	TotalCents int64
	Currency   string
	At         time.Time
}

func (e BookingCreated) EventName() string      { return "booking.created" }
func (e BookingCreated) AggregateID() uuid.UUID { return e.BookingID }
func (e BookingCreated) OccurredAt() time.Time  { return e.At }

type BookingConfirmed struct {
	BookingID uuid.UUID
	ListingID uuid.UUID
	Range     DateRange
	At        time.Time
}

func (e BookingConfirmed) EventName() string      { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() uuid.UUID { return e.BookingID }
func (e BookingConfirmed) OccurredAt() time.Time  { return e.At }

type BookingRejected struct {
	BookingID uuid.UUID
	ListingID uuid.UUID
	At        time.Time
}

func (e BookingRejected) EventName() string      { return "booking.rejected" }
func (e BookingRejected) AggregateID() uuid.UUID { return e.BookingID }
func (e BookingRejected) OccurredAt() time.Time  { return e.At }

type BookingCancelled struct {
	BookingID   uuid.UUID
	ListingID   uuid.UUID
	Range       DateRange
	CancelledBy Role
	At          time.Time
}

func (e BookingCancelled) EventName() string      { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() uuid.UUID { return e.BookingID }
func (e BookingCancelled) OccurredAt() time.Time  { return e.At }

type BookingCompleted struct {
	BookingID uuid.UUID
	ListingID uuid.UUID
	At        time.Time
}

func (e BookingCompleted) EventName() string      { return "booking.completed" }
func (e BookingCompleted) AggregateID() uuid.UUID { return e.BookingID }
func (e BookingCompleted) OccurredAt() time.Time  { return e.At }

// EventForTransition maps a persisted transition to its outbound event.
// Returns nil for edges with no subscriber interest.
func EventForTransition(b *Booking, actor Role, at time.Time) Event {
	switch b.Status() {
	case StatusConfirmed:
		return BookingConfirmed{BookingID: b.ID(), ListingID: b.ListingID(), Range: b.DateRange(), At: at}
	case StatusRejected:
		return BookingRejected{BookingID: b.ID(), ListingID: b.ListingID(), At: at}
	case StatusCancelled:
		return BookingCancelled{BookingID: b.ID(), ListingID: b.ListingID(), Range: b.DateRange(), CancelledBy: actor, At: at}
	case StatusCompleted:
		return BookingCompleted{BookingID: b.ID(), ListingID: b.ListingID(), At: at}
	default:
		return nil
	}
}
