package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions leave this status.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// IsCommitted reports whether a booking in this status occupies its date
// range on the listing calendar.
func (s Status) IsCommitted() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CommittedStatuses are the statuses whose ranges block new bookings.
func CommittedStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

// Role is the actor's relationship to a booking, not a global user role.
type Role string

const (
	RoleRenter Role = "renter"
	RoleHost   Role = "host"
	RoleSystem Role = "system"
)

func (r Role) String() string {
	return string(r)
}
