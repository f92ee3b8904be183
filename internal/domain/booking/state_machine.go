package booking

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrActorNotAllowed   = errors.New("actor not allowed for transition")
)

type edge struct {
	from Status
	to   Status
}

// transitions is the full legal-edge table. Adding a status is a data change
// here, not new branching logic.
var transitions = map[edge][]Role{
	{StatusPending, StatusConfirmed}:   {RoleHost},
	{StatusPending, StatusRejected}:    {RoleHost},
	{StatusPending, StatusCancelled}:   {RoleRenter},
	{StatusConfirmed, StatusCancelled}: {RoleRenter, RoleHost},
	{StatusConfirmed, StatusCompleted}: {RoleSystem},
}

// TransitionError identifies the offending edge and actor so callers can
// explain the failure without a second lookup.
type TransitionError struct {
	From  Status
	To    Status
	Actor Role
	cause error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s -> %s (actor %s)", e.cause, e.From, e.To, e.Actor)
}

func (e *TransitionError) Unwrap() error {
	return e.cause
}

// CanTransition reports whether the edge exists for any actor.
func CanTransition(from, to Status) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// ValidateTransition checks the edge against the static table. A legal edge
// attempted by the wrong actor fails with ErrActorNotAllowed, not
// ErrIllegalTransition.
func ValidateTransition(from, to Status, actor Role) error {
	roles, ok := transitions[edge{from, to}]
	if !ok {
		return &TransitionError{From: from, To: to, Actor: actor, cause: ErrIllegalTransition}
	}
	for _, r := range roles {
		if r == actor {
			return nil
		}
	}
	return &TransitionError{From: from, To: to, Actor: actor, cause: ErrActorNotAllowed}
}
