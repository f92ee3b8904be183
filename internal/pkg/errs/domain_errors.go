package errs

import "errors"

// Domain-specific sentinel errors for the booking usecase layers
var (
	// Lookup errors
	ErrListingNotFound = errors.New("listing not found")
	ErrBookingNotFound = errors.New("booking not found")

	// Booking errors
	ErrInvalidRange       = errors.New("invalid date range")
	ErrSlotUnavailable    = errors.New("slot unavailable")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCancelCutoffPassed = errors.New("cancellation cutoff passed")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrDuplicateRequest       = errors.New("duplicate request")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Infrastructure errors
	ErrStoreUnavailable        = errors.New("store unavailable")
	ErrOperationTimeout        = errors.New("operation timed out")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
