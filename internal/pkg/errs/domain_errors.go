package errs

import "errors"

// Error kinds surfaced by the booking core. Use cases mark concrete failures
// with one of these so handlers can map them without string matching.
var (
	// Malformed availability rules or booking input
	ErrValidation = errors.New("validation error")

	// Slot is taken, held by someone else, outside any window or already started
	ErrSlotUnavailable = errors.New("slot unavailable")

	// Ledger overlap guard fired; never returned past the use case layer
	ErrConflict = errors.New("booking conflict")

	ErrUnauthorizedAction = errors.New("unauthorized action")
	ErrNotFound           = errors.New("not found")

	// Status change not allowed by the booking state machine
	ErrInvalidTransition = errors.New("invalid status transition")
)
