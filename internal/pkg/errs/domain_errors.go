package errs

import "errors"

// Shared sentinel errors for the slot coordination engine. Handlers map
// these onto the client-visible error surface; none of them ever tears
// down a scope's serialization point.
var (
	// Slot lookup / contention
	ErrSlotNotFound  = errors.New("slot not found")
	ErrAlreadyHeld   = errors.New("slot already held")
	ErrAlreadyBooked = errors.New("slot already booked")
	ErrNotHolder     = errors.New("caller does not hold this slot")
	ErrHoldExpired   = errors.New("hold expired")

	// Optimistic concurrency: caller must re-fetch and retry.
	ErrSlotConflict = errors.New("slot version conflict")

	// Session lifecycle
	ErrSessionNotFound = errors.New("session not found")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
