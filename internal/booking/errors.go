package booking

import "errors"

// Sentinel errors shared by the store, the HTTP layer and the identity
// middleware. Callers wrap them with fmt.Errorf("...: %w", err) and classify
// with errors.Is.
var (
	// ErrOverlap is returned when a create or update would double-book a cabin.
	ErrOverlap = errors.New("Reservation overlaps with an existing booking.")

	// ErrNotFound covers missing reservations, cabins, services and users.
	ErrNotFound = errors.New("not found")

	// ErrState is returned for updates against cancelled or already accepted
	// reservations and for attempts to change immutable fields.
	ErrState = errors.New("invalid reservation state")

	// ErrInvalidRange is returned when start is not strictly before end where
	// a well-formed range is required.
	ErrInvalidRange = errors.New("invalid date range")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTokenExpired    = errors.New("token expired")
	ErrForbidden       = errors.New("forbidden")
)
