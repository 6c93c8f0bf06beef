package domain

import "errors"

var (
	ErrAirportNotFound = errors.New("airport not found")
	ErrFlightNotFound  = errors.New("flight not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrValidation        = errors.New("validation failed")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin role required")

	ErrEmailTaken       = errors.New("email already registered")
	ErrAirportCodeTaken = errors.New("airport code already exists")
	ErrAirportInUse     = errors.New("airport is referenced by flights")
	ErrFlightInUse      = errors.New("flight is referenced by bookings")
)

// IsNotFound reports whether err is one of the missing-entity sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAirportNotFound) ||
		errors.Is(err, ErrFlightNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

// IsConflict reports whether err is a uniqueness or referential-integrity
// violation surfaced from the store.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAirportCodeTaken) ||
		errors.Is(err, ErrAirportInUse) ||
		errors.Is(err, ErrFlightInUse)
}
