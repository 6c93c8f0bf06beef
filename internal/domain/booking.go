package domain

import "time"

// Booking is immutable once committed: there is no edit or cancel flow,
// so a row's seat count stays part of the flight's booked sum forever.
type Booking struct {
	ID            int64
	Reference     string
	FlightID      int64
	UserID        int64
	PassengerName string
	Seats         int
	CreatedAt     time.Time
}
