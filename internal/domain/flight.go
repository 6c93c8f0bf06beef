package domain

import "time"

type Flight struct {
	ID                 int64
	FlightNumber       string
	DepartureAirportID int64
	ArrivalAirportID   int64
	DepartureTime      time.Time
	ArrivalTime        time.Time
	PriceCents         int64
	TotalSeats         int
	SeatsAvailable     int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InventoryMismatch reports a flight whose cached seat counter disagrees
// with the sum of its committed bookings.
type InventoryMismatch struct {
	FlightID       int64
	TotalSeats     int
	SeatsAvailable int
	BookedSeats    int
}
