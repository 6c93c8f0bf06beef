// Package memory holds an in-process implementation of the repository
// interfaces. It backs tests that need real interleaving (the Postgres
// repositories serialize on row locks, this store serializes on a mutex)
// and local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/repository"
)

type Store struct {
	mu sync.Mutex

	airports map[int64]domain.Airport
	flights  map[int64]domain.Flight
	users    map[int64]domain.User
	bookings map[int64]domain.Booking

	nextID int64
}

func NewStore() *Store {
	return &Store{
		airports: make(map[int64]domain.Airport),
		flights:  make(map[int64]domain.Flight),
		users:    make(map[int64]domain.User),
		bookings: make(map[int64]domain.Booking),
	}
}

func (s *Store) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

// Airports exposes the store as an AirportRepository.
func (s *Store) Airports() repository.AirportRepository { return (*airportStore)(s) }

// Flights exposes the store as a FlightRepository.
func (s *Store) Flights() repository.FlightRepository { return (*flightStore)(s) }

// Users exposes the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return (*userStore)(s) }

// Bookings exposes the store as a BookingRepository.
func (s *Store) Bookings() repository.BookingRepository { return (*bookingStore)(s) }

// The four repository interfaces overlap on method names (Create, List,
// GetByID, Delete), so each one is served by a thin view type over the
// shared store.

type airportStore Store

func (s *airportStore) Create(ctx context.Context, airport *domain.Airport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.airports {
		if a.Code == airport.Code {
			return domain.ErrAirportCodeTaken
		}
	}
	airport.ID = (*Store)(s).nextSeq()
	airport.CreatedAt = time.Now()
	airport.UpdatedAt = airport.CreatedAt
	s.airports[airport.ID] = *airport
	return nil
}

func (s *airportStore) List(ctx context.Context) ([]domain.Airport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	airports := make([]domain.Airport, 0, len(s.airports))
	for _, a := range s.airports {
		airports = append(airports, a)
	}
	sort.Slice(airports, func(i, j int) bool { return airports[i].Code < airports[j].Code })
	return airports, nil
}

func (s *airportStore) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.airports[id]
	if !ok {
		return nil, domain.ErrAirportNotFound
	}
	return &a, nil
}

func (s *airportStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.airports[id]; !ok {
		return domain.ErrAirportNotFound
	}
	for _, f := range s.flights {
		if f.DepartureAirportID == id || f.ArrivalAirportID == id {
			return domain.ErrAirportInUse
		}
	}
	delete(s.airports, id)
	return nil
}

type flightStore Store

func (s *flightStore) Create(ctx context.Context, flight *domain.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.airports[flight.DepartureAirportID]; !ok {
		return domain.ErrAirportNotFound
	}
	if _, ok := s.airports[flight.ArrivalAirportID]; !ok {
		return domain.ErrAirportNotFound
	}
	flight.ID = (*Store)(s).nextSeq()
	flight.SeatsAvailable = flight.TotalSeats
	flight.CreatedAt = time.Now()
	flight.UpdatedAt = flight.CreatedAt
	s.flights[flight.ID] = *flight
	return nil
}

func (s *flightStore) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flights := make([]domain.Flight, 0)
	for _, f := range s.flights {
		if filter.DepartureAirportID != 0 && f.DepartureAirportID != filter.DepartureAirportID {
			continue
		}
		if filter.ArrivalAirportID != 0 && f.ArrivalAirportID != filter.ArrivalAirportID {
			continue
		}
		if !filter.DepartureFrom.IsZero() && f.DepartureTime.Before(filter.DepartureFrom) {
			continue
		}
		if !filter.DepartureTo.IsZero() && !f.DepartureTime.Before(filter.DepartureTo) {
			continue
		}
		flights = append(flights, f)
	}
	sort.Slice(flights, func(i, j int) bool {
		if !flights[i].DepartureTime.Equal(flights[j].DepartureTime) {
			return flights[i].DepartureTime.Before(flights[j].DepartureTime)
		}
		return flights[i].ID < flights[j].ID
	})
	return flights, nil
}

func (s *flightStore) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

func (s *flightStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flights[id]; !ok {
		return domain.ErrFlightNotFound
	}
	for _, b := range s.bookings {
		if b.FlightID == id {
			return domain.ErrFlightInUse
		}
	}
	delete(s.flights, id)
	return nil
}

func (s *flightStore) BookedSeats(ctx context.Context, flightID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flights[flightID]; !ok {
		return 0, domain.ErrFlightNotFound
	}
	sum := 0
	for _, b := range s.bookings {
		if b.FlightID == flightID {
			sum += b.Seats
		}
	}
	return sum, nil
}

func (s *flightStore) Audit(ctx context.Context) ([]domain.InventoryMismatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booked := make(map[int64]int)
	for _, b := range s.bookings {
		booked[b.FlightID] += b.Seats
	}

	var mismatches []domain.InventoryMismatch
	for _, f := range s.flights {
		if f.SeatsAvailable < 0 || f.SeatsAvailable != f.TotalSeats-booked[f.ID] {
			mismatches = append(mismatches, domain.InventoryMismatch{
				FlightID:       f.ID,
				TotalSeats:     f.TotalSeats,
				SeatsAvailable: f.SeatsAvailable,
				BookedSeats:    booked[f.ID],
			})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].FlightID < mismatches[j].FlightID })
	return mismatches, nil
}

type userStore Store

func (s *userStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	user.ID = (*Store)(s).nextSeq()
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type bookingStore Store

// Reserve checks and decrements the seat counter and records the booking
// under one critical section, so the counter can never go negative however
// the callers interleave.
func (s *bookingStore) Reserve(ctx context.Context, booking *domain.Booking) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[booking.FlightID]
	if !ok {
		return 0, domain.ErrFlightNotFound
	}
	if f.SeatsAvailable < booking.Seats {
		return 0, domain.ErrInsufficientSeats
	}
	if _, ok := s.users[booking.UserID]; !ok {
		return 0, domain.ErrUserNotFound
	}

	f.SeatsAvailable -= booking.Seats
	f.UpdatedAt = time.Now()
	s.flights[f.ID] = f

	booking.ID = (*Store)(s).nextSeq()
	booking.CreatedAt = time.Now()
	s.bookings[booking.ID] = *booking
	return f.SeatsAvailable, nil
}

func (s *bookingStore) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.Reference == reference {
			return &b, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (s *bookingStore) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID > bookings[j].ID })
	return bookings, nil
}

var (
	_ repository.AirportRepository = (*airportStore)(nil)
	_ repository.FlightRepository  = (*flightStore)(nil)
	_ repository.UserRepository    = (*userStore)(nil)
	_ repository.BookingRepository = (*bookingStore)(nil)
)
