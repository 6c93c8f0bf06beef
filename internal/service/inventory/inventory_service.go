package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/repository"
	"go.uber.org/zap"
)

// InventoryUseCase covers the administrative mutations over airports and
// flights plus the consistency audit. Mutations take the acting user
// explicitly and refuse non-admin actors before touching the store.
type InventoryUseCase interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	CreateAirport(ctx context.Context, actor domain.User, input CreateAirportInput) (*domain.Airport, error)
	DeleteAirport(ctx context.Context, actor domain.User, id int64) error
	CreateFlight(ctx context.Context, actor domain.User, input CreateFlightInput) (*domain.Flight, error)
	DeleteFlight(ctx context.Context, actor domain.User, id int64) error
	Audit(ctx context.Context) ([]domain.InventoryMismatch, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type CreateAirportInput struct {
	Code string `json:"code" validate:"required,alphanum,min=3,max=10"`
	Name string `json:"name" validate:"required,max=200"`
	City string `json:"city" validate:"required,max=200"`
}

type CreateFlightInput struct {
	FlightNumber       string    `json:"flight_number" validate:"required,max=50"`
	DepartureAirportID int64     `json:"departure_airport_id" validate:"required"`
	ArrivalAirportID   int64     `json:"arrival_airport_id" validate:"required"`
	DepartureTime      time.Time `json:"departure_time" validate:"required"`
	ArrivalTime        time.Time `json:"arrival_time" validate:"required"`
	PriceCents         int64     `json:"price_cents" validate:"gte=0"`
	TotalSeats         int       `json:"total_seats" validate:"gte=0"`
}

type InventoryService struct {
	airports repository.AirportRepository
	flights  repository.FlightRepository
	cache    Cache
	validate *validator.Validate
	log      *zap.Logger
}

func NewInventoryService(airports repository.AirportRepository, flights repository.FlightRepository, cache Cache, log *zap.Logger) *InventoryService {
	return &InventoryService{
		airports: airports,
		flights:  flights,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

func (s *InventoryService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.airports.List(ctx)
}

func (s *InventoryService) CreateAirport(ctx context.Context, actor domain.User, input CreateAirportInput) (*domain.Airport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	airport := &domain.Airport{
		Code: input.Code,
		Name: strings.TrimSpace(input.Name),
		City: strings.TrimSpace(input.City),
	}
	if err := s.airports.Create(ctx, airport); err != nil {
		return nil, err
	}

	s.log.Info("airport created", zap.String("code", airport.Code), zap.Int64("actor_id", actor.ID))
	return airport, nil
}

// DeleteAirport refuses to remove an airport that still has flights
// referencing it; the caller must delete those flights first.
func (s *InventoryService) DeleteAirport(ctx context.Context, actor domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.airports.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("airport deleted", zap.Int64("airport_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

func (s *InventoryService) CreateFlight(ctx context.Context, actor domain.User, input CreateFlightInput) (*domain.Flight, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if input.DepartureAirportID == input.ArrivalAirportID {
		return nil, fmt.Errorf("%w: departure and arrival airports must differ", domain.ErrValidation)
	}
	if !input.DepartureTime.Before(input.ArrivalTime) {
		return nil, fmt.Errorf("%w: departure time must precede arrival time", domain.ErrValidation)
	}

	if _, err := s.airports.GetByID(ctx, input.DepartureAirportID); err != nil {
		return nil, err
	}
	if _, err := s.airports.GetByID(ctx, input.ArrivalAirportID); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		FlightNumber:       strings.TrimSpace(input.FlightNumber),
		DepartureAirportID: input.DepartureAirportID,
		ArrivalAirportID:   input.ArrivalAirportID,
		DepartureTime:      input.DepartureTime,
		ArrivalTime:        input.ArrivalTime,
		PriceCents:         input.PriceCents,
		TotalSeats:         input.TotalSeats,
		SeatsAvailable:     input.TotalSeats,
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info("flight created",
		zap.String("flight_number", flight.FlightNumber),
		zap.Int64("flight_id", flight.ID),
		zap.Int64("actor_id", actor.ID),
	)
	return flight, nil
}

func (s *InventoryService) DeleteFlight(ctx context.Context, actor domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.flights.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("flight deleted", zap.Int64("flight_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

// Audit cross-checks every flight's seat counter against the sum of its
// committed bookings. A healthy store returns an empty slice.
func (s *InventoryService) Audit(ctx context.Context) ([]domain.InventoryMismatch, error) {
	return s.flights.Audit(ctx)
}

func (s *InventoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("failed to invalidate flights cache", zap.Error(err))
	}
}

func requireAdmin(actor domain.User) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

var _ InventoryUseCase = (*InventoryService)(nil)
