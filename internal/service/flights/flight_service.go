package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	List(ctx context.Context, filter Filter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

// Filter narrows the flight listing. All supplied fields apply together.
// Date is a calendar day (YYYY-MM-DD) in the service's time zone matching
// departures within [day 00:00, next day 00:00).
type Filter struct {
	DepartureAirportID int64
	ArrivalAirportID   int64
	Date               string
}

func (f Filter) empty() bool {
	return f.DepartureAirportID == 0 && f.ArrivalAirportID == 0 && f.Date == ""
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
	loc   *time.Location
	log   *zap.Logger
}

func NewFlightService(repo repository.FlightRepository, cache Cache, loc *time.Location, log *zap.Logger) *FlightService {
	if loc == nil {
		loc = time.UTC
	}
	return &FlightService{repo: repo, cache: cache, loc: loc, log: log}
}

func (s *FlightService) List(ctx context.Context, filter Filter) ([]domain.Flight, error) {
	repoFilter, err := s.toRepoFilter(filter)
	if err != nil {
		return nil, err
	}

	// Only the unfiltered listing is cached; filtered queries hit the store.
	if filter.empty() && s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if filter.empty() && s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn("failed to cache flights", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) toRepoFilter(filter Filter) (repository.FlightFilter, error) {
	out := repository.FlightFilter{
		DepartureAirportID: filter.DepartureAirportID,
		ArrivalAirportID:   filter.ArrivalAirportID,
	}
	if filter.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", filter.Date, s.loc)
		if err != nil {
			return repository.FlightFilter{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
		}
		out.DepartureFrom = day
		out.DepartureTo = day.AddDate(0, 0, 1)
	}
	return out, nil
}

var _ FlightUseCase = (*FlightService)(nil)
