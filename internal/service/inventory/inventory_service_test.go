package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAirportRepository struct {
	mock.Mock
}

func (m *MockAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	args := m.Called(ctx, airport)
	return args.Error(0)
}

func (m *MockAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightRepository) BookedSeats(ctx context.Context, flightID int64) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

func (m *MockFlightRepository) Audit(ctx context.Context) ([]domain.InventoryMismatch, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InventoryMismatch), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	admin   = domain.User{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	regular = domain.User{ID: 2, Email: "user@example.com", Role: domain.RoleUser}
)

func validFlightInput() CreateFlightInput {
	departure := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return CreateFlightInput{
		FlightNumber:       "AI101",
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
		DepartureTime:      departure,
		ArrivalTime:        departure.Add(2 * time.Hour),
		PriceCents:         550000,
		TotalSeats:         180,
	}
}

func TestInventoryService_NonAdminForbidden(t *testing.T) {
	airports := &MockAirportRepository{}
	flights := &MockFlightRepository{}
	service := NewInventoryService(airports, flights, nil, zap.NewNop())
	ctx := context.Background()

	_, err := service.CreateAirport(ctx, regular, CreateAirportInput{Code: "DEL", Name: "Indira Gandhi", City: "Delhi"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, service.DeleteAirport(ctx, regular, 1), domain.ErrForbidden)

	_, err = service.CreateFlight(ctx, regular, validFlightInput())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, service.DeleteFlight(ctx, regular, 1), domain.ErrForbidden)

	airports.AssertNotCalled(t, "Create")
	airports.AssertNotCalled(t, "Delete")
	flights.AssertNotCalled(t, "Create")
	flights.AssertNotCalled(t, "Delete")
}

func TestInventoryService_CreateAirport_UppercasesCode(t *testing.T) {
	airports := &MockAirportRepository{}
	service := NewInventoryService(airports, &MockFlightRepository{}, nil, zap.NewNop())
	ctx := context.Background()

	airports.On("Create", ctx, mock.MatchedBy(func(a *domain.Airport) bool {
		return a.Code == "DEL" && a.Name == "Indira Gandhi" && a.City == "Delhi"
	})).Return(nil).Once()

	airport, err := service.CreateAirport(ctx, admin, CreateAirportInput{Code: " del ", Name: "Indira Gandhi", City: "Delhi"})

	require.NoError(t, err)
	assert.Equal(t, "DEL", airport.Code)
	airports.AssertExpectations(t)
}

func TestInventoryService_CreateAirport_Invalid(t *testing.T) {
	airports := &MockAirportRepository{}
	service := NewInventoryService(airports, &MockFlightRepository{}, nil, zap.NewNop())
	ctx := context.Background()

	testCases := []struct {
		name  string
		input CreateAirportInput
	}{
		{"empty code", CreateAirportInput{Name: "Indira Gandhi", City: "Delhi"}},
		{"code too short", CreateAirportInput{Code: "DL", Name: "Indira Gandhi", City: "Delhi"}},
		{"code not alphanumeric", CreateAirportInput{Code: "DE-L", Name: "Indira Gandhi", City: "Delhi"}},
		{"missing name", CreateAirportInput{Code: "DEL", City: "Delhi"}},
		{"missing city", CreateAirportInput{Code: "DEL", Name: "Indira Gandhi"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateAirport(ctx, admin, tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	airports.AssertNotCalled(t, "Create")
}

func TestInventoryService_CreateAirport_DuplicateCode(t *testing.T) {
	airports := &MockAirportRepository{}
	service := NewInventoryService(airports, &MockFlightRepository{}, nil, zap.NewNop())
	ctx := context.Background()

	airports.On("Create", ctx, mock.Anything).Return(domain.ErrAirportCodeTaken).Once()

	_, err := service.CreateAirport(ctx, admin, CreateAirportInput{Code: "DEL", Name: "Indira Gandhi", City: "Delhi"})

	assert.ErrorIs(t, err, domain.ErrAirportCodeTaken)
	airports.AssertExpectations(t)
}

func TestInventoryService_DeleteAirport_InUse(t *testing.T) {
	airports := &MockAirportRepository{}
	service := NewInventoryService(airports, &MockFlightRepository{}, nil, zap.NewNop())
	ctx := context.Background()

	airports.On("Delete", ctx, int64(1)).Return(domain.ErrAirportInUse).Once()

	err := service.DeleteAirport(ctx, admin, 1)

	assert.ErrorIs(t, err, domain.ErrAirportInUse)
	airports.AssertExpectations(t)
}

func TestInventoryService_CreateFlight_Success(t *testing.T) {
	airports := &MockAirportRepository{}
	flights := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewInventoryService(airports, flights, cache, zap.NewNop())
	ctx := context.Background()

	airports.On("GetByID", ctx, int64(1)).Return(&domain.Airport{ID: 1, Code: "DEL"}, nil).Once()
	airports.On("GetByID", ctx, int64(2)).Return(&domain.Airport{ID: 2, Code: "BOM"}, nil).Once()
	flights.On("Create", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.FlightNumber == "AI101" && f.SeatsAvailable == f.TotalSeats && f.TotalSeats == 180
	})).Return(nil).Once()
	cache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.CreateFlight(ctx, admin, validFlightInput())

	require.NoError(t, err)
	assert.Equal(t, 180, flight.SeatsAvailable)
	airports.AssertExpectations(t)
	flights.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestInventoryService_CreateFlight_Invalid(t *testing.T) {
	airports := &MockAirportRepository{}
	flights := &MockFlightRepository{}
	service := NewInventoryService(airports, flights, nil, zap.NewNop())
	ctx := context.Background()

	sameAirports := validFlightInput()
	sameAirports.ArrivalAirportID = sameAirports.DepartureAirportID

	arrivalBeforeDeparture := validFlightInput()
	arrivalBeforeDeparture.ArrivalTime = arrivalBeforeDeparture.DepartureTime.Add(-time.Hour)

	negativePrice := validFlightInput()
	negativePrice.PriceCents = -100

	missingNumber := validFlightInput()
	missingNumber.FlightNumber = ""

	testCases := []struct {
		name  string
		input CreateFlightInput
	}{
		{"same departure and arrival airport", sameAirports},
		{"arrival before departure", arrivalBeforeDeparture},
		{"negative price", negativePrice},
		{"missing flight number", missingNumber},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateFlight(ctx, admin, tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	flights.AssertNotCalled(t, "Create")
}

func TestInventoryService_CreateFlight_UnknownAirport(t *testing.T) {
	airports := &MockAirportRepository{}
	flights := &MockFlightRepository{}
	service := NewInventoryService(airports, flights, nil, zap.NewNop())
	ctx := context.Background()

	airports.On("GetByID", ctx, int64(1)).Return(nil, domain.ErrAirportNotFound).Once()

	_, err := service.CreateFlight(ctx, admin, validFlightInput())

	assert.ErrorIs(t, err, domain.ErrAirportNotFound)
	flights.AssertNotCalled(t, "Create")
}

func TestInventoryService_DeleteFlight_InvalidatesCache(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewInventoryService(&MockAirportRepository{}, flights, cache, zap.NewNop())
	ctx := context.Background()

	flights.On("Delete", ctx, int64(7)).Return(nil).Once()
	cache.On("InvalidateFlights", ctx).Return(nil).Once()

	err := service.DeleteFlight(ctx, admin, 7)

	assert.NoError(t, err)
	flights.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestInventoryService_DeleteFlight_InUse(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewInventoryService(&MockAirportRepository{}, flights, cache, zap.NewNop())
	ctx := context.Background()

	flights.On("Delete", ctx, int64(7)).Return(domain.ErrFlightInUse).Once()

	err := service.DeleteFlight(ctx, admin, 7)

	assert.ErrorIs(t, err, domain.ErrFlightInUse)
	cache.AssertNotCalled(t, "InvalidateFlights")
	flights.AssertExpectations(t)
}

func TestInventoryService_Audit(t *testing.T) {
	flights := &MockFlightRepository{}
	service := NewInventoryService(&MockAirportRepository{}, flights, nil, zap.NewNop())
	ctx := context.Background()

	mismatches := []domain.InventoryMismatch{{FlightID: 3, TotalSeats: 10, SeatsAvailable: 5, BookedSeats: 6}}
	flights.On("Audit", ctx).Return(mismatches, nil).Once()

	got, err := service.Audit(ctx)

	require.NoError(t, err)
	assert.Equal(t, mismatches, got)
	flights.AssertExpectations(t)
}
