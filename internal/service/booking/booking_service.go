package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/kafka"
	"github.com/mzhirov/flightbook/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Reserve(ctx context.Context, input ReserveInput) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	validate           *validator.Validate
	log                *zap.Logger
}

type ReserveInput struct {
	FlightID      int64  `json:"flight_id" validate:"required"`
	UserID        int64  `json:"user_id" validate:"required"`
	PassengerName string `json:"passenger_name" validate:"required,max=200"`
	Seats         int    `json:"seats"`
	Email         string `json:"email" validate:"omitempty,email"`
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(bookings repository.BookingRepository, log *zap.Logger, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings: bookings,
		validate: validator.New(),
		log:      log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Reserve commits a seat reservation. The store performs the
// check-and-decrement and the booking insert in one transaction, so a
// failure leaves the flight counter untouched.
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*domain.Booking, error) {
	if input.Seats < 1 {
		return nil, fmt.Errorf("%w: seats must be at least 1", domain.ErrValidation)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	booking := &domain.Booking{
		Reference:     uuid.NewString(),
		FlightID:      input.FlightID,
		UserID:        input.UserID,
		PassengerName: strings.TrimSpace(input.PassengerName),
		Seats:         input.Seats,
	}

	remaining, err := s.bookings.Reserve(ctx, booking)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			s.log.Warn("failed to invalidate flights cache", zap.Error(err))
		}
	}
	if err := s.publish(ctx, "booking_created", booking, input.Email); err != nil {
		s.log.Warn("failed to publish booking_created event",
			zap.String("reference", booking.Reference), zap.Error(err))
	}

	s.log.Info("booking committed",
		zap.String("reference", booking.Reference),
		zap.Int64("flight_id", booking.FlightID),
		zap.Int("seats", booking.Seats),
		zap.Int("seats_remaining", remaining),
	)
	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, email string) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		Reference:     booking.Reference,
		FlightID:      booking.FlightID,
		Seats:         booking.Seats,
		PassengerName: booking.PassengerName,
		Email:         email,
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
