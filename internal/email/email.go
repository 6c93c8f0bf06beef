package email

import (
	"context"

	"github.com/mzhirov/flightbook/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers booking notifications. The transport is a stub: it logs
// what a real mailer would send.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info("sending booking notification",
		zap.String("to", event.Email),
		zap.String("type", event.Type),
		zap.String("reference", event.Reference),
		zap.Int64("flight_id", event.FlightID),
		zap.Int("seats", event.Seats),
	)
	return nil
}
