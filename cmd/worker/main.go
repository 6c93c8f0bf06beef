package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhirov/flightbook/config"
	"github.com/mzhirov/flightbook/internal/email"
	"github.com/mzhirov/flightbook/internal/kafka"
	"github.com/mzhirov/flightbook/internal/logger"
	"github.com/mzhirov/flightbook/internal/repository"
	"github.com/mzhirov/flightbook/internal/service/inventory"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	airportRepo := repository.NewAirportRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	inventoryService := inventory.NewInventoryService(airportRepo, flightRepo, nil, zlog)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
	defer consumer.Close()

	sender := email.NewSender(zlog)

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
			return sender.Send(ctx, event)
		})
		if err != nil {
			zlog.Warn("consumer stopped", zap.Error(err))
		}
	}()

	auditTicker := time.NewTicker(time.Duration(cfg.Worker.AuditIntervalMinutes) * time.Minute)
	defer auditTicker.Stop()

	zlog.Info("worker started",
		zap.Int("audit_interval_minutes", cfg.Worker.AuditIntervalMinutes),
		zap.String("notifications_topic", cfg.Kafka.NotificationsTopic),
	)

	for {
		select {
		case <-auditTicker.C:
			mismatches, err := inventoryService.Audit(ctx)
			if err != nil {
				zlog.Error("inventory audit failed", zap.Error(err))
				continue
			}
			if len(mismatches) == 0 {
				zlog.Debug("inventory audit clean")
				continue
			}
			for _, m := range mismatches {
				zlog.Error("seat inventory mismatch",
					zap.Int64("flight_id", m.FlightID),
					zap.Int("total_seats", m.TotalSeats),
					zap.Int("seats_available", m.SeatsAvailable),
					zap.Int("booked_seats", m.BookedSeats),
				)
			}
		case <-ctx.Done():
			zlog.Info("worker stopping")
			return
		}
	}
}
