package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhirov/flightbook/api"
	"github.com/mzhirov/flightbook/config"
	"github.com/mzhirov/flightbook/internal/bootstrap"
	"github.com/mzhirov/flightbook/internal/cache"
	"github.com/mzhirov/flightbook/internal/kafka"
	"github.com/mzhirov/flightbook/internal/logger"
	"github.com/mzhirov/flightbook/internal/repository"
	"github.com/mzhirov/flightbook/internal/service/booking"
	"github.com/mzhirov/flightbook/internal/service/flights"
	"github.com/mzhirov/flightbook/internal/service/inventory"
	"github.com/mzhirov/flightbook/internal/service/users"
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

	loc, err := time.LoadLocation(cfg.Booking.TimeZone)
	if err != nil {
		zlog.Fatal("load time zone", zap.String("time_zone", cfg.Booking.TimeZone), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	airportRepo := repository.NewAirportRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	userService := users.NewUserService(userRepo, redisCache,
		time.Duration(cfg.Auth.SessionTTLHours)*time.Hour, cfg.Auth.BcryptCost, zlog)
	flightService := flights.NewFlightService(flightRepo, redisCache, loc, zlog)
	bookingService := booking.NewBookingService(bookingRepo, zlog,
		booking.WithCache(redisCache),
		booking.WithProducer(producer, cfg.Kafka.BookingTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	inventoryService := inventory.NewInventoryService(airportRepo, flightRepo, redisCache, zlog)

	router := api.NewRouter(zlog, userService, flightService, bookingService, inventoryService)

	zlog.Info("starting server", zap.String("address", cfg.HTTP.Address))
	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
