package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhirov/flightbook/config"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a default admin and a small set of airports and flights. Safe to
// run repeatedly: existing rows are left alone.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	airportRepo := repository.NewAirportRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	if err := seedAdmin(ctx, userRepo, cfg.Auth.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	airports, err := seedAirports(ctx, airportRepo)
	if err != nil {
		log.Fatalf("seed airports: %v", err)
	}
	if err := seedFlights(ctx, flightRepo, airports); err != nil {
		log.Fatalf("seed flights: %v", err)
	}

	log.Println("seed finished")
}

func seedAdmin(ctx context.Context, users repository.UserRepository, bcryptCost int) error {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			log.Println("admin already exists")
			return nil
		}
		return err
	}
	log.Println("created default admin: admin@example.com / admin123")
	return nil
}

func seedAirports(ctx context.Context, airports repository.AirportRepository) (map[string]int64, error) {
	seeds := []domain.Airport{
		{Code: "DEL", Name: "Indira Gandhi International", City: "Delhi"},
		{Code: "BOM", Name: "Chhatrapati Shivaji Maharaj", City: "Mumbai"},
		{Code: "BLR", Name: "Kempegowda", City: "Bengaluru"},
	}

	ids := make(map[string]int64, len(seeds))
	for i := range seeds {
		a := seeds[i]
		if err := airports.Create(ctx, &a); err != nil {
			if errors.Is(err, domain.ErrAirportCodeTaken) {
				continue
			}
			return nil, err
		}
		ids[a.Code] = a.ID
		log.Printf("created airport %s", a.Code)
	}

	// Pick up ids of airports that already existed.
	existing, err := airports.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		ids[a.Code] = a.ID
	}
	return ids, nil
}

func seedFlights(ctx context.Context, flights repository.FlightRepository, airports map[string]int64) error {
	current, err := flights.List(ctx, repository.FlightFilter{})
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Hour)
	seeds := []domain.Flight{
		{
			FlightNumber:       "AI101",
			DepartureAirportID: airports["DEL"],
			ArrivalAirportID:   airports["BOM"],
			DepartureTime:      now.Add(24 * time.Hour),
			ArrivalTime:        now.Add(26 * time.Hour),
			PriceCents:         500000,
			TotalSeats:         100,
		},
		{
			FlightNumber:       "AI202",
			DepartureAirportID: airports["BOM"],
			ArrivalAirportID:   airports["BLR"],
			DepartureTime:      now.Add(48 * time.Hour),
			ArrivalTime:        now.Add(50 * time.Hour),
			PriceCents:         450000,
			TotalSeats:         80,
		},
	}
	missing := missingFlights(current, seeds)
	for i := range missing {
		if err := flights.Create(ctx, &missing[i]); err != nil {
			return err
		}
		log.Printf("created flight %s", missing[i].FlightNumber)
	}
	return nil
}

// missingFlights filters seeds down to flight numbers not already present,
// so a partial earlier run is topped up instead of skipped wholesale.
func missingFlights(existing []domain.Flight, seeds []domain.Flight) []domain.Flight {
	present := make(map[string]bool, len(existing))
	for _, f := range existing {
		present[f.FlightNumber] = true
	}

	var missing []domain.Flight
	for _, f := range seeds {
		if present[f.FlightNumber] {
			continue
		}
		missing = append(missing, f)
	}
	return missing
}
