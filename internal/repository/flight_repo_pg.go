package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhirov/flightbook/internal/domain"
)

// FlightFilter narrows List results. Zero values leave the corresponding
// condition off; the time bounds form a half-open window
// [DepartureFrom, DepartureTo).
type FlightFilter struct {
	DepartureAirportID int64
	ArrivalAirportID   int64
	DepartureFrom      time.Time
	DepartureTo        time.Time
}

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	BookedSeats(ctx context.Context, flightID int64) (int, error)
	Audit(ctx context.Context) ([]domain.InventoryMismatch, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, departure_airport_id, arrival_airport_id, departure_time, arrival_time, price_cents, total_seats, seats_available, created_at, updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.DepartureAirportID, &f.ArrivalAirportID, &f.DepartureTime, &f.ArrivalTime, &f.PriceCents, &f.TotalSeats, &f.SeatsAvailable, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, departure_airport_id, arrival_airport_id, departure_time, arrival_time, price_cents, total_seats, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, seats_available, created_at, updated_at`,
		flight.FlightNumber, flight.DepartureAirportID, flight.ArrivalAirportID, flight.DepartureTime, flight.ArrivalTime, flight.PriceCents, flight.TotalSeats).
		Scan(&flight.ID, &flight.SeatsAvailable, &flight.CreatedAt, &flight.UpdatedAt)
	if pgErrCode(err) == pgForeignKeyViolation {
		return domain.ErrAirportNotFound
	}
	return err
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	var conds []string
	var args []any

	if filter.DepartureAirportID != 0 {
		args = append(args, filter.DepartureAirportID)
		conds = append(conds, fmt.Sprintf("departure_airport_id = $%d", len(args)))
	}
	if filter.ArrivalAirportID != 0 {
		args = append(args, filter.ArrivalAirportID)
		conds = append(conds, fmt.Sprintf("arrival_airport_id = $%d", len(args)))
	}
	if !filter.DepartureFrom.IsZero() {
		args = append(args, filter.DepartureFrom)
		conds = append(conds, fmt.Sprintf("departure_time >= $%d", len(args)))
	}
	if !filter.DepartureTo.IsZero() {
		args = append(args, filter.DepartureTo)
		conds = append(conds, fmt.Sprintf("departure_time < $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY departure_time, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Delete removes a flight. The bookings table references flights with
// ON DELETE RESTRICT, so deleting one that has committed bookings fails and
// is reported as ErrFlightInUse.
func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return domain.ErrFlightInUse
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// BookedSeats sums committed booking seats for a flight, independent of the
// seats_available counter.
func (r *PGFlightRepository) BookedSeats(ctx context.Context, flightID int64) (int, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM flights WHERE id=$1)`, flightID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrFlightNotFound
	}

	var sum int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(seats), 0) FROM bookings WHERE flight_id=$1`, flightID).Scan(&sum)
	return sum, err
}

// Audit returns all flights whose counter violates
// seats_available = total_seats - SUM(booking seats), or is negative.
func (r *PGFlightRepository) Audit(ctx context.Context) ([]domain.InventoryMismatch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.total_seats, f.seats_available, COALESCE(SUM(b.seats), 0) AS booked
		FROM flights f
		LEFT JOIN bookings b ON b.flight_id = f.id
		GROUP BY f.id, f.total_seats, f.seats_available
		HAVING f.seats_available <> f.total_seats - COALESCE(SUM(b.seats), 0) OR f.seats_available < 0
		ORDER BY f.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mismatches []domain.InventoryMismatch
	for rows.Next() {
		var m domain.InventoryMismatch
		if err := rows.Scan(&m.FlightID, &m.TotalSeats, &m.SeatsAvailable, &m.BookedSeats); err != nil {
			return nil, err
		}
		mismatches = append(mismatches, m)
	}
	return mismatches, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
