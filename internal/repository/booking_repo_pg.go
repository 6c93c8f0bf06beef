package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhirov/flightbook/internal/domain"
)

type BookingRepository interface {
	// Reserve atomically decrements the flight's seat counter and inserts
	// the booking. It returns the seats left after the decrement. On
	// ErrFlightNotFound or ErrInsufficientSeats nothing is written.
	Reserve(ctx context.Context, booking *domain.Booking) (int, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Reserve(ctx context.Context, booking *domain.Booking) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// The conditional single-statement decrement is the serialization
	// point: the row lock it takes holds until commit, so concurrent
	// reservations against the same flight queue up here and each one
	// re-checks the live counter.
	var available int
	err = tx.QueryRow(ctx, `UPDATE flights SET seats_available = seats_available - $2, updated_at = now()
		WHERE id=$1 AND seats_available >= $2
		RETURNING seats_available`, booking.FlightID, booking.Seats).Scan(&available)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM flights WHERE id=$1)`, booking.FlightID).Scan(&exists); err != nil {
			return 0, err
		}
		if !exists {
			return 0, domain.ErrFlightNotFound
		}
		return 0, domain.ErrInsufficientSeats
	}

	err = tx.QueryRow(ctx, `INSERT INTO bookings (reference, flight_id, user_id, passenger_name, seats)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		booking.Reference, booking.FlightID, booking.UserID, booking.PassengerName, booking.Seats).
		Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return 0, domain.ErrUserNotFound
		}
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return available, nil
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, reference, flight_id, user_id, passenger_name, seats, created_at FROM bookings WHERE reference=$1`, reference)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.FlightID, &b.UserID, &b.PassengerName, &b.Seats, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, reference, flight_id, user_id, passenger_name, seats, created_at FROM bookings WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.FlightID, &b.UserID, &b.PassengerName, &b.Seats, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
