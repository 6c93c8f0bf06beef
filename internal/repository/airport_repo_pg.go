package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhirov/flightbook/internal/domain"
)

type AirportRepository interface {
	Create(ctx context.Context, airport *domain.Airport) error
	List(ctx context.Context) ([]domain.Airport, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	Delete(ctx context.Context, id int64) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (code, name, city) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		airport.Code, airport.Name, airport.City).
		Scan(&airport.ID, &airport.CreatedAt, &airport.UpdatedAt)
	if pgErrCode(err) == pgUniqueViolation {
		return domain.ErrAirportCodeTaken
	}
	return err
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, city, created_at, updated_at FROM airports ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT id, code, name, city, created_at, updated_at FROM airports WHERE id=$1`, id)
	var a domain.Airport
	if err := row.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAirportNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete removes an airport. The flights table references airports with
// ON DELETE RESTRICT, so deleting one that still has flights fails and is
// reported as ErrAirportInUse.
func (r *PGAirportRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM airports WHERE id=$1`, id)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return domain.ErrAirportInUse
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrAirportNotFound
	}
	return nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
