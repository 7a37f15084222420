package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hznasser/falconair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Search(ctx context.Context, departure, arrival string, date *time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, departure_airport, arrival_airport, departure_time, arrival_time,
	economy_price, business_price, economy_seats_available, business_seats_available, distance_miles, status, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.DepartureAirport, &f.ArrivalAirport, &f.DepartureTime, &f.ArrivalTime,
		&f.EconomyPrice, &f.BusinessPrice, &f.EconomySeats, &f.BusinessSeats, &f.DistanceMiles, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, departure, arrival string, date *time.Time) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE departure_airport=$1 AND arrival_airport=$2`
	args := []any{departure, arrival}
	if date != nil {
		query += ` AND departure_time >= $3 AND departure_time < $4`
		day := date.Truncate(24 * time.Hour)
		args = append(args, day, day.Add(24*time.Hour))
	}
	query += ` ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
