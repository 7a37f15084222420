package repository

import (
	"context"
	"errors"

	"github.com/hznasser/falconair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	Reschedule(ctx context.Context, oldID int64, replacement *domain.Booking) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, booking_reference, user_id, flight_id, passenger_name, passenger_email, passport_number,
	seat_class, seat_number, total_price, booking_date, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.BookingReference, &b.UserID, &b.FlightID, &b.PassengerName, &b.PassengerEmail, &b.PassportNumber,
		&b.SeatClass, &b.SeatNumber, &b.TotalPrice, &b.BookingDate, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// takeSeat decrements availability for the booking's class, failing when the
// class is sold out. The conditional UPDATE is the oversell guard: two
// concurrent takers of the last seat cannot both see rows affected.
func takeSeat(ctx context.Context, tx pgx.Tx, flightID int64, class domain.SeatClass) error {
	cmd, err := tx.Exec(ctx, `UPDATE flights SET
		economy_seats_available = economy_seats_available - CASE WHEN $2 = 'economy' THEN 1 ELSE 0 END,
		business_seats_available = business_seats_available - CASE WHEN $2 = 'business' THEN 1 ELSE 0 END,
		updated_at = now()
		WHERE id = $1 AND (CASE WHEN $2 = 'economy' THEN economy_seats_available ELSE business_seats_available END) > 0`,
		flightID, string(class))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM flights WHERE id=$1)`, flightID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrFlightNotFound
		}
		return domain.ErrSeatUnavailable
	}
	return nil
}

func restoreSeat(ctx context.Context, tx pgx.Tx, flightID int64, class domain.SeatClass) error {
	_, err := tx.Exec(ctx, `UPDATE flights SET
		economy_seats_available = economy_seats_available + CASE WHEN $2 = 'economy' THEN 1 ELSE 0 END,
		business_seats_available = business_seats_available + CASE WHEN $2 = 'business' THEN 1 ELSE 0 END,
		updated_at = now()
		WHERE id = $1`, flightID, string(class))
	return err
}

func insertBooking(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
	b.Status = domain.BookingStatusConfirmed
	return tx.QueryRow(ctx, `INSERT INTO bookings
		(booking_reference, user_id, flight_id, passenger_name, passenger_email, passport_number, seat_class, seat_number, total_price, booking_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		b.BookingReference, b.UserID, b.FlightID, b.PassengerName, b.PassengerEmail, b.PassportNumber,
		b.SeatClass, b.SeatNumber, b.TotalPrice, b.BookingDate, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := takeSeat(ctx, tx, booking.FlightID, booking.SeatClass); err != nil {
		return err
	}
	if err := insertBooking(ctx, tx, booking); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY booking_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// cancelInTx flips a confirmed booking to cancelled and restores its seat.
// The WHERE status clause makes the transition race-safe; when nothing was
// updated the current status decides which domain error to return.
func cancelInTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.Booking, error) {
	b, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3 RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, id, domain.BookingStatusConfirmed))
	if err == nil {
		if err := restoreSeat(ctx, tx, b.FlightID, b.SeatClass); err != nil {
			return nil, err
		}
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var status domain.BookingStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	switch status {
	case domain.BookingStatusCancelled:
		return nil, domain.ErrAlreadyCancelled
	case domain.BookingStatusCheckedIn:
		return nil, domain.ErrInvalidStateTransition
	default:
		return nil, domain.ErrInvalidStateTransition
	}
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	b, err := cancelInTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Reschedule cancels the old booking and creates its replacement as one
// atomic unit: old seat back, new seat taken, replacement row inserted.
func (r *PGBookingRepository) Reschedule(ctx context.Context, oldID int64, replacement *domain.Booking) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	old, err := cancelInTx(ctx, tx, oldID)
	if err != nil {
		return nil, err
	}
	if err := takeSeat(ctx, tx, replacement.FlightID, replacement.SeatClass); err != nil {
		return nil, err
	}
	if err := insertBooking(ctx, tx, replacement); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return old, nil
}

// IsUniqueViolation reports a unique-constraint conflict, used to retry
// booking reference generation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ BookingRepository = (*PGBookingRepository)(nil)
