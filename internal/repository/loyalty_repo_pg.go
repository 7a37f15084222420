package repository

import (
	"context"
	"errors"

	"github.com/hznasser/falconair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoyaltyRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.LoyaltyAccount, error)
	// ApplyCheckIn atomically flips the booking to checked_in and credits the
	// earned miles and points. Exactly one of two concurrent calls for the
	// same booking succeeds; the loser gets the state error.
	ApplyCheckIn(ctx context.Context, bookingID int64, userID string, miles, points int64) (*domain.Booking, *domain.LoyaltyAccount, error)
}

type PGLoyaltyRepository struct {
	db *pgxpool.Pool
}

func NewLoyaltyRepository(db *pgxpool.Pool) LoyaltyRepository {
	return &PGLoyaltyRepository{db: db}
}

const loyaltyColumns = `user_id, membership_number, first_name, last_name, miles, points, tier, updated_at`

func scanLoyalty(row pgx.Row) (*domain.LoyaltyAccount, error) {
	var a domain.LoyaltyAccount
	err := row.Scan(&a.UserID, &a.MembershipNumber, &a.FirstName, &a.LastName, &a.Miles, &a.Points, &a.Tier, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGLoyaltyRepository) GetByUserID(ctx context.Context, userID string) (*domain.LoyaltyAccount, error) {
	a, err := scanLoyalty(r.db.QueryRow(ctx, `SELECT `+loyaltyColumns+` FROM loyalty_accounts WHERE user_id=$1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *PGLoyaltyRepository) ApplyCheckIn(ctx context.Context, bookingID int64, userID string, miles, points int64) (*domain.Booking, *domain.LoyaltyAccount, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	b, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3 RETURNING `+bookingColumns,
		domain.BookingStatusCheckedIn, bookingID, domain.BookingStatusConfirmed))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}
		var status domain.BookingStatus
		if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1`, bookingID).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, domain.ErrBookingNotFound
			}
			return nil, nil, err
		}
		switch status {
		case domain.BookingStatusCheckedIn:
			return nil, nil, domain.ErrAlreadyCheckedIn
		case domain.BookingStatusCancelled:
			return nil, nil, domain.ErrAlreadyCancelled
		default:
			return nil, nil, domain.ErrInvalidStateTransition
		}
	}

	account, err := scanLoyalty(tx.QueryRow(ctx, `UPDATE loyalty_accounts SET
		miles = miles + $1, points = points + $2, updated_at = now()
		WHERE user_id = $3 RETURNING `+loyaltyColumns, miles, points, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, err
	}

	// Tier derives from the post-credit total; writing it here keeps the
	// stored tier from regressing under concurrent credits to one account.
	tier := domain.TierFor(account.Points)
	if tier != account.Tier {
		if _, err := tx.Exec(ctx, `UPDATE loyalty_accounts SET tier=$1, updated_at=now() WHERE user_id=$2`, tier, userID); err != nil {
			return nil, nil, err
		}
		account.Tier = tier
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return b, account, nil
}

var _ LoyaltyRepository = (*PGLoyaltyRepository)(nil)
