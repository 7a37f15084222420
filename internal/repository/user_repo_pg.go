package repository

import (
	"context"
	"errors"

	"github.com/hznasser/falconair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	// Create inserts the user together with their fresh loyalty account in
	// one transaction so a registered user always has an account row.
	Create(ctx context.Context, user *domain.User, account *domain.LoyaltyAccount) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMembershipNumber(ctx context.Context, number string) (*domain.User, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, username, first_name, last_name, email, phone_number, membership_number, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.MembershipNumber, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User, account *domain.LoyaltyAccount) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO users
		(id, username, first_name, last_name, email, phone_number, membership_number, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		user.ID, user.Username, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.MembershipNumber, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO loyalty_accounts
		(user_id, membership_number, first_name, last_name, miles, points, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING updated_at`,
		account.UserID, account.MembershipNumber, account.FirstName, account.LastName, account.Miles, account.Points, account.Tier).
		Scan(&account.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, `id=$1`, id)
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `email=$1`, email)
}

func (r *PGUserRepository) GetByMembershipNumber(ctx context.Context, number string) (*domain.User, error) {
	return r.getBy(ctx, `membership_number=$1`, number)
}

func (r *PGUserRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
