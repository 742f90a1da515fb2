package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// Repository persists user records keyed by phone number.
type Repository interface {
	Create(ctx context.Context, user User) error
	Find(ctx context.Context, phone string) (User, error)
	UpdatePINHash(ctx context.Context, phone string, hash []byte) error
	UpdateLastLogin(ctx context.Context, phone string, at time.Time) error
	UpdateProfile(ctx context.Context, phone, firstName, lastName, email string) error
	UpdateCardCustomerID(ctx context.Context, phone, customerID string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

// Create inserts a new user record.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users
        (phone_number, pin_hash, first_name, last_name, email, tier, avatar,
         blockchain, wallet_address, wallet_id, card_customer_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.PhoneNumber, user.PINHash, user.FirstName, user.LastName, user.Email,
		user.Tier, user.Avatar, user.Blockchain, user.WalletAddress, user.WalletID,
		user.CardCustomerID, user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict("user already exists")
	}
	return err
}

// Find fetches a user by the exact phone-number string.
func (r *PostgresRepository) Find(ctx context.Context, phone string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT phone_number, pin_hash, first_name, last_name, email,
        tier, avatar, blockchain, wallet_address, wallet_id, card_customer_id,
        created_at, updated_at, COALESCE(last_login, 'epoch'::timestamptz)
        FROM users WHERE phone_number = $1`, phone)
	var user User
	err := row.Scan(&user.PhoneNumber, &user.PINHash, &user.FirstName, &user.LastName,
		&user.Email, &user.Tier, &user.Avatar, &user.Blockchain, &user.WalletAddress,
		&user.WalletID, &user.CardCustomerID, &user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	if user.LastLogin.Unix() <= 0 {
		user.LastLogin = time.Time{}
	} else {
		user.LastLogin = user.LastLogin.UTC()
	}
	return user, nil
}

// UpdatePINHash replaces the stored PIN hash.
func (r *PostgresRepository) UpdatePINHash(ctx context.Context, phone string, hash []byte) error {
	return r.exec(ctx, `UPDATE users SET pin_hash = $1, updated_at = now() WHERE phone_number = $2`, hash, phone)
}

// UpdateLastLogin stamps the most recent successful login.
func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, phone string, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login = $1 WHERE phone_number = $2`, at.UTC(), phone)
}

// UpdateProfile replaces the mutable profile fields.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, phone, firstName, lastName, email string) error {
	return r.exec(ctx, `UPDATE users SET first_name = $1, last_name = $2, email = $3, updated_at = now()
        WHERE phone_number = $4`, firstName, lastName, email, phone)
}

// UpdateCardCustomerID records the card-provider customer created for the user.
func (r *PostgresRepository) UpdateCardCustomerID(ctx context.Context, phone, customerID string) error {
	return r.exec(ctx, `UPDATE users SET card_customer_id = $1, updated_at = now() WHERE phone_number = $2`, customerID, phone)
}

func (r *PostgresRepository) exec(ctx context.Context, sql string, args ...any) error {
	cmd, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
