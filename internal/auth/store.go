package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUserNotFound indicates the requested account does not exist.
var ErrUserNotFound = errors.New("auth: user not found")

// ErrEmailTaken indicates the email address is already registered.
var ErrEmailTaken = errors.New("auth: email already registered")

// Account is the persisted user model.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists accounts.
type Store interface {
	CreateAccount(ctx context.Context, name, email, passwordHash, role string) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	GetAccountByID(ctx context.Context, id string) (Account, error)
}

// DBPool matches the subset of *pgxpool.Pool used by the store.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresStore implements Store on top of pgx.
type PostgresStore struct {
	Pool DBPool
}

const accountColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (s PostgresStore) CreateAccount(ctx context.Context, name, email, passwordHash, role string) (Account, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+accountColumns, name, email, passwordHash, role)
	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrEmailTaken
		}
		return Account{}, err
	}
	return account, nil
}

func (s PostgresStore) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrUserNotFound
		}
		return Account{}, err
	}
	return account, nil
}

func (s PostgresStore) GetAccountByID(ctx context.Context, id string) (Account, error) {
	// Malformed ids would otherwise surface as a query error.
	if err := uuid.Validate(id); err != nil {
		return Account{}, ErrUserNotFound
	}
	row := s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrUserNotFound
		}
		return Account{}, err
	}
	return account, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
