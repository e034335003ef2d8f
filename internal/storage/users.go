package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateAccount means the email or username is already taken.
var ErrDuplicateAccount = errors.New("storage: email or username already registered")

// User is one stored account. PasswordHash never leaves this package in API
// responses; handlers serialize their own DTOs.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// ComparePassword reports whether the plaintext password matches the stored
// bcrypt hash.
func (u *User) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserRepository provides account storage.
type UserRepository struct {
	q Querier
}

// NewUserRepository constructs a UserRepository backed by the pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{q: pool}
}

// NewUserRepositoryWithQuerier constructs a UserRepository with a custom
// Querier (for tests).
func NewUserRepositoryWithQuerier(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

// Create hashes the password with bcrypt and inserts the account.
// Returns ErrDuplicateAccount when email or username collides.
func (r *UserRepository) Create(ctx context.Context, email, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	const q = `
		INSERT INTO users (id, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	u := User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := r.q.QueryRow(ctx, q, u.ID, u.Email, u.Username, u.PasswordHash).Scan(&u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("inserting user %s: %w", email, err)
	}

	return &u, nil
}

// FindByEmailOrUsername looks an account up by either identifier.
// Returns nil, nil when no account matches.
func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*User, error) {
	const q = `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE email = $1 OR username = $1
	`

	var u User
	err := r.q.QueryRow(ctx, q, identifier).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user %s: %w", identifier, err)
	}

	return &u, nil
}
