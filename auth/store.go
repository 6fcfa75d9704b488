package auth

// This file defines the persistence collaborator for users: a small Store
// interface the services depend on, plus its PostgreSQL implementation.
// Keeping services behind the interface lets tests use in-memory fakes
// instead of a live database.

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound is returned by store lookups when no user matches.
// Services translate it into the error kind the operation calls for.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUser is returned by Create when the username or email is
// already taken.
var ErrDuplicateUser = errors.New("username or email already exists")

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// UserStore is the persistence contract for users.
type UserStore interface {
	// Create inserts a new user and fills in the assigned ID and creation
	// time. Uniqueness violations surface as ErrDuplicateUser.
	Create(ctx context.Context, user *User) (*User, error)
	// ByID returns the user with the given identifier.
	ByID(ctx context.Context, id int64) (*User, error)
	// ByUsername returns the user with the given username.
	ByUsername(ctx context.Context, username string) (*User, error)
	// ByLogin resolves a sign-in identifier that may be either a username or
	// an email address. Emails must be normalized by the caller.
	ByLogin(ctx context.Context, login string) (*User, error)
	// All returns every user.
	All(ctx context.Context) ([]User, error)
}

// PGUserStore is the PostgreSQL-backed UserStore.
type PGUserStore struct {
	db *pgxpool.Pool
}

// NewPGUserStore creates a PGUserStore on top of the shared pool.
func NewPGUserStore(db *pgxpool.Pool) *PGUserStore {
	return &PGUserStore{db: db}
}

const userColumns = `id, username, email, avatar, password, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Avatar, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user record.
func (s *PGUserStore) Create(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (username, email, avatar, password)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query, user.Username, user.Email, user.Avatar, user.HashedPassword).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

// ByID returns the user with the given identifier.
func (s *PGUserStore) ByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// ByUsername returns the user with the given username.
func (s *PGUserStore) ByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(s.db.QueryRow(ctx, query, username))
}

// ByLogin matches the identifier against both the username and the email
// column in one query, mirroring sign-in forms that accept either.
func (s *PGUserStore) ByLogin(ctx context.Context, login string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(s.db.QueryRow(ctx, query, login))
}

// All returns every user.
func (s *PGUserStore) All(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Avatar, &u.HashedPassword, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
