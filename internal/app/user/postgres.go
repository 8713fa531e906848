package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"convlo/internal/app/db"
)

// PostgresDirectory is a Directory backed by the users table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory returns a Directory using pool.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// FindByUsername implements Directory.
func (d *PostgresDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User

	err := d.pool.QueryRow(ctx, `
		SELECT username, nick_name, gender, password_hash, created_at
		FROM users
		WHERE username = $1`, username).
		Scan(&u.Username, &u.NickName, &u.Gender, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}

	return &u, nil
}

// Create implements Directory.
func (d *PostgresDirectory) Create(ctx context.Context, u *User) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO users (username, nick_name, gender, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`, u.Username, u.NickName, u.Gender, u.PasswordHash).
		Scan(&u.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}

	return nil
}
