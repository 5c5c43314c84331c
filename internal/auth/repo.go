package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-store-api/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, u User) (User, error)
}

type Repo struct{ DB postgres.DB }

var _ UserStore = (*Repo)(nil)

// FindByUsername returns ErrInvalidCredentials for an unknown user so
// callers cannot tell it apart from a wrong password.
func (r *Repo) FindByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, password_hash, role
		FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *Repo) Create(ctx context.Context, u User) (User, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id`, u.Username, u.PasswordHash, u.Role).Scan(&u.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, ErrUserExists
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}
