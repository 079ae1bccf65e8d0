package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"auth-fabric/internal/model"
)

// Postgres is the pgx-backed Users implementation used by the identity
// service when a database is configured.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := p.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, email, authorities, version
		 FROM users WHERE lower(username) = lower($1)`, strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Authorities, &u.Version)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (p *Postgres) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := p.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, email, authorities, version
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Authorities, &u.Version)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (p *Postgres) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1))`,
		strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (p *Postgres) Create(ctx context.Context, user model.User) (model.User, error) {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, email, authorities, version)
		 VALUES ($1, $2, $3, $4, 1)
		 RETURNING id, version`,
		user.Username, user.PasswordHash, user.Email, user.Authorities).
		Scan(&user.ID, &user.Version)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.User{}, model.ErrUserAlreadyExists
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (p *Postgres) Update(ctx context.Context, user model.User) (model.User, error) {
	err := p.pool.QueryRow(ctx,
		`UPDATE users
		 SET password_hash = $3, email = $4, authorities = $5, version = version + 1
		 WHERE id = $1 AND version = $2
		 RETURNING version`,
		user.ID, user.Version, user.PasswordHash, user.Email, user.Authorities).
		Scan(&user.Version)

	if errors.Is(err, pgx.ErrNoRows) {
		// Either the row is gone or the version is stale.
		if _, findErr := p.FindByID(ctx, user.ID); findErr != nil {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, model.ErrInvalidInput
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (p *Postgres) Delete(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
