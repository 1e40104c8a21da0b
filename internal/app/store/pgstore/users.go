package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomhub/internal/app/db"
	"roomhub/internal/app/store"
)

type userStore struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, email, first_name, last_name, bio, avatar_key, password_hash, created_at, last_login_at`

const prefixedUserColumns = `u.id, u.username, u.email, u.first_name, u.last_name, u.bio, u.avatar_key, u.password_hash, u.created_at, u.last_login_at`

func scanUser(row pgx.Row) (store.User, error) {
	var (
		u         store.User
		id        pgtype.UUID
		lastLogin pgtype.Timestamptz
	)

	err := row.Scan(&id, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Bio, &u.AvatarKey, &u.PasswordHash, &u.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.User{}, store.ErrNotFound
		}
		return store.User{}, fmt.Errorf("scan user: %w", err)
	}

	u.ID = fromPgUUID(id)
	u.LastLoginAt = optTime(lastLogin)
	return u, nil
}

func (s *userStore) Create(ctx context.Context, params store.CreateUserParams) (store.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		params.Username, params.Email, params.FirstName, params.LastName, params.PasswordHash)

	u, err := scanUser(row)
	if err != nil {
		if constraint, ok := db.IsUniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return store.User{}, store.ErrDuplicateEmail
			}
			return store.User{}, store.ErrDuplicateUsername
		}
		return store.User{}, err
	}

	return u, nil
}

func (s *userStore) GetByID(ctx context.Context, id uuid.UUID) (store.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, pgUUID(id))
	return scanUser(row)
}

func (s *userStore) GetByUsername(ctx context.Context, username string) (store.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (store.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *userStore) UpdateProfile(ctx context.Context, params store.UpdateProfileParams) (store.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, bio = $4, avatar_key = $5
		WHERE id = $1
		RETURNING `+userColumns,
		pgUUID(params.ID), params.FirstName, params.LastName, params.Bio, params.AvatarKey)
	return scanUser(row)
}

func (s *userStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, pgUUID(id), passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *userStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET last_login_at = now() WHERE id = $1`, pgUUID(id))
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
