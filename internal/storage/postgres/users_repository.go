package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devevents/server/internal/domain/users"
	"github.com/devevents/server/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ users.Repository = (*UserRepository)(nil)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *users.User) (*users.User, error) {
	start := time.Now()
	created, err := scanUser(r.queryer().QueryRow(ctx, `
INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING `+userColumns+`
`, user.ID, user.Name, user.Email, user.PasswordHash))
	metrics.RecordQuery("create_user", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) Update(ctx context.Context, user *users.User) (*users.User, error) {
	start := time.Now()
	updated, err := scanUser(r.queryer().QueryRow(ctx, `
UPDATE users
   SET name = $2, email = $3, password_hash = $4, updated_at = now()
 WHERE id = $1
RETURNING `+userColumns+`
`, user.ID, user.Name, user.Email, user.PasswordHash))
	metrics.RecordQuery("update_user", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	start := time.Now()
	user, err := scanUser(r.queryer().QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE id = $1
`, id))
	metrics.RecordQuery("get_user_by_id", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	start := time.Now()
	user, err := scanUser(r.queryer().QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE email = $1
`, email))
	metrics.RecordQuery("get_user_by_email", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}
