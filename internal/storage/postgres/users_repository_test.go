package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devevents/server/internal/domain/ids"
	"github.com/devevents/server/internal/domain/users"
)

func userFixture(t *testing.T, email string) *users.User {
	t.Helper()
	id, err := ids.NewULID()
	require.NoError(t, err)
	return &users.User{
		ID:           id,
		Name:         "Gopher",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	fixture := userFixture(t, "gopher@example.com")
	created, err := repo.Users().Create(ctx, fixture)
	require.NoError(t, err)
	require.Equal(t, fixture.ID, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.Users().GetByEmail(ctx, "gopher@example.com")
	require.NoError(t, err)
	require.Equal(t, fixture.ID, byEmail.ID)
	require.Equal(t, fixture.PasswordHash, byEmail.PasswordHash)

	byID, err := repo.Users().GetByID(ctx, fixture.ID)
	require.NoError(t, err)
	require.Equal(t, "gopher@example.com", byID.Email)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	_, err = repo.Users().Create(ctx, userFixture(t, "gopher@example.com"))
	require.NoError(t, err)

	_, err = repo.Users().Create(ctx, userFixture(t, "gopher@example.com"))
	require.ErrorIs(t, err, users.ErrEmailTaken)
}

func TestUserRepositoryUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	fixture := userFixture(t, "gopher@example.com")
	created, err := repo.Users().Create(ctx, fixture)
	require.NoError(t, err)

	created.Name = "Gopherina"
	updated, err := repo.Users().Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Gopherina", updated.Name)

	missing := userFixture(t, "nobody@example.com")
	_, err = repo.Users().Update(ctx, missing)
	require.ErrorIs(t, err, users.ErrNotFound)
}
