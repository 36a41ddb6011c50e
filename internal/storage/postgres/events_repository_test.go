package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devevents/server/internal/domain/events"
)

func TestEventRepositoryCreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	fixture := eventFixture(t, "GopherCon 2026")
	created, err := repo.Events().Create(ctx, fixture)
	require.NoError(t, err)
	require.Equal(t, fixture.ID, created.ID)
	require.Equal(t, "gophercon-2026", created.Slug)
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, []string{"Keynote", "Workshops"}, created.Agenda)
	require.Equal(t, []string{"go", "conference"}, created.Tags)

	byID, err := repo.Events().GetByID(ctx, fixture.ID)
	require.NoError(t, err)
	require.Equal(t, created.Slug, byID.Slug)

	bySlug, err := repo.Events().GetBySlug(ctx, "gophercon-2026")
	require.NoError(t, err)
	require.Equal(t, fixture.ID, bySlug.ID)
}

func TestEventRepositoryDuplicateSlugConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	first := eventFixture(t, "GopherCon 2026")
	_, err = repo.Events().Create(ctx, first)
	require.NoError(t, err)

	second := eventFixture(t, "GopherCon 2026")
	_, err = repo.Events().Create(ctx, second)
	require.ErrorIs(t, err, events.ErrConflict)
}

func TestEventRepositoryListNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	older := eventFixture(t, "GopherCon 2025")
	_, err = repo.Events().Create(ctx, older)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE events SET created_at = $2 WHERE id = $1`,
		older.ID, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)

	newer := eventFixture(t, "GopherCon 2026")
	_, err = repo.Events().Create(ctx, newer)
	require.NoError(t, err)

	items, err := repo.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, newer.ID, items[0].ID)
	require.Equal(t, older.ID, items[1].ID)
}

func TestEventRepositoryUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	fixture := eventFixture(t, "GopherCon 2026")
	created, err := repo.Events().Create(ctx, fixture)
	require.NoError(t, err)

	created.Venue = "Marriott Marquis"
	created.Tags = []string{"go", "community"}
	updated, err := repo.Events().Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Marriott Marquis", updated.Venue)
	require.Equal(t, []string{"go", "community"}, updated.Tags)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	missing := eventFixture(t, "Missing Event")
	_, err = repo.Events().Update(ctx, missing)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestEventRepositoryDeleteReturnsSnapshot(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	fixture := eventFixture(t, "GopherCon 2026")
	_, err = repo.Events().Create(ctx, fixture)
	require.NoError(t, err)

	snapshot, err := repo.Events().Delete(ctx, fixture.ID)
	require.NoError(t, err)
	require.Equal(t, "gophercon-2026", snapshot.Slug)

	_, err = repo.Events().GetByID(ctx, fixture.ID)
	require.ErrorIs(t, err, events.ErrNotFound)

	_, err = repo.Events().Delete(ctx, fixture.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestEventRepositoryWithTxRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool, _ := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	fixture := eventFixture(t, "GopherCon 2026")
	txErr := repo.WithTx(ctx, func(ctx context.Context, txRepo *Repository) error {
		if _, err := txRepo.Events().Create(ctx, fixture); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, txErr, context.Canceled)

	_, err = repo.Events().GetByID(ctx, fixture.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
}
