package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/devevents/server/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMissingDSN means no database URL was configured. It is a startup
// configuration error, raised before any dial is attempted.
var ErrMissingDSN = errors.New("database URL is not configured")

// Manager lazily establishes and caches the pgx pool. The first caller
// dials; concurrent callers during establishment wait on the same
// in-flight attempt so only one pool is ever created. A failed attempt
// clears the slot so a later call retries.
type Manager struct {
	cfg config.DatabaseConfig

	mu       sync.Mutex
	pool     *pgxpool.Pool
	inflight *connectAttempt
}

type connectAttempt struct {
	done chan struct{}
	pool *pgxpool.Pool
	err  error
}

func NewManager(cfg config.DatabaseConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Connect returns the cached pool, or establishes it on first use.
func (m *Manager) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	if m.cfg.URL == "" {
		return nil, ErrMissingDSN
	}

	m.mu.Lock()
	if m.pool != nil {
		pool := m.pool
		m.mu.Unlock()
		return pool, nil
	}
	if m.inflight != nil {
		attempt := m.inflight
		m.mu.Unlock()
		select {
		case <-attempt.done:
			return attempt.pool, attempt.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	attempt := &connectAttempt{done: make(chan struct{})}
	m.inflight = attempt
	m.mu.Unlock()

	pool, err := m.dial(ctx)

	m.mu.Lock()
	if err == nil {
		m.pool = pool
	}
	m.inflight = nil
	m.mu.Unlock()

	attempt.pool = pool
	attempt.err = err
	close(attempt.done)

	return pool, err
}

func (m *Manager) dial(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(m.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if m.cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(m.cfg.MaxConnections)
	}
	if m.cfg.MaxIdle > 0 {
		poolConfig.MinConns = int32(m.cfg.MaxIdle)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Close releases the cached pool. Subsequent Connect calls re-establish.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
	}
}

// Repository aggregates the per-domain repositories over one pool. When
// tx is set, all of them run inside that transaction.
type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Events() *EventRepository {
	return &EventRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Bookings() *BookingRepository {
	return &BookingRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Users() *UserRepository {
	return &UserRepository{pool: r.pool, tx: r.tx}
}

// WithTx runs fn with a repository bound to a single transaction. A
// nested call reuses the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, *Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &Repository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type BookingRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type UserRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}
