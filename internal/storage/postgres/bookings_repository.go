package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/devevents/server/internal/domain/bookings"
	"github.com/devevents/server/internal/metrics"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ bookings.Repository = (*BookingRepository)(nil)

func (r *BookingRepository) Create(ctx context.Context, booking *bookings.Booking) (*bookings.Booking, error) {
	start := time.Now()
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.queryer().QueryRow(ctx, `
INSERT INTO bookings (id, event_id, email)
VALUES ($1, $2, $3)
RETURNING created_at, updated_at
`, booking.ID, booking.EventID, booking.Email).Scan(&createdAt, &updatedAt)
	metrics.RecordQuery("create_booking", start, err)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	saved := *booking
	if createdAt.Valid {
		saved.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		saved.UpdatedAt = updatedAt.Time
	}
	return &saved, nil
}

func (r *BookingRepository) ListByEvent(ctx context.Context, eventID string) ([]bookings.Booking, error) {
	start := time.Now()
	rows, err := r.queryer().Query(ctx, `
SELECT id, event_id, email, created_at, updated_at
  FROM bookings
 WHERE event_id = $1
 ORDER BY created_at DESC, id DESC
`, eventID)
	metrics.RecordQuery("list_bookings_by_event", start, err)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var items []bookings.Booking
	for rows.Next() {
		var booking bookings.Booking
		var createdAt, updatedAt pgtype.Timestamptz
		if err := rows.Scan(&booking.ID, &booking.EventID, &booking.Email, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if createdAt.Valid {
			booking.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			booking.UpdatedAt = updatedAt.Time
		}
		items = append(items, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return items, nil
}
