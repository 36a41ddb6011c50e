package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devevents/server/internal/domain/events"
	"github.com/devevents/server/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ events.Repository = (*EventRepository)(nil)

const eventColumns = `id, slug, title, description, overview, image, venue, location,
       event_date, event_time, mode, audience, agenda, organizer, tags,
       created_at, updated_at`

type eventRow struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Agenda      []string
	Organizer   string
	Tags        []string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func (row eventRow) toEvent() events.Event {
	event := events.Event{
		ID:          row.ID,
		Slug:        row.Slug,
		Title:       row.Title,
		Description: row.Description,
		Overview:    row.Overview,
		Image:       row.Image,
		Venue:       row.Venue,
		Location:    row.Location,
		Date:        row.Date,
		Time:        row.Time,
		Mode:        row.Mode,
		Audience:    row.Audience,
		Agenda:      row.Agenda,
		Organizer:   row.Organizer,
		Tags:        row.Tags,
	}
	if row.CreatedAt.Valid {
		event.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		event.UpdatedAt = row.UpdatedAt.Time
	}
	return event
}

func scanEventRow(row pgx.Row) (eventRow, error) {
	var r eventRow
	err := row.Scan(
		&r.ID,
		&r.Slug,
		&r.Title,
		&r.Description,
		&r.Overview,
		&r.Image,
		&r.Venue,
		&r.Location,
		&r.Date,
		&r.Time,
		&r.Mode,
		&r.Audience,
		&r.Agenda,
		&r.Organizer,
		&r.Tags,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

// List returns all events, newest first.
func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	start := time.Now()
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 ORDER BY created_at DESC, id DESC
`)
	metrics.RecordQuery("list_events", start, err)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []events.Event
	for rows.Next() {
		row, err := scanEventRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, row.toEvent())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	start := time.Now()
	row, err := scanEventRow(r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id))
	metrics.RecordQuery("get_event_by_id", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	event := row.toEvent()
	return &event, nil
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*events.Event, error) {
	start := time.Now()
	row, err := scanEventRow(r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE slug = $1
`, slug))
	metrics.RecordQuery("get_event_by_slug", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	event := row.toEvent()
	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *events.Event) (*events.Event, error) {
	start := time.Now()
	row, err := scanEventRow(r.queryer().QueryRow(ctx, `
INSERT INTO events (id, slug, title, description, overview, image, venue, location,
                    event_date, event_time, mode, audience, agenda, organizer, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING `+eventColumns+`
`,
		event.ID,
		event.Slug,
		event.Title,
		event.Description,
		event.Overview,
		event.Image,
		event.Venue,
		event.Location,
		event.Date,
		event.Time,
		event.Mode,
		event.Audience,
		event.Agenda,
		event.Organizer,
		event.Tags,
	))
	metrics.RecordQuery("create_event", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, events.ErrConflict
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	created := row.toEvent()
	return &created, nil
}

func (r *EventRepository) Update(ctx context.Context, event *events.Event) (*events.Event, error) {
	start := time.Now()
	row, err := scanEventRow(r.queryer().QueryRow(ctx, `
UPDATE events
   SET slug = $2, title = $3, description = $4, overview = $5, image = $6,
       venue = $7, location = $8, event_date = $9, event_time = $10,
       mode = $11, audience = $12, agenda = $13, organizer = $14, tags = $15,
       updated_at = now()
 WHERE id = $1
RETURNING `+eventColumns+`
`,
		event.ID,
		event.Slug,
		event.Title,
		event.Description,
		event.Overview,
		event.Image,
		event.Venue,
		event.Location,
		event.Date,
		event.Time,
		event.Mode,
		event.Audience,
		event.Agenda,
		event.Organizer,
		event.Tags,
	))
	metrics.RecordQuery("update_event", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, events.ErrConflict
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	updated := row.toEvent()
	return &updated, nil
}

// Delete removes the event and returns the deleted row as a snapshot.
func (r *EventRepository) Delete(ctx context.Context, id string) (*events.Event, error) {
	start := time.Now()
	row, err := scanEventRow(r.queryer().QueryRow(ctx, `
DELETE FROM events
 WHERE id = $1
RETURNING `+eventColumns+`
`, id))
	metrics.RecordQuery("delete_event", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("delete event: %w", err)
	}
	deleted := row.toEvent()
	return &deleted, nil
}
