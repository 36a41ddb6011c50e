package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devevents/server/internal/domain/ids"
	"github.com/devevents/server/internal/sanitize"
)

// Service owns the event record lifecycle: validate, normalize, persist.
// The pipeline runs before every write so a failing step leaves storage
// untouched.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// GetBySlug looks up a single event by its slug, case-insensitive and
// trimmed. Lookups by id are not part of the public read surface.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Event, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ValidationError{Field: "slug", Message: "is required"}
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Create(ctx context.Context, input EventInput) (*Event, error) {
	input = sanitizeInput(input)

	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}
	if err := ValidateEventInput(input); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &Event{
		ID:          id,
		Slug:        Slugify(input.Title),
		Title:       input.Title,
		Description: input.Description,
		Overview:    input.Overview,
		Image:       input.Image,
		Venue:       input.Venue,
		Location:    input.Location,
		Date:        input.Date,
		Time:        input.Time,
		Mode:        input.Mode,
		Audience:    input.Audience,
		Agenda:      input.Agenda,
		Organizer:   input.Organizer,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Create(ctx, event)
}

// Update applies a partial patch to the event addressed by idOrSlug. Only
// supplied fields change; the merged record passes through the same
// validate-normalize pipeline as a create, and the slug regenerates only
// when the title actually changed.
func (s *Service) Update(ctx context.Context, idOrSlug string, patch EventPatch) (*Event, error) {
	existing, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	merged := *existing
	applyPatch(&merged, patch)

	input := inputFromEvent(merged)
	input = sanitizeInput(input)
	input, err = normalizeInput(input)
	if err != nil {
		return nil, err
	}
	if err := ValidateEventInput(input); err != nil {
		return nil, err
	}

	merged.Title = input.Title
	merged.Description = input.Description
	merged.Overview = input.Overview
	merged.Image = input.Image
	merged.Venue = input.Venue
	merged.Location = input.Location
	merged.Date = input.Date
	merged.Time = input.Time
	merged.Mode = input.Mode
	merged.Audience = input.Audience
	merged.Agenda = input.Agenda
	merged.Organizer = input.Organizer
	merged.Tags = input.Tags

	if merged.Title != existing.Title {
		merged.Slug = Slugify(merged.Title)
	}
	merged.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, &merged)
}

// Delete removes the event addressed by idOrSlug and returns the deleted
// snapshot. A miss on both lookups is ErrNotFound, never a silent no-op.
func (s *Service) Delete(ctx context.Context, idOrSlug string) (*Event, error) {
	existing, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, existing.ID)
}

// resolve implements the two-step id-or-slug lookup: a ULID-shaped
// identifier is tried as a record id first, then the value falls back to a
// slug match. The precedence is fixed so the resolution is never ambiguous.
func (s *Service) resolve(ctx context.Context, idOrSlug string) (*Event, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, ValidationError{Field: "id", Message: "is required"}
	}

	if ids.IsULID(idOrSlug) {
		event, err := s.repo.GetByID(ctx, strings.ToUpper(idOrSlug))
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return s.repo.GetBySlug(ctx, strings.ToLower(idOrSlug))
}

func applyPatch(event *Event, patch EventPatch) {
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Overview != nil {
		event.Overview = *patch.Overview
	}
	if patch.Image != nil {
		event.Image = *patch.Image
	}
	if patch.Venue != nil {
		event.Venue = *patch.Venue
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.Time != nil {
		event.Time = *patch.Time
	}
	if patch.Mode != nil {
		event.Mode = *patch.Mode
	}
	if patch.Audience != nil {
		event.Audience = *patch.Audience
	}
	if patch.Agenda != nil {
		event.Agenda = *patch.Agenda
	}
	if patch.Organizer != nil {
		event.Organizer = *patch.Organizer
	}
	if patch.Tags != nil {
		event.Tags = *patch.Tags
	}
}

func inputFromEvent(event Event) EventInput {
	return EventInput{
		Title:       event.Title,
		Description: event.Description,
		Overview:    event.Overview,
		Image:       event.Image,
		Venue:       event.Venue,
		Location:    event.Location,
		Date:        event.Date,
		Time:        event.Time,
		Mode:        event.Mode,
		Audience:    event.Audience,
		Agenda:      event.Agenda,
		Organizer:   event.Organizer,
		Tags:        event.Tags,
	}
}

func sanitizeInput(input EventInput) EventInput {
	input.Title = sanitize.Text(input.Title)
	input.Description = sanitize.HTML(input.Description)
	input.Overview = sanitize.HTML(input.Overview)
	input.Venue = sanitize.Text(input.Venue)
	input.Location = sanitize.Text(input.Location)
	input.Audience = sanitize.Text(input.Audience)
	input.Organizer = sanitize.Text(input.Organizer)
	input.Agenda = sanitize.TextSlice(input.Agenda)
	input.Tags = sanitize.TextSlice(input.Tags)
	return input
}
