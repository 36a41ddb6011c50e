package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devevents/server/internal/domain/events"
	"github.com/devevents/server/internal/domain/ids"
)

// EventFinder is the slice of the events repository the booking save hook
// needs: existence of the referenced event.
type EventFinder interface {
	GetByID(ctx context.Context, id string) (*events.Event, error)
}

// Mailer sends the post-booking confirmation. Failures are logged, never
// surfaced to the caller.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, to, eventTitle string) error
}

type Service struct {
	repo   Repository
	finder EventFinder
	mailer Mailer
	logger zerolog.Logger
}

func NewService(repo Repository, finder EventFinder, mailer Mailer, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		finder: finder,
		mailer: mailer,
		logger: logger.With().Str("component", "bookings").Logger(),
	}
}

// Create validates the email, verifies the referenced event exists, and
// persists the booking. The existence check runs synchronously before the
// write; a missing event aborts the save with a descriptive error.
func (s *Service) Create(ctx context.Context, input BookingInput) (*Booking, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ValidationError{Field: "email", Message: "is required"}
	}
	if !emailPattern.MatchString(email) {
		return nil, ValidationError{Field: "email", Message: "must be a valid email address"}
	}

	eventID := strings.TrimSpace(input.EventID)
	if err := ids.ValidateULID(eventID); err != nil {
		return nil, ValidationError{Field: "event_id", Message: "must be a valid event id"}
	}
	eventID = strings.ToUpper(eventID)

	event, err := s.finder.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrEventNotFound)
		}
		return nil, fmt.Errorf("verify event: %w", err)
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking, err := s.repo.Create(ctx, &Booking{
		ID:        id,
		EventID:   event.ID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendBookingConfirmation(ctx, booking.Email, event.Title); err != nil {
			s.logger.Warn().Err(err).
				Str("booking_id", booking.ID).
				Str("event_id", event.ID).
				Msg("confirmation email failed")
		}
	}

	return booking, nil
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]Booking, error) {
	return s.repo.ListByEvent(ctx, eventID)
}
