package bookings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var ErrNotFound = errors.New("booking not found")

// ErrEventNotFound aborts a save whose event reference does not resolve.
// The reference is checked at write time, not enforced by cascade.
var ErrEventNotFound = errors.New("referenced event does not exist")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Booking links an email address to an event. The event reference is
// non-owning: deleting the event later leaves the booking in place.
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingInput struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type Repository interface {
	Create(ctx context.Context, booking *Booking) (*Booking, error)
	ListByEvent(ctx context.Context, eventID string) ([]Booking, error)
}
