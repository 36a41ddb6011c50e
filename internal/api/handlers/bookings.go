package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devevents/server/internal/api/problem"
	"github.com/devevents/server/internal/domain/bookings"
	"github.com/devevents/server/internal/domain/events"
	"github.com/devevents/server/internal/metrics"
)

type BookingsHandler struct {
	Service *bookings.Service
	Events  *events.Service
	Env     string
}

func NewBookingsHandler(service *bookings.Service, eventsService *events.Service, env string) *BookingsHandler {
	return &BookingsHandler{Service: service, Events: eventsService, Env: env}
}

func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input bookings.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	booking, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeBookingError(w, r, err, h.Env)
		return
	}

	metrics.BookingsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, booking)
}

type bookingListResponse struct {
	Bookings []bookings.Booking `json:"bookings"`
}

// ListByEvent returns the bookings for the event named by slug in the path.
func (h *BookingsHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeEventError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.ListByEvent(r.Context(), event.ID)
	if err != nil {
		if errors.Is(err, bookings.ErrNotFound) {
			items = nil
		} else {
			writeBookingError(w, r, err, h.Env)
			return
		}
	}
	if items == nil {
		items = []bookings.Booking{}
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: items})
}
