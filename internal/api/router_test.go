package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devevents/server/internal/api/handlers"
	"github.com/devevents/server/internal/auth"
	"github.com/devevents/server/internal/config"
	"github.com/devevents/server/internal/domain/bookings"
	"github.com/devevents/server/internal/domain/events"
	"github.com/devevents/server/internal/domain/users"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeEventsRepo struct{}

func (fakeEventsRepo) List(_ context.Context) ([]events.Event, error) { return nil, nil }
func (fakeEventsRepo) GetByID(_ context.Context, _ string) (*events.Event, error) {
	return nil, events.ErrNotFound
}
func (fakeEventsRepo) GetBySlug(_ context.Context, slug string) (*events.Event, error) {
	if slug == "gophercon-2026" {
		return &events.Event{ID: "01HQZX3Y4K6F7G8H9J0K1M2N3P", Slug: slug, Title: "GopherCon 2026"}, nil
	}
	return nil, events.ErrNotFound
}
func (fakeEventsRepo) Create(_ context.Context, event *events.Event) (*events.Event, error) {
	return event, nil
}
func (fakeEventsRepo) Update(_ context.Context, event *events.Event) (*events.Event, error) {
	return event, nil
}
func (fakeEventsRepo) Delete(_ context.Context, _ string) (*events.Event, error) {
	return nil, events.ErrNotFound
}

type fakeBookingsRepo struct{}

func (fakeBookingsRepo) Create(_ context.Context, booking *bookings.Booking) (*bookings.Booking, error) {
	return booking, nil
}
func (fakeBookingsRepo) ListByEvent(_ context.Context, _ string) ([]bookings.Booking, error) {
	return nil, nil
}

type fakeUsersRepo struct{}

func (fakeUsersRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	return user, nil
}
func (fakeUsersRepo) Update(_ context.Context, user *users.User) (*users.User, error) {
	return user, nil
}
func (fakeUsersRepo) GetByID(_ context.Context, _ string) (*users.User, error) {
	return nil, users.ErrNotFound
}
func (fakeUsersRepo) GetByEmail(_ context.Context, _ string) (*users.User, error) {
	return nil, users.ErrNotFound
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	eventsRepo := fakeEventsRepo{}
	eventsService := events.NewService(eventsRepo)
	bookingsService := bookings.NewService(fakeBookingsRepo{}, eventsRepo, nil, logger)
	usersService := users.NewService(fakeUsersRepo{})
	tokens := auth.NewJWTManager("test-secret-test-secret-test-secret", time.Hour, "devevents")

	return NewRouter(RouterDeps{
		Events:   handlers.NewEventsHandler(eventsService, nil, "test"),
		Bookings: handlers.NewBookingsHandler(bookingsService, eventsService, "test"),
		Auth:     handlers.NewAuthHandler(usersService, tokens, "test"),
		CORS:     config.CORSConfig{AllowAllOrigins: true},
		Logger:   logger,
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"liveness", http.MethodGet, "/healthz", http.StatusOK},
		{"readiness fallback", http.MethodGet, "/readyz", http.StatusOK},
		{"metrics exposition", http.MethodGet, "/metrics", http.StatusOK},
		{"events list", http.MethodGet, "/api/v1/events", http.StatusOK},
		{"event by slug", http.MethodGet, "/api/v1/events/gophercon-2026", http.StatusOK},
		{"unknown slug", http.MethodGet, "/api/v1/events/unknown", http.StatusNotFound},
		{"bookings by slug", http.MethodGet, "/api/v1/events/gophercon-2026/bookings", http.StatusOK},
		{"me without token", http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{"method not allowed", http.MethodPatch, "/api/v1/events", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
