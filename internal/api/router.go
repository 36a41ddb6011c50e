package api

import (
	"net/http"

	"github.com/devevents/server/internal/api/handlers"
	"github.com/devevents/server/internal/api/middleware"
	"github.com/devevents/server/internal/config"
	"github.com/devevents/server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps carries the fully constructed handlers. The router wires
// routes and middleware only; all services are built by the caller.
type RouterDeps struct {
	Events   *handlers.EventsHandler
	Bookings *handlers.BookingsHandler
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthChecker
	CORS     config.CORSConfig
	Logger   zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/healthz", handlers.Healthz())
	if deps.Health != nil {
		mux.Handle("/readyz", deps.Health.Ready())
	} else {
		mux.Handle("/readyz", handlers.Readyz())
	}
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	jsonBody := middleware.PublicRequestSize()
	uploadBody := middleware.UploadRequestSize()

	mux.Handle("GET /api/v1/events", http.HandlerFunc(deps.Events.List))
	mux.Handle("POST /api/v1/events", uploadBody(http.HandlerFunc(deps.Events.Create)))
	mux.Handle("GET /api/v1/events/{slug}", http.HandlerFunc(deps.Events.Get))
	mux.Handle("PUT /api/v1/events/{idOrSlug}", uploadBody(http.HandlerFunc(deps.Events.Update)))
	mux.Handle("DELETE /api/v1/events/{idOrSlug}", http.HandlerFunc(deps.Events.Delete))
	mux.Handle("GET /api/v1/events/{slug}/bookings", http.HandlerFunc(deps.Bookings.ListByEvent))

	mux.Handle("POST /api/v1/bookings", jsonBody(http.HandlerFunc(deps.Bookings.Create)))
	mux.Handle("POST /api/v1/auth/signup", jsonBody(http.HandlerFunc(deps.Auth.Signup)))
	mux.Handle("POST /api/v1/auth/login", jsonBody(http.HandlerFunc(deps.Auth.Login)))
	mux.Handle("GET /api/v1/auth/me", http.HandlerFunc(deps.Auth.Me))
	mux.Handle("PUT /api/v1/auth/me", jsonBody(http.HandlerFunc(deps.Auth.UpdateMe)))

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.CORS(deps.CORS, deps.Logger)(handler)
	handler = middleware.RequestLogging(deps.Logger)(handler)
	handler = middleware.CorrelationID(deps.Logger)(handler)
	return handler
}
