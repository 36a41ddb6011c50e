package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/devevents/server/internal/api"
	"github.com/devevents/server/internal/api/handlers"
	"github.com/devevents/server/internal/auth"
	"github.com/devevents/server/internal/config"
	"github.com/devevents/server/internal/domain/bookings"
	"github.com/devevents/server/internal/domain/events"
	"github.com/devevents/server/internal/domain/users"
	"github.com/devevents/server/internal/email"
	"github.com/devevents/server/internal/imagehost"
	"github.com/devevents/server/internal/metrics"
	"github.com/devevents/server/internal/storage/postgres"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", version).Msg("starting devevents server")

	metrics.Init(version, gitCommit, buildDate)

	if err := postgres.MigrateUp(cfg.Database.URL, ""); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	manager := postgres.NewManager(cfg.Database)
	defer manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := manager.Connect(ctx)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}

	collector := metrics.NewDBCollector(pool)
	go collector.Start(context.Background(), 15*time.Second)
	defer collector.Stop()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("repository init failed")
	}

	mailer, err := email.NewService(email.Config{
		Enabled: cfg.Email.Enabled,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("email service init failed")
	}

	eventsService := events.NewService(repo.Events())
	bookingsService := bookings.NewService(repo.Bookings(), repo.Events(), mailer, logger)
	usersService := users.NewService(repo.Users())
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, "devevents")

	var uploader handlers.Uploader
	if cfg.ImageHost.BaseURL != "" {
		uploader = imagehost.NewClient(cfg.ImageHost.BaseURL, cfg.ImageHost.APIKey,
			imagehost.WithFolder(cfg.ImageHost.Folder))
	} else {
		logger.Warn().Msg("IMAGE_HOST_URL not set; multipart image uploads will fail")
	}

	router := api.NewRouter(api.RouterDeps{
		Events:   handlers.NewEventsHandler(eventsService, uploader, cfg.Environment),
		Bookings: handlers.NewBookingsHandler(bookingsService, eventsService, cfg.Environment),
		Auth:     handlers.NewAuthHandler(usersService, tokens, cfg.Environment),
		Health:   handlers.NewHealthChecker(pool, version, gitCommit),
		CORS:     cfg.CORS,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	shutdown(server, cfg.Server.ShutdownTimeout, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
