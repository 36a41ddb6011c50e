package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/mail"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Config controls the booking confirmation sender. Disabled by default so
// local development never talks to the Resend API.
type Config struct {
	Enabled bool
	APIKey  string
	From    string
}

// Service sends transactional email through Resend.
type Service struct {
	config       Config
	resendClient *resend.Client
	logger       zerolog.Logger
}

const confirmationTemplate = `<p>Your spot is confirmed.</p>
<p>We have registered <strong>{{.Email}}</strong> for <strong>{{.EventTitle}}</strong>.</p>
<p>See you there!</p>`

var confirmation = template.Must(template.New("confirmation").Parse(confirmationTemplate))

func NewService(cfg Config, logger zerolog.Logger) (*Service, error) {
	service := &Service{
		config: cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}

	if cfg.Enabled {
		if _, err := mail.ParseAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("email enabled but api key is empty")
		}
		service.resendClient = resend.NewClient(cfg.APIKey)
	}

	return service, nil
}

// SendBookingConfirmation emails the booked address. When the service is
// disabled it logs and returns nil so callers never branch on config.
func (s *Service) SendBookingConfirmation(ctx context.Context, to, eventTitle string) error {
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		s.logger.Info().
			Str("to", to).
			Str("event", eventTitle).
			Msg("email service disabled, skipping booking confirmation")
		return nil
	}

	var body bytes.Buffer
	data := struct {
		Email      string
		EventTitle string
	}{Email: to, EventTitle: eventTitle}
	if err := confirmation.Execute(&body, data); err != nil {
		return fmt.Errorf("render confirmation template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{to},
		Subject: fmt.Sprintf("Booking confirmed: %s", eventTitle),
		Html:    body.String(),
	}

	sent, err := s.resendClient.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded: %w", err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Info().
		Str("email_id", sent.Id).
		Str("to", to).
		Msg("booking confirmation sent")
	return nil
}
