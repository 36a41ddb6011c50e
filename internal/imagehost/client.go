package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout for a single upload request.
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit keeps uploads below 5 requests per second.
	DefaultRateLimit = rate.Limit(5.0)
	// MaxRetries for transient upstream errors.
	MaxRetries = 2
	// RetryBaseDelay is the initial backoff delay.
	RetryBaseDelay = 1 * time.Second
)

// Client uploads image binaries to the external hosting service and returns
// the secure URL the service minted. The service itself is consumed, not
// reimplemented: one POST per image, JSON response.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	folder     string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithFolder sets the remote folder uploads land in.
func WithFolder(folder string) Option {
	return func(c *Client) {
		c.folder = folder
	}
}

// WithRateLimit sets a custom rate limit (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		folder:  "devevents",
		limiter: rate.NewLimiter(DefaultRateLimit, 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends the image bytes and returns the hosted secure URL.
// Transient upstream failures (network, 429, 5xx) are retried with
// exponential backoff; anything else fails immediately.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	body, contentType, err := c.buildForm(filename, data)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := RetryBaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (%d)", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return "", fmt.Errorf("upload rejected (%d): %s", resp.StatusCode, string(respBody))
		}

		var result uploadResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if result.SecureURL == "" {
			return "", fmt.Errorf("upload response missing secure_url")
		}
		return result.SecureURL, nil
	}

	return "", fmt.Errorf("upload failed after %d attempts: %w", MaxRetries+1, lastErr)
}

func (c *Client) buildForm(filename string, data []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("folder", c.folder); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
