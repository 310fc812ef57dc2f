// Package parkinsights is a client for the parking-insights dashboard backend.
//
// Settings are resolved from the environment with Resolve and handed to New,
// which returns a Client exposing the backend's two read operations:
//
//	settings := parkinsights.ResolveFromEnv()
//	client, err := parkinsights.New(settings)
//	resp, err := client.GetParkingData(ctx)
package parkinsights

import (
	"context"
	"log/slog"
	"time"

	"github.com/OrlandoBitencourt/parkinsights/internal/backend"
)

// API paths, relative to Settings.BaseURL.
const (
	ParkingDataPath = "/api/parking/"
	InsightsPath    = "/api/insights/"
)

const (
	opParkingData = "get_parking_data"
	opInsights    = "get_insights"
)

// Client exposes the backend operations. Build it once and share it; it is
// safe for concurrent use and keeps no per-call state.
type Client struct {
	settings Settings
	backend  *backend.HTTPClient
	logger   *slog.Logger
}

// New creates a Client for settings.
//
// Example:
//
//	client, err := parkinsights.New(
//	    parkinsights.Resolve(env),
//	    parkinsights.WithTimeout(5 * time.Second),
//	)
func New(settings Settings, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if settings.BaseURL == "" {
		return nil, &ConfigError{Field: "BaseURL", Message: "cannot be empty"}
	}

	b, err := backend.NewHTTPClient(backend.Config{
		BaseURL:    settings.BaseURL,
		Timeout:    cfg.timeout,
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
	}, cfg.telemetry, cfg.logger)
	if err != nil {
		return nil, &ConfigError{Field: "BaseURL", Message: err.Error()}
	}

	return &Client{
		settings: settings,
		backend:  b,
		logger:   cfg.logger,
	}, nil
}

// Settings returns the settings the client was built from.
func (c *Client) Settings() Settings {
	return c.settings
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.backend.Timeout()
}

// GetParkingData fetches GET {BaseURL}/api/parking/.
//
// A non-2xx status returns the response together with an *HTTPError.
// Transport failures are returned exactly as net/http reported them.
func (c *Client) GetParkingData(ctx context.Context) (*Response, error) {
	return c.get(ctx, opParkingData, ParkingDataPath)
}

// GetInsights fetches GET {BaseURL}/api/insights/. Errors behave as in
// GetParkingData.
func (c *Client) GetInsights(ctx context.Context) (*Response, error) {
	return c.get(ctx, opInsights, InsightsPath)
}

func (c *Client) get(ctx context.Context, operation, path string) (*Response, error) {
	raw, err := c.backend.Get(ctx, operation, path)
	if err != nil {
		return nil, err
	}

	resp := toResponse(raw)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, &HTTPError{Response: resp}
	}

	return resp, nil
}
