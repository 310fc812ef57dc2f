package parkinsights

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/OrlandoBitencourt/parkinsights/internal/telemetry"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 10 * time.Second

// Option configures a Client.
type Option func(*clientConfig) error

type clientConfig struct {
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	telemetry  telemetry.Provider
	logger     *slog.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		timeout:   DefaultTimeout,
		telemetry: telemetry.NewNoOp(),
		logger:    slog.New(slog.DiscardHandler),
	}
}

// WithTimeout overrides DefaultTimeout for every request made by the client.
//
// Example: parkinsights.WithTimeout(3 * time.Second)
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) error {
		if timeout <= 0 {
			return &ConfigError{Field: "Timeout", Message: fmt.Sprintf("must be positive, got %s", timeout)}
		}
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient supplies transport settings (proxy, TLS, round tripper).
// The client is copied and its Timeout replaced by the configured timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *clientConfig) error {
		if httpClient == nil {
			return &ConfigError{Field: "HTTPClient", Message: "cannot be nil"}
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) error {
		c.userAgent = userAgent
		return nil
	}
}

// WithLogger sets the structured logger. Requests are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) error {
		if logger == nil {
			return &ConfigError{Field: "Logger", Message: "cannot be nil"}
		}
		c.logger = logger
		return nil
	}
}

// WithOpenTelemetry records spans and request metrics through the global
// OpenTelemetry tracer and meter providers.
func WithOpenTelemetry() Option {
	return func(c *clientConfig) error {
		provider, err := telemetry.NewOTel()
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		c.telemetry = provider
		return nil
	}
}

func withTelemetry(provider telemetry.Provider) Option {
	return func(c *clientConfig) error {
		if provider == nil {
			return &ConfigError{Field: "Telemetry", Message: "cannot be nil"}
		}
		c.telemetry = provider
		return nil
	}
}
