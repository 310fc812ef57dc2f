// Package backend issues requests against the dashboard's Django backend.
package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OrlandoBitencourt/parkinsights/internal/telemetry"
)

// acceptHeader matches what browser clients of the backend send.
const acceptHeader = "application/json, text/plain, */*"

// Config configures the connection to the backend.
type Config struct {
	// BaseURL is the scheme+host(+port, +optional path prefix) of the backend.
	// Example: "http://localhost:8000"
	BaseURL string

	// Timeout bounds every request, body read included.
	Timeout time.Duration

	// UserAgent is sent when non-empty.
	UserAgent string

	// HTTPClient supplies transport settings. It is copied; its Timeout is
	// replaced by Timeout above.
	HTTPClient *http.Client
}

// Response is a backend response with its body fully read.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPClient performs single GET requests. It holds no per-call state and
// is safe for concurrent use.
type HTTPClient struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	telemetry  telemetry.Provider
	logger     *slog.Logger
}

// NewHTTPClient validates the base URL and creates a client.
func NewHTTPClient(config Config, tel telemetry.Provider, logger *slog.Logger) (*HTTPClient, error) {
	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", config.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", config.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", config.BaseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("invalid base URL %q: query and fragment are not allowed", config.BaseURL)
	}

	httpClient := &http.Client{}
	if config.HTTPClient != nil {
		clone := *config.HTTPClient
		httpClient = &clone
	}
	httpClient.Timeout = config.Timeout

	if tel == nil {
		tel = telemetry.NewNoOp()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &HTTPClient{
		endpoint:   strings.TrimRight(config.BaseURL, "/"),
		userAgent:  config.UserAgent,
		httpClient: httpClient,
		telemetry:  tel,
		logger:     logger,
	}, nil
}

// Timeout returns the per-request timeout.
func (c *HTTPClient) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// URL joins the base URL and a path starting with "/".
func (c *HTTPClient) URL(path string) string {
	return c.endpoint + path
}

// Get issues exactly one GET for path. Any status code is returned as a
// Response; only transport failures produce an error, and that error is
// the one net/http returned.
func (c *HTTPClient) Get(ctx context.Context, operation, path string) (*Response, error) {
	target := c.URL(path)

	ctx, span := c.telemetry.StartSpan(ctx, "parkinsights."+operation,
		telemetry.WithAttributes(
			telemetry.String("http.method", http.MethodGet),
			telemetry.String("http.url", target),
		))
	defer span.End()

	c.telemetry.TrackInFlight(ctx, operation, 1)
	defer c.telemetry.TrackInFlight(ctx, operation, -1)

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(ctx, span, operation, target, start, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, span, operation, target, start, err)
	}

	elapsed := time.Since(start)
	span.AddEvent("response body read",
		telemetry.Int64("http.response.body.size", int64(len(body))),
		telemetry.Duration("elapsed_ms", elapsed),
	)
	span.SetAttributes(
		telemetry.Int("http.status_code", resp.StatusCode),
		telemetry.Bool("http.success", telemetry.Outcome(resp.StatusCode, nil) == "ok"),
	)
	c.telemetry.RecordRequest(ctx, operation, resp.StatusCode, elapsed, nil)

	c.logger.DebugContext(ctx, "backend request completed",
		slog.String("operation", operation),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	)

	return &Response{
		Method:     http.MethodGet,
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// fail records a transport failure and hands err back unchanged.
func (c *HTTPClient) fail(ctx context.Context, span telemetry.Span, operation, target string, start time.Time, err error) error {
	elapsed := time.Since(start)
	span.RecordError(err)
	c.telemetry.RecordRequest(ctx, operation, 0, elapsed, err)

	c.logger.DebugContext(ctx, "backend request failed",
		slog.String("operation", operation),
		slog.String("url", target),
		slog.Duration("duration", elapsed),
		slog.Any("error", err),
	)

	return err
}
