package parkinsights

import (
	"errors"
	"fmt"
	"net"
)

// Error types that may be returned by parkinsights operations.
//
// Transport failures (DNS, connection refused, timeout) are NOT wrapped:
// they come back exactly as net/http returned them, usually a *url.Error.

// HTTPError is returned when the backend answers with a non-2xx status.
// It carries the untouched response.
type HTTPError struct {
	Response *Response
}

func (e *HTTPError) Error() string {
	if e.Response == nil {
		return "unexpected HTTP status"
	}
	return fmt.Sprintf("HTTP %d: %s %s", e.Response.StatusCode, e.Response.Method, e.Response.URL)
}

// StatusCode returns the response status, or 0 when no response is attached.
func (e *HTTPError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// ConfigError indicates invalid client configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Field, e.Message)
}

// IsHTTPError reports whether err (or anything it wraps) is an *HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// IsConfigError reports whether err (or anything it wraps) is a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
