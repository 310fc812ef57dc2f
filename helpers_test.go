package parkinsights

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// recordedRequest is what the mock backend saw for one call.
type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
}

// MockBackend is a mock Django backend serving the two dashboard endpoints.
type MockBackend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   map[string]int
	bodies   map[string]string
}

// NewMockBackend starts a mock backend; it is closed when the test ends.
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()

	mock := &MockBackend{
		status: map[string]int{
			ParkingDataPath: http.StatusOK,
			InsightsPath:    http.StatusOK,
		},
		bodies: map[string]string{
			ParkingDataPath: `{"results":[{"zone_number":"7301","street":"Collins St","coords":{"lat":-37.81,"lon":144.96},"total_spots":12,"available_spots":4,"latest_update":"2025-08-01T10:00:00+10:00"}]}`,
			InsightsPath:    `{"vehicle_growth":[{"year":2020,"vehicles":100}],"cbd_population":[{"year":2020,"population":50000}]}`,
		},
	}

	handler := func(path string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)

			mock.mu.Lock()
			mock.requests = append(mock.requests, recordedRequest{
				Method:   r.Method,
				Path:     r.URL.Path,
				RawQuery: r.URL.RawQuery,
				Body:     body,
			})
			status := mock.status[path]
			payload := mock.bodies[path]
			mock.mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, payload)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(ParkingDataPath, handler(ParkingDataPath))
	mux.HandleFunc(InsightsPath, handler(InsightsPath))

	mock.Server = httptest.NewServer(mux)
	t.Cleanup(mock.Close)

	return mock
}

// Respond sets the status and body served for path.
func (m *MockBackend) Respond(path string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[path] = status
	m.bodies[path] = body
}

// Requests returns a copy of every request received so far.
func (m *MockBackend) Requests() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// Body returns the body currently served for path.
func (m *MockBackend) Body(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bodies[path]
}

// settingsFor resolves settings pointing at the mock backend.
func settingsFor(m *MockBackend) Settings {
	return Resolve(map[string]string{EnvBaseURL: m.URL})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
