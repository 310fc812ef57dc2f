package webapp

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OrlandoBitencourt/parkinsights/internal/layout"
	"github.com/OrlandoBitencourt/parkinsights/internal/routes"
)

const indexHTML = `<!doctype html><html><body><div id="app"></div></body></html>`

func init() {
	gin.SetMode(gin.TestMode)
}

// buildLayout lays out a fake dashboard build in a temp dir.
func buildLayout(t *testing.T) layout.Layout {
	t.Helper()
	root := t.TempDir()

	static := filepath.Join(root, "backend", "static")
	templates := filepath.Join(root, "backend", "templates")
	require.NoError(t, os.MkdirAll(filepath.Join(static, "js"), 0o755))
	require.NoError(t, os.MkdirAll(templates, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(static, "js", "app.js"), []byte("console.log('app')"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(templates, "index.html"), []byte(indexHTML), 0o644))

	return layout.Layout{
		OutputDir:  static,
		IndexPath:  filepath.Join(templates, "index.html"),
		PublicPath: "/static/",
	}
}

func newTestServer(t *testing.T, l layout.Layout) *Server {
	t.Helper()
	s, err := New(l, routes.Default(), nil)
	require.NoError(t, err)
	return s
}

func do(s *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_RoutesServeIndex(t *testing.T) {
	s := newTestServer(t, buildLayout(t))

	tests := []struct {
		path string
		view routes.View
	}{
		{"/", routes.ViewHome},
		{"/insights", routes.ViewInsights},
		{"/parking", routes.ViewParking},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(s, http.MethodGet, tt.path)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, indexHTML, w.Body.String())
			assert.Equal(t, string(tt.view), w.Header().Get("X-Dashboard-View"))
			assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
		})
	}
}

func TestServer_HeadRoute(t *testing.T) {
	s := newTestServer(t, buildLayout(t))

	w := do(s, http.MethodHead, "/parking")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestServer_TrailingSlashRedirects(t *testing.T) {
	s := newTestServer(t, buildLayout(t))

	w := do(s, http.MethodGet, "/insights/")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/insights", w.Header().Get("Location"))
}

func TestServer_StaticAssets(t *testing.T) {
	s := newTestServer(t, buildLayout(t))

	w := do(s, http.MethodGet, "/static/js/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log('app')", w.Body.String())

	w = do(s, http.MethodGet, "/static/js/missing.js")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_UnknownPath(t *testing.T) {
	s := newTestServer(t, buildLayout(t))

	w := do(s, http.MethodGet, "/admin")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/admin", body["path"])
}

func TestServer_MissingBuild(t *testing.T) {
	l := buildLayout(t)
	require.NoError(t, os.Remove(l.IndexPath))
	s := newTestServer(t, l)

	w := do(s, http.MethodGet, "/insights")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, buildLayout(t))

	w := do(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "/static/", body["publicPath"])
	assert.Equal(t, false, body["devtools"])
}

func TestServer_HealthReportsDevtools(t *testing.T) {
	l := buildLayout(t)
	l.Devtools = true
	s := newTestServer(t, l)

	w := do(s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["devtools"])
}

func TestNew_InvalidLayout(t *testing.T) {
	l := buildLayout(t)

	l.PublicPath = "/"
	_, err := New(l, routes.Default(), nil)
	assert.Error(t, err)

	l.PublicPath = "static"
	_, err = New(l, routes.Default(), nil)
	assert.Error(t, err)
}

func TestNew_NilTableUsesDefault(t *testing.T) {
	s, err := New(buildLayout(t), nil, nil)
	require.NoError(t, err)

	w := do(s, http.MethodGet, "/parking")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_ListenAndServe(t *testing.T) {
	s := newTestServer(t, buildLayout(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
