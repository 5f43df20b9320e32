package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriluxe/certificate-registry/api"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			api.WriteError(w, slog.New(slog.NewTextHandler(io.Discard, nil)), err)
			return
		}
		w.Write(body)
	})
}

func newTestServer(t *testing.T, mutate func(cfg *api.HTTPServerConfig)) *Server {
	t.Helper()
	cfg := &api.HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      slog.New(slog.NewTextHandler(io.Discard, nil)),
		DrainDuration:            time.Millisecond,
		GracefulShutdownDuration: time.Second,
	}
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := New(cfg, nil, echoHandler{})
	require.NoError(t, err)
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, nil)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":"healthy"}`, w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestServer_DrainAndReadiness(t *testing.T) {
	srv := newTestServer(t, nil)

	available := true
	srv.AddReadinessCheck("store", func(ctx context.Context) bool { return available })

	ready := func() int {
		return serve(srv, httptest.NewRequest(http.MethodGet, "/readyz", nil)).Code
	}

	assert.Equal(t, http.StatusOK, ready())

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/drain", nil))
	assert.Contains(t, w.Body.String(), `"draining"`)
	assert.Equal(t, http.StatusServiceUnavailable, ready())

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/drain", nil))
	assert.Contains(t, w.Body.String(), "already draining")

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/undrain", nil))
	assert.Contains(t, w.Body.String(), `"ready"`)
	assert.Equal(t, http.StatusOK, ready())

	available = false
	assert.Equal(t, http.StatusServiceUnavailable, ready())

	assert.Equal(t, http.StatusOK, serve(srv, httptest.NewRequest(http.MethodGet, "/livez", nil)).Code)
}

func TestServer_OpenAPIDocument(t *testing.T) {
	srv := newTestServer(t, nil)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api-docs/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc), w.Body.String())
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/api/certificates/{cert_id}/transfer")
	assert.Contains(t, doc.Paths["/api/init"], "post")
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(t, func(cfg *api.HTTPServerConfig) {
		cfg.AllowedOrigins = []string{"https://shop.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/echo", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Registry-Signature")

	w := serve(srv, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-registry-signature")

	req = httptest.NewRequest(http.MethodOptions, "/api/echo", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = serve(srv, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RequestSizeLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *api.HTTPServerConfig) {
		cfg.MaxBodyBytes = 8
	})

	w := serve(srv, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8", w.Header().Get("X-Max-Request-Size"))

	w = serve(srv, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("way too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// body larger than announced
	req := httptest.NewRequest(http.MethodPost, "/api/echo", io.NopCloser(bytes.NewReader([]byte("way too large"))))
	req.ContentLength = -1
	w = serve(srv, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var envelope api.Envelope[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, api.CodePayloadTooLarge, envelope.Code)
}

func TestServer_RateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *api.HTTPServerConfig) {
		cfg.RateLimit = 0.001
		cfg.RateBurst = 2
	})

	for i := 0; i < 2; i++ {
		w := serve(srv, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("x")))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(srv, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("x")))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), api.CodeRateLimited)

	// health checks are not limited
	assert.Equal(t, http.StatusOK, serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestNew_RequiresMetricsServerForMetricsAddr(t *testing.T) {
	_, err := New(&api.HTTPServerConfig{
		MetricsAddr: "127.0.0.1:0",
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil)
	assert.Error(t, err)
}

type failingWriter struct {
	header http.Header
	code   int
}

func (f *failingWriter) Header() http.Header { return f.header }

func (f *failingWriter) WriteHeader(code int) { f.code = code }

func (f *failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestServer_OperationalWriteFailuresAreLogged(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(t, func(cfg *api.HTTPServerConfig) {
		cfg.Log = slog.New(slog.NewTextHandler(&logs, nil))
	})

	w := &failingWriter{header: http.Header{}}
	srv.handleLivenessCheck(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, w.code)
	assert.Equal(t, "application/json", w.header.Get("Content-Type"))
	assert.Contains(t, logs.String(), "Failed to write response")
	assert.Contains(t, logs.String(), "status=alive")

	logs.Reset()
	srv.handleOpenAPI(&failingWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/api-docs/openapi.json", nil))
	assert.Contains(t, logs.String(), "Failed to write OpenAPI document")
}
