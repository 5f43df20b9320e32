package metadatahandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/veriluxe/certificate-registry/api"
	"github.com/veriluxe/certificate-registry/interfaces"
	"github.com/veriluxe/certificate-registry/storage"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	args := m.Called(ctx, id, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	args := m.Called(ctx, data, contentType)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

func (m *mockBackend) Available(ctx context.Context) bool { return true }
func (m *mockBackend) Name() string                       { return "mock" }
func (m *mockBackend) LocationURI() string                { return "mock:" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServer(t *testing.T, backend interfaces.StorageBackend) *httptest.Server {
	t.Helper()
	mux := chi.NewRouter()
	NewHandler(backend, testLogger()).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_StoreAndFetch(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)
	client := NewClient(newServer(t, backend).URL)

	document := []byte(`{"brand":"Acme","model":"Chronograph","serial":"A-001"}`)
	id, err := client.Store(ctx, document, interfaces.MetadataType)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(document), id)

	data, err := client.Fetch(ctx, id, interfaces.MetadataType)
	require.NoError(t, err)
	assert.Equal(t, document, data)

	_, err = client.Fetch(ctx, id, interfaces.MediaType)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestHandler_Store(t *testing.T) {
	document := []byte("photo bytes")
	id := interfaces.ComputeID(document)

	backend := &mockBackend{}
	backend.On("Store", mock.Anything, document, interfaces.MediaType).Return(id, nil)
	server := newServer(t, backend)

	resp, err := http.Post(server.URL+"/api/metadata?type=media", "application/octet-stream", bytes.NewReader(document))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope api.Envelope[api.MetadataResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, api.MetadataResponse{
		ContentID:   id.String(),
		ContentType: "media",
		Size:        len(document),
		Locations:   []string{"mock:"},
	}, envelope.Data)
	backend.AssertExpectations(t)
}

func TestHandler_Rejections(t *testing.T) {
	backend := &mockBackend{}
	backend.On("Store", mock.Anything, []byte("doc"), interfaces.MetadataType).
		Return(interfaces.ContentID{}, errors.Join(interfaces.ErrBackendUnavailable, errors.New("s3 timeout")))
	backend.On("Fetch", mock.Anything, mock.Anything, interfaces.MetadataType).Return(nil, interfaces.ErrContentNotFound)
	server := newServer(t, backend)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "unknown type", method: http.MethodPost, path: "/api/metadata?type=config", body: "doc", status: http.StatusBadRequest, code: api.CodeInvalidInput},
		{name: "empty document", method: http.MethodPost, path: "/api/metadata", status: http.StatusBadRequest, code: api.CodeInvalidInput},
		{name: "backend failure", method: http.MethodPost, path: "/api/metadata", body: "doc", status: http.StatusInternalServerError, code: api.CodeStoreUnavailable},
		{name: "malformed content id", method: http.MethodGet, path: "/api/metadata/xyz", status: http.StatusBadRequest, code: api.CodeInvalidInput},
		{name: "missing document", method: http.MethodGet, path: "/api/metadata/" + interfaces.ComputeID([]byte("x")).String(), status: http.StatusNotFound, code: api.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, bytes.NewBufferString(tt.body))
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			_, err = api.DecodeResponse[any](resp)
			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}
