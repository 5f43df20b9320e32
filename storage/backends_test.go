package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriluxe/certificate-registry/interfaces"
)

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, testLogger())
	require.NoError(t, err)
	require.True(t, backend.Available(context.Background()))

	doc := []byte(`{"brand":"Acme","model":"Watch 1"}`)
	id, err := backend.Store(context.Background(), doc, interfaces.MetadataType)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(doc), id)
	assert.FileExists(t, filepath.Join(dir, "metadata", id.String()))

	data, err := backend.Fetch(context.Background(), id, interfaces.MetadataType)
	require.NoError(t, err)
	assert.Equal(t, doc, data)

	// namespaces are separate
	_, err = backend.Fetch(context.Background(), id, interfaces.MediaType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)

	_, err = backend.Store(context.Background(), doc, interfaces.ContentType(42))
	assert.Error(t, err)

	require.NoError(t, os.RemoveAll(dir))
	assert.False(t, backend.Available(context.Background()))
}

func TestGitHubBackend_Fetch(t *testing.T) {
	doc := []byte(`{"brand":"Acme"}`)
	id := interfaces.ComputeID(doc)
	tampered := interfaces.ComputeID([]byte("other"))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/certs/contents/docs/metadata/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "application/vnd.github.raw+json", r.Header.Get("Accept"))
		_, _ = w.Write(doc)
	})
	mux.HandleFunc("/repos/acme/certs/contents/docs/metadata/"+tampered.String(), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(doc)
	})
	mux.HandleFunc("/repos/acme/certs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	backend := NewGitHubBackend("acme", "certs", "/docs/", "main", testLogger())
	backend.apiBase = server.URL

	assert.True(t, backend.Available(context.Background()))
	assert.Equal(t, "github://acme/certs/docs?ref=main", backend.LocationURI())

	data, err := backend.Fetch(context.Background(), id, interfaces.MetadataType)
	require.NoError(t, err)
	assert.Equal(t, doc, data)

	_, err = backend.Fetch(context.Background(), tampered, interfaces.MetadataType)
	assert.ErrorContains(t, err, "hash mismatch")

	_, err = backend.Fetch(context.Background(), id, interfaces.MediaType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)

	_, err = backend.Store(context.Background(), doc, interfaces.MetadataType)
	assert.Error(t, err)
}

func TestStorageBackendFactory(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	dir := t.TempDir()

	tests := []struct {
		name     string
		uri      string
		wantName string
		wantErr  bool
	}{
		{name: "file", uri: "file://" + dir, wantName: "file-" + filepath.Base(dir)},
		{name: "s3 with endpoint", uri: "s3://AKID:SECRET@bucket/certs/?region=eu-west-1&endpoint=http://localhost:9000", wantName: "s3-bucket"},
		{name: "ipfs", uri: "ipfs://localhost:5001/registry?timeout=5s", wantName: "ipfs-localhost"},
		{name: "ipfs bad timeout", uri: "ipfs://localhost:5001/registry?timeout=soon", wantErr: true},
		{name: "github", uri: "github://acme/certs/docs?ref=main", wantName: "github-acme-certs"},
		{name: "github without repo", uri: "github://acme", wantErr: true},
		{name: "vault", uri: "vault://vault.local:8200/secret/registry?tls=false", wantName: "vault-secret"},
		{name: "vault without mount", uri: "vault://vault.local:8200", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			location, err := interfaces.NewStorageBackendLocation(tt.uri)
			require.NoError(t, err)

			backend, err := factory.StorageBackendFor(location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, backend.Name(), tt.wantName)
		})
	}

	_, err := factory.StorageBackendFor(interfaces.StorageBackendLocation{Scheme: "ftp"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestStorageBackendFactory_CreateMultiBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	good, err := interfaces.NewStorageBackendLocation("file://" + t.TempDir())
	require.NoError(t, err)
	bad, err := interfaces.NewStorageBackendLocation("github://acme")
	require.NoError(t, err)

	multi, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{good, bad})
	require.NoError(t, err)

	doc := []byte("media bytes")
	id, err := multi.Store(context.Background(), doc, interfaces.MediaType)
	require.NoError(t, err)

	data, err := multi.Fetch(context.Background(), id, interfaces.MediaType)
	require.NoError(t, err)
	assert.Equal(t, doc, data)

	_, err = factory.CreateMultiBackend([]interfaces.StorageBackendLocation{bad})
	assert.Error(t, err)
}
