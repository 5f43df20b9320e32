package main

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriluxe/certificate-registry/api/certhandler"
	"github.com/veriluxe/certificate-registry/auth"
	"github.com/veriluxe/certificate-registry/interfaces"
	"github.com/veriluxe/certificate-registry/keys"
	"github.com/veriluxe/certificate-registry/registry"
	"github.com/veriluxe/certificate-registry/storage"
)

func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.NewRegistry(storage.NewMemoryStateStore(logger), logger)

	mux := chi.NewRouter()
	certhandler.NewHandler(reg, auth.NewVerifier(auth.DefaultMaxSkew), logger).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runClient(t *testing.T, args ...string) error {
	t.Helper()
	return newApp().Run(append([]string{"registry_client"}, args...))
}

func TestRegistryClient_SignedCommands(t *testing.T) {
	server := newRegistryServer(t)
	dir := t.TempDir()

	adminKey, err := keys.GenerateKey()
	require.NoError(t, err)
	encrypted, err := keys.EncryptKey(adminKey, "s3cret", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	adminKeyPath := filepath.Join(dir, "admin.json")
	require.NoError(t, os.WriteFile(adminKeyPath, encrypted, 0o600))

	ownerKey, err := keys.GenerateKey()
	require.NoError(t, err)
	ownerKeyPath := filepath.Join(dir, "owner.hex")
	require.NoError(t, os.WriteFile(ownerKeyPath, []byte(keys.HexKey(ownerKey)+"\n"), 0o600))

	asAdmin := []string{"--registry-url", server.URL, "--key", adminKeyPath, "--key-password", "s3cret"}
	asOwner := []string{"--registry-url", server.URL, "--key", ownerKeyPath}
	owner := keys.Identity(ownerKey).String()

	require.NoError(t, runClient(t, append(asAdmin, "init")...))
	require.NoError(t, runClient(t, append(asAdmin, "issue", "--cert-id", "100%", "--metadata-hash", "hash1", "--owner", owner)...))
	require.NoError(t, runClient(t, append(asOwner, "transfer", "--cert-id", "100%", "--new-owner", keys.Identity(adminKey).String())...))
	require.NoError(t, runClient(t, append(asAdmin, "revoke", "--cert-id", "100%")...))

	reader := certhandler.NewClient(server.URL, nil)
	ctx := context.Background()

	admin, err := reader.GetAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, keys.Identity(adminKey), admin)

	cert, err := reader.GetCertificateDetails(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, keys.Identity(adminKey), cert.Owner)
	assert.Equal(t, "hash1", cert.MetadataHash)
	assert.False(t, cert.IsValid)
}

func TestRegistryClient_WrongKeystorePassword(t *testing.T) {
	server := newRegistryServer(t)

	key, err := keys.GenerateKey()
	require.NoError(t, err)
	encrypted, err := keys.EncryptKey(key, "s3cret", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, encrypted, 0o600))

	err = runClient(t, "--registry-url", server.URL, "--key", path, "--key-password", "wrong", "init")
	assert.ErrorIs(t, err, keys.ErrInvalidKey)

	_, err = certhandler.NewClient(server.URL, nil).GetAdmin(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrNotInitialized)
}
