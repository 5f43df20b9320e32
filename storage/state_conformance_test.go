package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriluxe/certificate-registry/interfaces"
)

var (
	testAdmin = interfaces.Identity{0xad}
	testOwner = interfaces.Identity{0x01}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readAll(t *testing.T, store interfaces.StateStore, id interfaces.CertificateID) (admin interfaces.Identity, adminSet bool, cert interfaces.Certificate, exists bool) {
	t.Helper()
	ctx := context.Background()
	err := store.View(ctx, func(state interfaces.RegistryState) error {
		var err error
		admin, adminSet, err = state.Admin(ctx)
		if err != nil {
			return err
		}
		cert, exists, err = state.Certificate(ctx, id)
		return err
	})
	require.NoError(t, err)
	return
}

// runStateStoreConformance checks the StateStore contract against a fresh,
// empty store returned by newStore.
func runStateStoreConformance(t *testing.T, newStore func(t *testing.T) interfaces.StateStore) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		store := newStore(t)
		_, adminSet, _, exists := readAll(t, store, "CERT-1")
		assert.False(t, adminSet)
		assert.False(t, exists)
		assert.True(t, store.Available(ctx))
		assert.NotEmpty(t, store.Name())
	})

	t.Run("committed update is visible", func(t *testing.T) {
		store := newStore(t)
		want := interfaces.Certificate{Owner: testOwner, MetadataHash: "QmHash", IsValid: true}

		err := store.Update(ctx, func(state interfaces.RegistryState) error {
			if err := state.SetAdmin(ctx, testAdmin); err != nil {
				return err
			}
			return state.PutCertificate(ctx, "CERT-1", want)
		})
		require.NoError(t, err)

		admin, adminSet, cert, exists := readAll(t, store, "CERT-1")
		assert.True(t, adminSet)
		assert.Equal(t, testAdmin, admin)
		assert.True(t, exists)
		assert.Equal(t, want, cert)
	})

	t.Run("failed update leaves no writes", func(t *testing.T) {
		store := newStore(t)
		boom := errors.New("boom")

		err := store.Update(ctx, func(state interfaces.RegistryState) error {
			if err := state.SetAdmin(ctx, testAdmin); err != nil {
				return err
			}
			if err := state.PutCertificate(ctx, "CERT-1", interfaces.Certificate{Owner: testOwner, IsValid: true}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, adminSet, _, exists := readAll(t, store, "CERT-1")
		assert.False(t, adminSet)
		assert.False(t, exists)
	})

	t.Run("update reads its own writes", func(t *testing.T) {
		store := newStore(t)
		err := store.Update(ctx, func(state interfaces.RegistryState) error {
			if err := state.PutCertificate(ctx, "CERT-1", interfaces.Certificate{Owner: testOwner, MetadataHash: "h", IsValid: true}); err != nil {
				return err
			}
			cert, exists, err := state.Certificate(ctx, "CERT-1")
			require.NoError(t, err)
			assert.True(t, exists)
			assert.Equal(t, "h", cert.MetadataHash)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("clear drops existing certificates", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Update(ctx, func(state interfaces.RegistryState) error {
			if err := state.PutCertificate(ctx, "CERT-1", interfaces.Certificate{Owner: testOwner, IsValid: true}); err != nil {
				return err
			}
			return state.PutCertificate(ctx, "CERT-2", interfaces.Certificate{Owner: testOwner, IsValid: true})
		}))

		require.NoError(t, store.Update(ctx, func(state interfaces.RegistryState) error {
			if err := state.ClearCertificates(ctx); err != nil {
				return err
			}
			_, exists, err := state.Certificate(ctx, "CERT-1")
			require.NoError(t, err)
			assert.False(t, exists)
			return state.PutCertificate(ctx, "CERT-3", interfaces.Certificate{Owner: testOwner, IsValid: true})
		}))

		_, _, _, exists := readAll(t, store, "CERT-1")
		assert.False(t, exists)
		_, _, _, exists = readAll(t, store, "CERT-2")
		assert.False(t, exists)
		_, _, _, exists = readAll(t, store, "CERT-3")
		assert.True(t, exists)
	})

	t.Run("view rejects writes", func(t *testing.T) {
		store := newStore(t)
		err := store.View(ctx, func(state interfaces.RegistryState) error {
			return state.SetAdmin(ctx, testAdmin)
		})
		assert.Error(t, err)

		_, adminSet, _, _ := readAll(t, store, "CERT-1")
		assert.False(t, adminSet)
	})

	t.Run("certificate ids are exact strings", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Update(ctx, func(state interfaces.RegistryState) error {
			return state.PutCertificate(ctx, "Cert-1", interfaces.Certificate{Owner: testOwner, IsValid: true})
		}))

		_, _, _, exists := readAll(t, store, "cert-1")
		assert.False(t, exists)
		_, _, _, exists = readAll(t, store, "Cert-1")
		assert.True(t, exists)
	})
}

func TestMemoryStateStore(t *testing.T) {
	runStateStoreConformance(t, func(t *testing.T) interfaces.StateStore {
		return NewMemoryStateStore(testLogger())
	})
}

func TestFileStateStore(t *testing.T) {
	runStateStoreConformance(t, func(t *testing.T) interfaces.StateStore {
		store, err := NewFileStateStore(filepath.Join(t.TempDir(), "state.json"), testLogger())
		require.NoError(t, err)
		return store
	})
}

func TestFileStateStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	store, err := NewFileStateStore(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, func(state interfaces.RegistryState) error {
		if err := state.SetAdmin(ctx, testAdmin); err != nil {
			return err
		}
		return state.PutCertificate(ctx, "CERT-1", interfaces.Certificate{Owner: testOwner, MetadataHash: "QmHash", IsValid: false})
	}))

	reopened, err := NewFileStateStore(path, testLogger())
	require.NoError(t, err)

	admin, adminSet, cert, exists := readAll(t, reopened, "CERT-1")
	assert.True(t, adminSet)
	assert.Equal(t, testAdmin, admin)
	assert.True(t, exists)
	assert.Equal(t, interfaces.Certificate{Owner: testOwner, MetadataHash: "QmHash", IsValid: false}, cert)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStateStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStateStore(path, testLogger())
	assert.Error(t, err)
}

func TestNewStateStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewStateStore(ctx, "memory://", testLogger())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStateStore{}, store)

	store, err = NewStateStore(ctx, "file://"+filepath.Join(t.TempDir(), "state.json"), testLogger())
	require.NoError(t, err)
	assert.IsType(t, &FileStateStore{}, store)

	_, err = NewStateStore(ctx, "ftp://example.com/state", testLogger())
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}
