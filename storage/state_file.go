package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/veriluxe/certificate-registry/interfaces"
)

// FileStateStore keeps registry state in a single JSON document. Each
// committed update rewrites the document through a temporary file and a
// rename, so readers of the file never observe a half-written state.
type FileStateStore struct {
	mu    sync.RWMutex
	path  string
	state *registrySnapshot
	log   *slog.Logger
}

// NewFileStateStore opens the state document at path, creating an empty
// registry if the file does not exist yet.
func NewFileStateStore(path string, log *slog.Logger) (*FileStateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	state := newRegistrySnapshot()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info("Starting with empty registry state", slog.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("failed to read state file: %w", err)
	default:
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
		}
		if state.Certificates == nil {
			state.Certificates = make(map[interfaces.CertificateID]interfaces.Certificate)
		}
		log.Info("Loaded registry state",
			slog.String("path", path),
			slog.Int("certificates", len(state.Certificates)))
	}

	return &FileStateStore{
		path:  path,
		state: state,
		log:   log,
	}, nil
}

func (f *FileStateStore) View(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return fn(newStagedState(f.state, true))
}

func (f *FileStateStore) Update(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	staged := newStagedState(f.state, false)
	if err := fn(staged); err != nil {
		return err
	}
	if !staged.dirty() {
		return nil
	}

	next := f.state.clone()
	next.apply(staged)
	if err := f.persist(next); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	f.state = next
	return nil
}

func (f *FileStateStore) persist(state *registrySnapshot) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".registry-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	f.log.Debug("Persisted registry state",
		slog.String("path", f.path),
		slog.Int("size", len(data)))
	return nil
}

func (f *FileStateStore) Available(ctx context.Context) bool {
	_, err := os.Stat(filepath.Dir(f.path))
	if err != nil {
		f.log.Debug("File state store unavailable", "err", err)
		return false
	}
	return true
}

func (f *FileStateStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(f.path))
}

func (f *FileStateStore) Close() error {
	return nil
}
