package storage

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/veriluxe/certificate-registry/interfaces"
)

// registrySnapshot is the full registry state held in process memory.
type registrySnapshot struct {
	Admin        *interfaces.Identity                                   `json:"admin,omitempty"`
	Certificates map[interfaces.CertificateID]interfaces.Certificate `json:"certificates"`
}

func newRegistrySnapshot() *registrySnapshot {
	return &registrySnapshot{Certificates: make(map[interfaces.CertificateID]interfaces.Certificate)}
}

func (s *registrySnapshot) readAdmin(ctx context.Context) (interfaces.Identity, bool, error) {
	if s.Admin == nil {
		return interfaces.Identity{}, false, nil
	}
	return *s.Admin, true, nil
}

func (s *registrySnapshot) readCertificate(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, bool, error) {
	cert, ok := s.Certificates[id]
	return cert, ok, nil
}

func (s *registrySnapshot) clone() *registrySnapshot {
	next := &registrySnapshot{Certificates: maps.Clone(s.Certificates)}
	if next.Certificates == nil {
		next.Certificates = make(map[interfaces.CertificateID]interfaces.Certificate)
	}
	if s.Admin != nil {
		admin := *s.Admin
		next.Admin = &admin
	}
	return next
}

func (s *registrySnapshot) apply(staged *stagedState) {
	if staged.cleared {
		s.Certificates = make(map[interfaces.CertificateID]interfaces.Certificate)
	}
	if staged.admin != nil {
		admin := *staged.admin
		s.Admin = &admin
	}
	for id, cert := range staged.certs {
		s.Certificates[id] = cert
	}
}

// MemoryStateStore keeps registry state in process memory. State is lost on
// restart.
type MemoryStateStore struct {
	mu    sync.RWMutex
	state *registrySnapshot
	log   *slog.Logger
}

func NewMemoryStateStore(log *slog.Logger) *MemoryStateStore {
	return &MemoryStateStore{
		state: newRegistrySnapshot(),
		log:   log,
	}
}

func (m *MemoryStateStore) View(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(newStagedState(m.state, true))
}

func (m *MemoryStateStore) Update(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := newStagedState(m.state, false)
	if err := fn(staged); err != nil {
		return err
	}
	m.state.apply(staged)
	return nil
}

func (m *MemoryStateStore) Available(ctx context.Context) bool {
	return true
}

func (m *MemoryStateStore) Name() string {
	return "memory"
}

func (m *MemoryStateStore) Close() error {
	return nil
}
