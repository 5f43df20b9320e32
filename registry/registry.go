package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/veriluxe/certificate-registry/interfaces"
	"github.com/veriluxe/certificate-registry/metrics"
)

const (
	opInitialize = "initialize"
	opIssue      = "issue_certificate"
	opVerify     = "verify"
	opDetails    = "get_certificate_details"
	opTransfer   = "transfer"
	opRevoke     = "revoke"
	opExists     = "certificate_exists"
	opGetAdmin   = "get_admin"
)

// Registry implements interfaces.CertificateRegistry on top of a StateStore.
type Registry struct {
	store   interfaces.StateStore
	log     *slog.Logger
	metrics *metrics.RegistryMetrics

	allowReinitialize bool

	// mu runs whole operations one at a time within the process. Cross-process
	// atomicity is the store's job.
	mu sync.RWMutex
}

type Option func(*Registry)

// WithReinitialization lets Initialize replace an existing admin. Doing so
// drops every certificate.
func WithReinitialization(allow bool) Option {
	return func(r *Registry) {
		r.allowReinitialize = allow
	}
}

func WithMetrics(m *metrics.RegistryMetrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

func NewRegistry(store interfaces.StateStore, log *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		log:   log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ interfaces.CertificateRegistry = (*Registry)(nil)

func authorizes(proof interfaces.AuthorizationProof, identity interfaces.Identity) bool {
	return proof != nil && proof.Authorizes(identity)
}

// Initialize installs admin as the registry administrator.
func (r *Registry) Initialize(ctx context.Context, proof interfaces.AuthorizationProof, admin interfaces.Identity) (err error) {
	defer r.observe(opInitialize, time.Now(), &err)

	if !authorizes(proof, admin) {
		r.log.Warn("Rejected initialization without admin authorization", "admin", admin.String())
		return fmt.Errorf("initialize with admin %s: %w", admin, interfaces.ErrAuthorization)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var replaced bool
	var previous interfaces.Identity
	err = r.store.Update(ctx, func(state interfaces.RegistryState) error {
		current, initialized, err := state.Admin(ctx)
		if err != nil {
			return err
		}

		replaced = initialized
		previous = current
		if initialized {
			if !r.allowReinitialize {
				return interfaces.ErrAlreadyInitialized
			}
			if err := state.ClearCertificates(ctx); err != nil {
				return err
			}
		}
		return state.SetAdmin(ctx, admin)
	})
	if err != nil {
		return fmt.Errorf("initialize with admin %s: %w", admin, err)
	}

	if replaced {
		r.log.Warn("Registry re-initialized, all certificates dropped",
			"previousAdmin", previous.String(),
			"admin", admin.String())
	} else {
		r.log.Info("Registry initialized", "admin", admin.String())
	}
	return nil
}

// IssueCertificate records a new valid certificate owned by owner.
func (r *Registry) IssueCertificate(ctx context.Context, proof interfaces.AuthorizationProof, id interfaces.CertificateID, metadataHash string, owner interfaces.Identity) (err error) {
	defer r.observe(opIssue, time.Now(), &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.store.Update(ctx, func(state interfaces.RegistryState) error {
		if err := requireAdmin(ctx, state, proof); err != nil {
			return err
		}

		_, exists, err := state.Certificate(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return interfaces.ErrDuplicateID
		}

		return state.PutCertificate(ctx, id, interfaces.Certificate{
			Owner:        owner,
			MetadataHash: metadataHash,
			IsValid:      true,
		})
	})
	if err != nil {
		return fmt.Errorf("issue certificate %q: %w", id, err)
	}

	r.metrics.CertificateEvent(metrics.EventIssued)
	r.log.Info("Certificate issued", "certID", id.String(), "owner", owner.String())
	return nil
}

// Verify reports whether id names a valid certificate whose metadata hash is
// exactly metadataHash.
func (r *Registry) Verify(ctx context.Context, id interfaces.CertificateID, metadataHash string) (valid bool, err error) {
	defer r.observe(opVerify, time.Now(), &err)

	cert, exists, err := r.lookup(ctx, id)
	if err != nil {
		return false, fmt.Errorf("verify certificate %q: %w", id, err)
	}
	return exists && cert.IsValid && cert.MetadataHash == metadataHash, nil
}

// GetCertificateDetails returns the stored record for id.
func (r *Registry) GetCertificateDetails(ctx context.Context, id interfaces.CertificateID) (cert interfaces.Certificate, err error) {
	defer r.observe(opDetails, time.Now(), &err)

	cert, exists, err := r.lookup(ctx, id)
	if err != nil {
		return interfaces.Certificate{}, fmt.Errorf("get certificate %q: %w", id, err)
	}
	if !exists {
		return interfaces.Certificate{}, fmt.Errorf("get certificate %q: %w", id, interfaces.ErrNotFound)
	}
	return cert, nil
}

// Transfer hands a valid certificate over to newOwner.
func (r *Registry) Transfer(ctx context.Context, proof interfaces.AuthorizationProof, id interfaces.CertificateID, newOwner interfaces.Identity) (err error) {
	defer r.observe(opTransfer, time.Now(), &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	var previousOwner interfaces.Identity
	err = r.store.Update(ctx, func(state interfaces.RegistryState) error {
		cert, exists, err := state.Certificate(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return interfaces.ErrNotFound
		}
		if !authorizes(proof, cert.Owner) {
			return interfaces.ErrAuthorization
		}
		if !cert.IsValid {
			return interfaces.ErrInvalidCertificate
		}

		previousOwner = cert.Owner
		cert.Owner = newOwner
		return state.PutCertificate(ctx, id, cert)
	})
	if err != nil {
		return fmt.Errorf("transfer certificate %q: %w", id, err)
	}

	r.metrics.CertificateEvent(metrics.EventTransferred)
	r.log.Info("Certificate transferred",
		"certID", id.String(),
		"from", previousOwner.String(),
		"to", newOwner.String())
	return nil
}

// Revoke permanently invalidates id. Revoking a revoked certificate succeeds
// without changing anything.
func (r *Registry) Revoke(ctx context.Context, proof interfaces.AuthorizationProof, id interfaces.CertificateID) (err error) {
	defer r.observe(opRevoke, time.Now(), &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	var transitioned bool
	err = r.store.Update(ctx, func(state interfaces.RegistryState) error {
		if err := requireAdmin(ctx, state, proof); err != nil {
			return err
		}

		cert, exists, err := state.Certificate(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return interfaces.ErrNotFound
		}

		transitioned = cert.IsValid
		if !transitioned {
			return nil
		}
		cert.IsValid = false
		return state.PutCertificate(ctx, id, cert)
	})
	if err != nil {
		return fmt.Errorf("revoke certificate %q: %w", id, err)
	}

	if transitioned {
		r.metrics.CertificateEvent(metrics.EventRevoked)
		r.log.Info("Certificate revoked", "certID", id.String())
	} else {
		r.log.Debug("Certificate already revoked", "certID", id.String())
	}
	return nil
}

// CertificateExists reports whether id was ever issued.
func (r *Registry) CertificateExists(ctx context.Context, id interfaces.CertificateID) (exists bool, err error) {
	defer r.observe(opExists, time.Now(), &err)

	_, exists, err = r.lookup(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check certificate %q: %w", id, err)
	}
	return exists, nil
}

// GetAdmin returns the installed admin identity.
func (r *Registry) GetAdmin(ctx context.Context) (admin interfaces.Identity, err error) {
	defer r.observe(opGetAdmin, time.Now(), &err)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var initialized bool
	err = r.store.View(ctx, func(state interfaces.RegistryState) error {
		var err error
		admin, initialized, err = state.Admin(ctx)
		return err
	})
	if err != nil {
		return interfaces.Identity{}, fmt.Errorf("get admin: %w", err)
	}
	if !initialized {
		return interfaces.Identity{}, fmt.Errorf("get admin: %w", interfaces.ErrNotInitialized)
	}
	return admin, nil
}

func (r *Registry) lookup(ctx context.Context, id interfaces.CertificateID) (cert interfaces.Certificate, exists bool, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	err = r.store.View(ctx, func(state interfaces.RegistryState) error {
		var err error
		cert, exists, err = state.Certificate(ctx, id)
		return err
	})
	return cert, exists, err
}

// requireAdmin checks initialization first, then the caller's authority.
func requireAdmin(ctx context.Context, state interfaces.RegistryState, proof interfaces.AuthorizationProof) error {
	admin, initialized, err := state.Admin(ctx)
	if err != nil {
		return err
	}
	if !initialized {
		return interfaces.ErrNotInitialized
	}
	if !authorizes(proof, admin) {
		return interfaces.ErrAuthorization
	}
	return nil
}

func (r *Registry) observe(operation string, start time.Time, err *error) {
	r.metrics.ObserveOperation(operation, start, *err)
}
