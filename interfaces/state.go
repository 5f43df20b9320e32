package interfaces

import "context"

// RegistryState is the view of the two registry slots handed to a View or
// Update callback. It is only valid for the duration of that callback.
type RegistryState interface {
	// Admin returns the admin identity and whether it has been set.
	Admin(ctx context.Context) (Identity, bool, error)

	SetAdmin(ctx context.Context, admin Identity) error

	// Certificate returns the record for id and whether it exists.
	Certificate(ctx context.Context, id CertificateID) (Certificate, bool, error)

	PutCertificate(ctx context.Context, id CertificateID, cert Certificate) error

	// ClearCertificates drops every certificate record.
	ClearCertificates(ctx context.Context) error
}

// StateStore persists registry state.
type StateStore interface {
	// View runs fn against a consistent snapshot. Writes are rejected.
	View(ctx context.Context, fn func(RegistryState) error) error

	// Update runs fn as one atomic read-modify-write. Writes staged by fn are
	// committed only when fn returns nil. Implementations may invoke fn more
	// than once on contention, so fn must not have side effects beyond the state.
	Update(ctx context.Context, fn func(RegistryState) error) error

	// Available checks if the store is reachable.
	Available(ctx context.Context) bool

	// Name returns identifier for logging.
	Name() string

	Close() error
}
