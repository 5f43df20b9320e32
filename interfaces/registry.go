package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrNotInitialized is returned when an operation needs the admin slot
	// before it has been set.
	ErrNotInitialized = errors.New("registry not initialized")

	// ErrAlreadyInitialized is returned when initialization is attempted on a
	// registry that already has an admin and re-initialization is disabled.
	ErrAlreadyInitialized = errors.New("registry already initialized")

	// ErrAuthorization is returned when the caller's proof does not authorize
	// the identity the operation requires.
	ErrAuthorization = errors.New("not authorized")

	// ErrDuplicateID is returned when issuing under an id that already exists,
	// revoked certificates included.
	ErrDuplicateID = errors.New("certificate id already exists")

	// ErrNotFound is returned for operations on a certificate id that was
	// never issued.
	ErrNotFound = errors.New("certificate not found")

	// ErrInvalidCertificate is returned when transferring a revoked certificate.
	ErrInvalidCertificate = errors.New("certificate is not valid")

	// ErrStoreUnavailable wraps infrastructure failures of the state store.
	ErrStoreUnavailable = errors.New("state store unavailable")
)

// AuthorizationProof is evidence that the caller acts on behalf of some identity.
type AuthorizationProof interface {
	// Authorizes reports whether the proof grants the authority of identity.
	Authorizes(identity Identity) bool
}

// CertificateRegistry manages authenticity certificates.
//
// Mutating operations check every precondition before touching state, so a
// failed call never leaves a partial change behind.
type CertificateRegistry interface {
	// Initialize installs the admin identity. The proof must authorize admin.
	Initialize(ctx context.Context, proof AuthorizationProof, admin Identity) error

	// IssueCertificate records a new valid certificate. Admin only.
	IssueCertificate(ctx context.Context, proof AuthorizationProof, id CertificateID, metadataHash string, owner Identity) error

	// Verify reports whether the certificate exists, is valid and carries
	// exactly metadataHash. Unknown ids yield false, not an error.
	Verify(ctx context.Context, id CertificateID, metadataHash string) (bool, error)

	// GetCertificateDetails returns the full record, revoked ones included.
	GetCertificateDetails(ctx context.Context, id CertificateID) (Certificate, error)

	// Transfer moves a valid certificate to newOwner. Current owner only.
	Transfer(ctx context.Context, proof AuthorizationProof, id CertificateID, newOwner Identity) error

	// Revoke marks the certificate invalid. Admin only, idempotent.
	Revoke(ctx context.Context, proof AuthorizationProof, id CertificateID) error

	// CertificateExists reports whether id was ever issued.
	CertificateExists(ctx context.Context, id CertificateID) (bool, error)

	// GetAdmin returns the installed admin identity.
	GetAdmin(ctx context.Context) (Identity, error)
}
