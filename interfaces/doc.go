// Package interfaces defines the core types and contracts of the certificate
// registry, separating definitions from implementations.
//
// # Registry
//
// CertificateRegistry is the state machine that issues, verifies, transfers and
// revokes authenticity certificates for physical goods. Every certificate moves
// through nonexistent -> valid -> revoked, and a certificate id is never reused.
//
// AuthorizationProof carries the caller's authority into mutating operations.
// The registry only asks whether a proof authorizes a given Identity, so the
// transport can back it with request signatures while tests use trusted proofs.
//
// # State
//
// StateStore persists the two registry slots (admin identity and certificate
// mapping). Update runs a read-modify-write atomically; a failed update leaves
// no partial writes behind.
//
// # Metadata Storage
//
// StorageBackend provides content-addressed storage for the off-chain metadata
// documents whose hash is recorded on a certificate (file, S3, IPFS, GitHub,
// Vault).
package interfaces
