// Package registry implements the certificate registry state machine.
//
// Registry owns no state of its own: the admin slot and the certificate
// mapping live in an interfaces.StateStore handed to NewRegistry, and every
// mutating operation is a single StateStore.Update. All preconditions are
// evaluated inside that update before anything is written, so a failed call
// leaves the store untouched.
//
// Per certificate the lifecycle is
//
//	nonexistent --issue--> valid --revoke--> revoked
//	                       valid --transfer--> valid
//
// revoked is absorbing and a certificate id is never issued twice.
//
// Authority is passed explicitly as an interfaces.AuthorizationProof:
//
//   - Initialize needs a proof for the admin being installed
//   - IssueCertificate and Revoke need a proof for the stored admin
//   - Transfer needs a proof for the certificate's current owner
//
// By default a second Initialize fails with interfaces.ErrAlreadyInitialized.
// WithReinitialization(true) restores the permissive behavior where a new
// admin replaces the old one and all certificates are dropped.
package registry
