package auth

import (
	"slices"

	"github.com/veriluxe/certificate-registry/interfaces"
)

// SignedRequest is the proof recovered from a verified request signature.
type SignedRequest struct {
	Signer interfaces.Identity
}

func (p SignedRequest) Authorizes(identity interfaces.Identity) bool {
	return p.Signer == identity
}

// Trusted is a proof for in-process callers that already hold the authority of
// the listed identities.
type Trusted []interfaces.Identity

func (t Trusted) Authorizes(identity interfaces.Identity) bool {
	return slices.Contains(t, identity)
}

// Anonymous authorizes nobody.
var Anonymous interfaces.AuthorizationProof = Trusted(nil)
