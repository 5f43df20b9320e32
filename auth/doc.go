// Package auth turns signed HTTP requests into registry authorization proofs.
//
// A mutating request carries two headers:
//
//	X-Registry-Timestamp: <unix seconds>
//	X-Registry-Signature: <0xaddress>:<0xsignature>
//
// The signature is a secp256k1 personal-message signature (the flashbots
// go-utils signature format) over
//
//	METHOD + " " + PATH + "\n" + TIMESTAMP + "\n" + JCS(body)
//
// where JCS is the RFC 8785 canonical form of the JSON body, so clients may
// re-encode the body freely. Binding the method and path stops a signature for
// one certificate from being replayed against another, and the timestamp window
// keeps every authorization fresh.
//
// The recovered signer becomes a SignedRequest proof. It authorizes exactly one
// identity: the signer.
package auth
