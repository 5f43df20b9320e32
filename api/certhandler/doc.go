// Package certhandler implements the HTTP endpoints of the certificate
// registry and a client for them.
//
// Reads are public. Mutations carry two headers, X-Registry-Timestamp and
// X-Registry-Signature, produced by auth.RequestSigner; the handler recovers
// the signer and passes it to the registry as the authorization proof. A
// request with a missing or bad signature is not rejected up front: it is
// given a proof that authorizes nobody, so the registry's own check order
// (for example "not initialized" before "not authorized") is what the
// caller observes.
//
// Server-side usage:
//
//	handler := certhandler.NewHandler(reg, auth.NewVerifier(auth.DefaultMaxSkew), logger)
//	router := chi.NewRouter()
//	handler.RegisterRoutes(router)
//
// Client-side usage:
//
//	signer, _ := auth.NewRequestSigner(key)
//	client := certhandler.NewClient("https://registry.example.com", signer)
//	err := client.IssueCertificate(ctx, nil, "C1", metadataHash, owner)
//	if errors.Is(err, interfaces.ErrDuplicateID) {
//	    // already issued
//	}
package certhandler
