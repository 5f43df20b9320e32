/*
Package api holds the transport-level pieces shared by the certificate
registry HTTP server and its clients.

It defines the JSON request and response bodies, the success and error
envelopes, and the mapping from registry errors to HTTP status codes. The
actual endpoints live in subpackages:

  - certhandler - certificate lifecycle endpoints (init, issue, verify,
    transfer, revoke, lookups) and a signing client for them
  - metadatahandler - upload and retrieval of the off-chain documents whose
    SHA-256 is recorded as a certificate's metadata hash
  - docs - the OpenAPI document served at /api-docs/openapi.json

# Envelopes

Every JSON response is wrapped. Successful calls return

	{"success": true, "data": ..., "message": "..."}

and failures return

	{"success": false, "error": "certificate not found", "code": "NOT_FOUND"}

The code field is stable and is what clients should branch on. The Error type
turns a failed envelope back into an error that matches the registry's
sentinel errors with errors.Is.
*/
package api
