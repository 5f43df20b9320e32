package certhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/veriluxe/certificate-registry/api"
	"github.com/veriluxe/certificate-registry/auth"
	"github.com/veriluxe/certificate-registry/interfaces"
)

// Handler serves the certificate lifecycle endpoints. Mutating endpoints
// recover the caller's identity from the request signature and hand it to
// the registry as the authorization proof.
type Handler struct {
	registry interfaces.CertificateRegistry
	verifier *auth.Verifier
	log      *slog.Logger
}

// NewHandler creates a new HTTP request handler for the certificate registry.
//
// Parameters:
//   - registry: The registry all operations are delegated to
//   - verifier: Checks request signatures on mutating endpoints
//   - log: Structured logger for operational insights
func NewHandler(registry interfaces.CertificateRegistry, verifier *auth.Verifier, log *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		verifier: verifier,
		log:      log,
	}
}

// RegisterRoutes configures the HTTP router with certificate registry endpoints.
// It registers the following routes:
//   - POST /api/init - Install the registry admin
//   - GET  /api/admin - Current admin
//   - POST /api/certificates - Issue a certificate
//   - GET  /api/certificates/{cert_id} - Certificate details
//   - POST /api/certificates/{cert_id}/verify - Verify against a metadata hash
//   - POST /api/certificates/{cert_id}/verify-document - Verify against a metadata document
//   - POST /api/certificates/{cert_id}/transfer - Transfer to a new owner
//   - POST /api/certificates/{cert_id}/revoke - Revoke
//   - GET  /api/certificates/{cert_id}/exists - Existence check
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/init", h.HandleInitialize)
	r.Get("/api/admin", h.HandleGetAdmin)
	r.Post("/api/certificates", h.HandleIssue)
	r.Get("/api/certificates/{cert_id}", h.HandleGetCertificate)
	r.Post("/api/certificates/{cert_id}/verify", h.HandleVerify)
	r.Post("/api/certificates/{cert_id}/verify-document", h.HandleVerifyDocument)
	r.Post("/api/certificates/{cert_id}/transfer", h.HandleTransfer)
	r.Post("/api/certificates/{cert_id}/revoke", h.HandleRevoke)
	r.Get("/api/certificates/{cert_id}/exists", h.HandleExists)
}

// HandleInitialize installs the admin named in the body. The request must be
// signed by that admin.
//
// URL format: POST /api/init
//
// Status codes:
//   - 200 OK: Admin installed
//   - 400 Bad Request: Malformed address, bad signature or already initialized
//   - 500 Internal Server Error: State store failure
//
//	@Summary	Initialize the registry
//	@Tags		Registry
//	@Accept		json
//	@Produce	json
//	@Param		X-Registry-Signature	header		string			true	"Signature of the admin being installed"
//	@Param		X-Registry-Timestamp	header		string			true	"Unix timestamp covered by the signature"
//	@Param		request					body		api.InitRequest	true	"Admin address"
//	@Success	200						{object}	api.Envelope[any]
//	@Failure	400						{object}	api.Envelope[any]
//	@Router		/api/init [post]
func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	var req api.InitRequest
	body, err := readJSON(r, &req)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	admin, err := parseIdentity("admin_address", req.AdminAddress)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	proof, authErr := h.proof(r, body)
	err = h.registry.Initialize(r.Context(), proof, admin)
	if err != nil {
		api.WriteError(w, h.log, withAuthDetail(err, authErr))
		return
	}

	api.WriteSuccess(w, h.log, api.AdminResponse{AdminAddress: admin}, "Registry initialized")
}

// HandleGetAdmin returns the installed admin.
//
// URL format: GET /api/admin
//
// Status codes:
//   - 200 OK: Admin returned
//   - 400 Bad Request: Registry not initialized
//
//	@Summary	Get the registry admin
//	@Tags		Registry
//	@Produce	json
//	@Success	200	{object}	api.Envelope[api.AdminResponse]
//	@Failure	400	{object}	api.Envelope[any]
//	@Router		/api/admin [get]
func (h *Handler) HandleGetAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := h.registry.GetAdmin(r.Context())
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteSuccess(w, h.log, api.AdminResponse{AdminAddress: admin}, "")
}

// HandleIssue issues a certificate. The request must be signed by the admin.
//
// URL format: POST /api/certificates
//
// Status codes:
//   - 200 OK: Certificate issued
//   - 400 Bad Request: Invalid input, not initialized, not the admin or duplicate id
//   - 500 Internal Server Error: State store failure
//
//	@Summary	Issue a certificate
//	@Tags		Certificates
//	@Accept		json
//	@Produce	json
//	@Param		X-Registry-Signature	header		string				true	"Admin signature"
//	@Param		X-Registry-Timestamp	header		string				true	"Unix timestamp covered by the signature"
//	@Param		request					body		api.IssueRequest	true	"Certificate to issue"
//	@Success	200						{object}	api.Envelope[api.CertificateResponse]
//	@Failure	400						{object}	api.Envelope[any]
//	@Router		/api/certificates [post]
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req api.IssueRequest
	body, err := readJSON(r, &req)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	if strings.TrimSpace(req.CertID) == "" {
		api.WriteError(w, h.log, api.InvalidInput("cert_id must not be empty"))
		return
	}
	if strings.TrimSpace(req.MetadataHash) == "" {
		api.WriteError(w, h.log, api.InvalidInput("metadata_hash must not be empty"))
		return
	}
	owner, err := parseIdentity("owner_address", req.OwnerAddress)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	id := interfaces.CertificateID(req.CertID)
	proof, authErr := h.proof(r, body)
	if err := h.registry.IssueCertificate(r.Context(), proof, id, req.MetadataHash, owner); err != nil {
		api.WriteError(w, h.log, withAuthDetail(err, authErr))
		return
	}

	api.WriteSuccess(w, h.log, api.NewCertificateResponse(id, interfaces.Certificate{
		Owner:        owner,
		MetadataHash: req.MetadataHash,
		IsValid:      true,
	}), "Certificate issued")
}

// HandleGetCertificate returns the full record of a certificate, revoked
// ones included.
//
// URL format: GET /api/certificates/{cert_id}
//
// Status codes:
//   - 200 OK: Certificate returned
//   - 404 Not Found: Unknown certificate id
//
//	@Summary	Get certificate details
//	@Tags		Certificates
//	@Produce	json
//	@Param		cert_id	path		string	true	"Certificate id"
//	@Success	200		{object}	api.Envelope[api.CertificateResponse]
//	@Failure	404		{object}	api.Envelope[any]
//	@Router		/api/certificates/{cert_id} [get]
func (h *Handler) HandleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := certificateID(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	cert, err := h.registry.GetCertificateDetails(r.Context(), id)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteSuccess(w, h.log, api.NewCertificateResponse(id, cert), "")
}

// HandleVerify checks a certificate against a metadata hash. Unknown ids
// verify as false.
//
// URL format: POST /api/certificates/{cert_id}/verify
//
//	@Summary	Verify a certificate
//	@Tags		Certificates
//	@Accept		json
//	@Produce	json
//	@Param		cert_id	path		string				true	"Certificate id"
//	@Param		request	body		api.VerifyRequest	true	"Expected metadata hash"
//	@Success	200		{object}	api.Envelope[api.VerifyResponse]
//	@Failure	400		{object}	api.Envelope[any]
//	@Router		/api/certificates/{cert_id}/verify [post]
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, err := certificateID(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	var req api.VerifyRequest
	if _, err := readJSON(r, &req); err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	if strings.TrimSpace(req.MetadataHash) == "" {
		api.WriteError(w, h.log, api.InvalidInput("metadata_hash must not be empty"))
		return
	}

	h.writeVerification(w, r, id, req.MetadataHash)
}

// HandleVerifyDocument checks a certificate against the SHA-256 of the raw
// request body, which is expected to be the metadata document itself.
//
// URL format: POST /api/certificates/{cert_id}/verify-document
//
//	@Summary	Verify a certificate against its metadata document
//	@Tags		Certificates
//	@Accept		octet-stream
//	@Produce	json
//	@Param		cert_id		path		string	true	"Certificate id"
//	@Param		document	body		string	true	"Metadata document"
//	@Success	200			{object}	api.Envelope[api.VerifyResponse]
//	@Failure	400			{object}	api.Envelope[any]
//	@Router		/api/certificates/{cert_id}/verify-document [post]
func (h *Handler) HandleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	id, err := certificateID(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	document, err := io.ReadAll(r.Body)
	if err != nil {
		api.WriteError(w, h.log, fmt.Errorf("could not read document: %w", err))
		return
	}
	if len(document) == 0 {
		api.WriteError(w, h.log, api.InvalidInput("document must not be empty"))
		return
	}

	h.writeVerification(w, r, id, interfaces.ComputeID(document).String())
}

func (h *Handler) writeVerification(w http.ResponseWriter, r *http.Request, id interfaces.CertificateID, metadataHash string) {
	valid, err := h.registry.Verify(r.Context(), id, metadataHash)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	message := "Certificate is not valid for this metadata"
	if valid {
		message = "Certificate is valid"
	}
	api.WriteSuccess(w, h.log, api.VerifyResponse{
		CertID:       id.String(),
		MetadataHash: metadataHash,
		Valid:        valid,
	}, message)
}

// HandleTransfer moves a certificate to a new owner. The request must be
// signed by the current owner.
//
// URL format: POST /api/certificates/{cert_id}/transfer
//
// Status codes:
//   - 200 OK: Certificate transferred
//   - 400 Bad Request: Invalid input, not the owner or certificate revoked
//   - 404 Not Found: Unknown certificate id
//
//	@Summary	Transfer a certificate
//	@Tags		Certificates
//	@Accept		json
//	@Produce	json
//	@Param		cert_id					path		string				true	"Certificate id"
//	@Param		X-Registry-Signature	header		string				true	"Current owner signature"
//	@Param		X-Registry-Timestamp	header		string				true	"Unix timestamp covered by the signature"
//	@Param		request					body		api.TransferRequest	true	"New owner"
//	@Success	200						{object}	api.Envelope[api.CertificateResponse]
//	@Failure	400						{object}	api.Envelope[any]
//	@Failure	404						{object}	api.Envelope[any]
//	@Router		/api/certificates/{cert_id}/transfer [post]
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := certificateID(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	var req api.TransferRequest
	body, err := readJSON(r, &req)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	newOwner, err := parseIdentity("new_owner_address", req.NewOwnerAddress)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	proof, authErr := h.proof(r, body)
	if err := h.registry.Transfer(r.Context(), proof, id, newOwner); err != nil {
		api.WriteError(w, h.log, withAuthDetail(err, authErr))
		return
	}

	h.writeDetails(w, r, id, "Certificate transferred")
}

// HandleRevoke revokes a certificate. The request must be signed by the
// admin. Revoking an already revoked certificate succeeds.
//
// URL format: POST /api/certificates/{cert_id}/revoke
//
//	@Summary	Revoke a certificate
//	@Tags		Certificates
//	@Produce	json
//	@Param		cert_id					path		string	true	"Certificate id"
//	@Param		X-Registry-Signature	header		string	true	"Admin signature"
//	@Param		X-Registry-Timestamp	header		string	true	"Unix timestamp covered by the signature"
//	@Success	200						{object}	api.Envelope[api.CertificateResponse]
//	@Failure	400						{object}	api.Envelope[any]
//	@Failure	404						{object}	api.Envelope[any]
//	@Router		/api/certificates/{cert_id}/revoke [post]
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id, err := certificateID(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.WriteError(w, h.log, fmt.Errorf("could not read request body: %w", err))
		return
	}

	proof, authErr := h.proof(r, body)
	if err := h.registry.Revoke(r.Context(), proof, id); err != nil {
		api.WriteError(w, h.log, withAuthDetail(err, authErr))
		return
	}

	h.writeDetails(w, r, id, "Certificate revoked")
}

// HandleExists reports whether a certificate id was ever issued.
//
// URL format: GET /api/certificates/{cert_id}/exists
//
//	@Summary	Check certificate existence
//	@Tags		Certificates
//	@Produce	json
//	@Param		cert_id	path		string	true	"Certificate id"
//	@Success	200		{object}	api.Envelope[api.ExistsResponse]
//	@Router		/api/certificates/{cert_id}/exists [get]
func (h *Handler) HandleExists(w http.ResponseWriter, r *http.Request) {
	id, err := certificateID(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	exists, err := h.registry.CertificateExists(r.Context(), id)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteSuccess(w, h.log, api.ExistsResponse{CertID: id.String(), Exists: exists}, "")
}

func (h *Handler) writeDetails(w http.ResponseWriter, r *http.Request, id interfaces.CertificateID, message string) {
	cert, err := h.registry.GetCertificateDetails(r.Context(), id)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteSuccess(w, h.log, api.NewCertificateResponse(id, cert), message)
}

// proof recovers the signer of r. An unsigned or badly signed request gets a
// proof that authorizes nobody, so the registry still decides which of its
// checks fails first.
func (h *Handler) proof(r *http.Request, body []byte) (interfaces.AuthorizationProof, error) {
	signed, err := h.verifier.VerifyRequest(r, body)
	if err != nil {
		h.log.Debug("Request signature rejected", "err", err, "path", r.URL.Path)
		return auth.Anonymous, err
	}
	return signed, nil
}

// withAuthDetail replaces a bare authorization failure with the reason the
// signature was rejected, when there is one.
func withAuthDetail(err, authErr error) error {
	if authErr != nil && errors.Is(err, interfaces.ErrAuthorization) {
		return authErr
	}
	return err
}

func readJSON(r *http.Request, v any) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read request body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return nil, api.InvalidInput("malformed JSON body: %v", err)
	}
	return body, nil
}

func parseIdentity(field, value string) (interfaces.Identity, error) {
	if strings.TrimSpace(value) == "" {
		return interfaces.Identity{}, api.InvalidInput("%s must not be empty", field)
	}
	id, err := interfaces.NewIdentityFromHex(value)
	if err != nil {
		return interfaces.Identity{}, api.InvalidInput("%s: %v", field, err)
	}
	return id, nil
}

func certificateID(r *http.Request) (interfaces.CertificateID, error) {
	// chi matches on RawPath when the request carries one, so the parameter
	// is still escaped only in that case.
	raw := chi.URLParam(r, "cert_id")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(raw)
		if err != nil {
			return "", api.InvalidInput("malformed certificate id: %v", err)
		}
		raw = unescaped
	}
	if strings.TrimSpace(raw) == "" {
		return "", api.InvalidInput("cert_id must not be empty")
	}
	return interfaces.CertificateID(raw), nil
}
