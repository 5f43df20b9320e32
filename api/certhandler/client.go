package certhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veriluxe/certificate-registry/api"
	"github.com/veriluxe/certificate-registry/auth"
	"github.com/veriluxe/certificate-registry/interfaces"
)

// Client talks to a remote certificate registry over HTTP. It implements
// interfaces.CertificateRegistry, signing mutating requests with its own
// key; the proof arguments are ignored because authority comes from that key.
type Client struct {
	baseURL string
	signer  *auth.RequestSigner
	client  *http.Client
	now     func() time.Time
}

var _ interfaces.CertificateRegistry = (*Client)(nil)

// NewClient creates a client for the registry at baseURL. signer may be nil
// for read-only use.
func NewClient(baseURL string, signer *auth.RequestSigner) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		signer:  signer,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.client = client
	return c
}

func (c *Client) Initialize(ctx context.Context, _ interfaces.AuthorizationProof, admin interfaces.Identity) error {
	_, err := do[api.AdminResponse](ctx, c, http.MethodPost, "/api/init", api.InitRequest{
		AdminAddress: admin.String(),
	}, true)
	return err
}

func (c *Client) IssueCertificate(ctx context.Context, _ interfaces.AuthorizationProof, id interfaces.CertificateID, metadataHash string, owner interfaces.Identity) error {
	_, err := do[api.CertificateResponse](ctx, c, http.MethodPost, "/api/certificates", api.IssueRequest{
		CertID:       id.String(),
		MetadataHash: metadataHash,
		OwnerAddress: owner.String(),
	}, true)
	return err
}

func (c *Client) Verify(ctx context.Context, id interfaces.CertificateID, metadataHash string) (bool, error) {
	resp, err := do[api.VerifyResponse](ctx, c, http.MethodPost, certificatePath(id, "verify"), api.VerifyRequest{
		MetadataHash: metadataHash,
	}, false)
	return resp.Valid, err
}

// VerifyDocument verifies a certificate against the hash of document,
// computed by the server.
func (c *Client) VerifyDocument(ctx context.Context, id interfaces.CertificateID, document []byte) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodPost, certificatePath(id, "verify-document"), document, false)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := send[api.VerifyResponse](c, req)
	return resp.Valid, err
}

func (c *Client) GetCertificateDetails(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, error) {
	resp, err := do[api.CertificateResponse](ctx, c, http.MethodGet, certificatePath(id, ""), nil, false)
	if err != nil {
		return interfaces.Certificate{}, err
	}
	return interfaces.Certificate{
		Owner:        resp.Owner,
		MetadataHash: resp.MetadataHash,
		IsValid:      resp.IsValid,
	}, nil
}

func (c *Client) Transfer(ctx context.Context, _ interfaces.AuthorizationProof, id interfaces.CertificateID, newOwner interfaces.Identity) error {
	_, err := do[api.CertificateResponse](ctx, c, http.MethodPost, certificatePath(id, "transfer"), api.TransferRequest{
		NewOwnerAddress: newOwner.String(),
	}, true)
	return err
}

func (c *Client) Revoke(ctx context.Context, _ interfaces.AuthorizationProof, id interfaces.CertificateID) error {
	_, err := do[api.CertificateResponse](ctx, c, http.MethodPost, certificatePath(id, "revoke"), nil, true)
	return err
}

func (c *Client) CertificateExists(ctx context.Context, id interfaces.CertificateID) (bool, error) {
	resp, err := do[api.ExistsResponse](ctx, c, http.MethodGet, certificatePath(id, "exists"), nil, false)
	return resp.Exists, err
}

func (c *Client) GetAdmin(ctx context.Context) (interfaces.Identity, error) {
	resp, err := do[api.AdminResponse](ctx, c, http.MethodGet, "/api/admin", nil, false)
	return resp.AdminAddress, err
}

func certificatePath(id interfaces.CertificateID, action string) string {
	path := "/api/certificates/" + url.PathEscape(id.String())
	if action != "" {
		path += "/" + action
	}
	return path
}

func do[T any](ctx context.Context, c *Client, method, path string, payload any, signed bool) (T, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("could not encode request: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, path, body, signed)
	if err != nil {
		var zero T
		return zero, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send[T](c, req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, signed bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	if signed {
		if c.signer == nil {
			return nil, fmt.Errorf("%w: client has no signing key", interfaces.ErrAuthorization)
		}
		if err := c.signer.Sign(req, body, c.now()); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func send[T any](c *Client, req *http.Request) (T, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("could not reach registry: %w", err)
	}
	defer resp.Body.Close()

	return api.DecodeResponse[T](resp)
}
