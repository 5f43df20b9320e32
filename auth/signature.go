package auth

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flashbots/go-utils/signature"
	"github.com/gowebpki/jcs"
	"github.com/veriluxe/certificate-registry/interfaces"
)

const (
	SignatureHeader = "X-Registry-Signature"
	TimestampHeader = "X-Registry-Timestamp"

	// DefaultMaxSkew bounds how far a request timestamp may drift from the
	// server clock in either direction.
	DefaultMaxSkew = 5 * time.Minute
)

var (
	ErrMissingSignature  = errors.New("missing request signature")
	ErrMissingTimestamp  = errors.New("missing request timestamp")
	ErrStaleTimestamp    = errors.New("request timestamp outside accepted window")
	ErrInvalidSignature  = errors.New("invalid request signature")
	ErrMissingSigningKey = errors.New("missing signing key")
)

// Message builds the bytes covered by a request signature.
func Message(method, path, timestamp string, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.ToUpper(method))
	buf.WriteByte(' ')
	buf.WriteString(path)
	buf.WriteByte('\n')
	buf.WriteString(timestamp)
	buf.WriteByte('\n')

	if len(bytes.TrimSpace(body)) > 0 {
		canonical, err := jcs.Transform(body)
		if err != nil {
			return nil, fmt.Errorf("could not canonicalize request body: %w", err)
		}
		buf.Write(canonical)
	}
	return buf.Bytes(), nil
}

// Verifier checks request signatures on the server side.
type Verifier struct {
	maxSkew time.Duration
	now     func() time.Time
}

// NewVerifier creates a verifier accepting timestamps within maxSkew of the
// local clock. A non-positive maxSkew selects DefaultMaxSkew.
func NewVerifier(maxSkew time.Duration) *Verifier {
	if maxSkew <= 0 {
		maxSkew = DefaultMaxSkew
	}
	return &Verifier{maxSkew: maxSkew, now: time.Now}
}

// VerifyRequest recovers the signer of r. body must be the exact bytes read
// from r.Body. Every failure wraps interfaces.ErrAuthorization.
func (v *Verifier) VerifyRequest(r *http.Request, body []byte) (SignedRequest, error) {
	header := r.Header.Get(SignatureHeader)
	if header == "" {
		return SignedRequest{}, fmt.Errorf("%w: %w", interfaces.ErrAuthorization, ErrMissingSignature)
	}

	timestamp := r.Header.Get(TimestampHeader)
	if timestamp == "" {
		return SignedRequest{}, fmt.Errorf("%w: %w", interfaces.ErrAuthorization, ErrMissingTimestamp)
	}
	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return SignedRequest{}, fmt.Errorf("%w: malformed timestamp: %w", interfaces.ErrAuthorization, err)
	}
	skew := v.now().Sub(time.Unix(unix, 0))
	if skew > v.maxSkew || skew < -v.maxSkew {
		return SignedRequest{}, fmt.Errorf("%w: %w", interfaces.ErrAuthorization, ErrStaleTimestamp)
	}

	message, err := Message(r.Method, r.URL.Path, timestamp, body)
	if err != nil {
		return SignedRequest{}, fmt.Errorf("%w: %w", interfaces.ErrAuthorization, err)
	}

	signer, err := signature.Verify(header, message)
	if err != nil {
		return SignedRequest{}, fmt.Errorf("%w: %w: %v", interfaces.ErrAuthorization, ErrInvalidSignature, err)
	}

	return SignedRequest{Signer: interfaces.Identity(signer)}, nil
}

// RequestSigner signs outgoing registry requests with a secp256k1 key.
type RequestSigner struct {
	signer   *signature.Signer
	identity interfaces.Identity
}

func NewRequestSigner(key *ecdsa.PrivateKey) (*RequestSigner, error) {
	if key == nil {
		return nil, ErrMissingSigningKey
	}
	signer := signature.NewSigner(key)
	return &RequestSigner{
		signer:   &signer,
		identity: interfaces.Identity(crypto.PubkeyToAddress(key.PublicKey)),
	}, nil
}

// Identity is the address requests signed by s recover to.
func (s *RequestSigner) Identity() interfaces.Identity {
	return s.identity
}

// Sign sets the timestamp and signature headers on req. body must be the
// exact bytes that will be sent.
func (s *RequestSigner) Sign(req *http.Request, body []byte, now time.Time) error {
	timestamp := strconv.FormatInt(now.Unix(), 10)
	message, err := Message(req.Method, req.URL.Path, timestamp, body)
	if err != nil {
		return err
	}

	header, err := s.signer.Create(message)
	if err != nil {
		return fmt.Errorf("could not sign request: %w", err)
	}

	req.Header.Set(TimestampHeader, timestamp)
	req.Header.Set(SignatureHeader, header)
	return nil
}
