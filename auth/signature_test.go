package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriluxe/certificate-registry/interfaces"
)

func newTestSigner(t *testing.T) *RequestSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer, err := NewRequestSigner(key)
	require.NoError(t, err)
	return signer
}

func newSignedRequest(t *testing.T, signer *RequestSigner, method, path string, body []byte, now time.Time) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, signer.Sign(req, body, now))
	return req
}

func TestVerifyRequest_RecoversSigner(t *testing.T) {
	signer := newTestSigner(t)
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"cert_id":"CERT-1","metadata_hash":"QmHash"}`)

	req := newSignedRequest(t, signer, http.MethodPost, "/api/certificates", body, now)

	v := NewVerifier(time.Minute)
	v.now = func() time.Time { return now.Add(10 * time.Second) }

	proof, err := v.VerifyRequest(req, body)
	require.NoError(t, err)
	assert.Equal(t, signer.Identity(), proof.Signer)
	assert.True(t, proof.Authorizes(signer.Identity()))
	assert.False(t, proof.Authorizes(interfaces.Identity{1}))
}

func TestVerifyRequest_CanonicalBody(t *testing.T) {
	signer := newTestSigner(t)
	now := time.Unix(1_700_000_000, 0)

	signed := []byte(`{"metadata_hash":"QmHash","cert_id":"CERT-1"}`)
	sent := []byte("{\n  \"cert_id\": \"CERT-1\",\n  \"metadata_hash\": \"QmHash\"\n}")

	req := newSignedRequest(t, signer, http.MethodPost, "/api/certificates", signed, now)

	v := NewVerifier(time.Minute)
	v.now = func() time.Time { return now }

	proof, err := v.VerifyRequest(req, sent)
	require.NoError(t, err)
	assert.Equal(t, signer.Identity(), proof.Signer)
}

func TestVerifyRequest_Rejects(t *testing.T) {
	signer := newTestSigner(t)
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"new_owner_address":"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}`)

	tests := []struct {
		name    string
		prepare func() (*http.Request, []byte)
		wantErr error
	}{
		{
			name: "missing signature",
			prepare: func() (*http.Request, []byte) {
				req := newSignedRequest(t, signer, http.MethodPost, "/api/certificates/A/transfer", body, now)
				req.Header.Del(SignatureHeader)
				return req, body
			},
			wantErr: ErrMissingSignature,
		},
		{
			name: "missing timestamp",
			prepare: func() (*http.Request, []byte) {
				req := newSignedRequest(t, signer, http.MethodPost, "/api/certificates/A/transfer", body, now)
				req.Header.Del(TimestampHeader)
				return req, body
			},
			wantErr: ErrMissingTimestamp,
		},
		{
			name: "stale timestamp",
			prepare: func() (*http.Request, []byte) {
				return newSignedRequest(t, signer, http.MethodPost, "/api/certificates/A/transfer", body, now.Add(-time.Hour)), body
			},
			wantErr: ErrStaleTimestamp,
		},
		{
			name: "tampered body",
			prepare: func() (*http.Request, []byte) {
				req := newSignedRequest(t, signer, http.MethodPost, "/api/certificates/A/transfer", body, now)
				return req, []byte(`{"new_owner_address":"0x0000000000000000000000000000000000000001"}`)
			},
			wantErr: ErrInvalidSignature,
		},
		{
			name: "signature replayed on another certificate",
			prepare: func() (*http.Request, []byte) {
				signed := newSignedRequest(t, signer, http.MethodPost, "/api/certificates/A/transfer", body, now)
				req := httptest.NewRequest(http.MethodPost, "/api/certificates/B/transfer", bytes.NewReader(body))
				req.Header = signed.Header.Clone()
				return req, body
			},
			wantErr: ErrInvalidSignature,
		},
		{
			name: "timestamp swapped after signing",
			prepare: func() (*http.Request, []byte) {
				req := newSignedRequest(t, signer, http.MethodPost, "/api/certificates/A/transfer", body, now)
				req.Header.Set(TimestampHeader, strconv.FormatInt(now.Unix()+1, 10))
				return req, body
			},
			wantErr: ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier(time.Minute)
			v.now = func() time.Time { return now }

			req, sent := tt.prepare()
			_, err := v.VerifyRequest(req, sent)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, interfaces.ErrAuthorization)
		})
	}
}

func TestTrustedProof(t *testing.T) {
	a := interfaces.Identity{0xaa}
	b := interfaces.Identity{0xbb}

	assert.True(t, Trusted{a}.Authorizes(a))
	assert.False(t, Trusted{a}.Authorizes(b))
	assert.True(t, Trusted{a, b}.Authorizes(b))
	assert.False(t, Anonymous.Authorizes(a))
	assert.False(t, Anonymous.Authorizes(interfaces.Identity{}))
}

func TestMessage_EmptyBody(t *testing.T) {
	msg, err := Message("post", "/api/certificates/A/revoke", "42", nil)
	require.NoError(t, err)
	assert.Equal(t, "POST /api/certificates/A/revoke\n42\n", string(msg))

	_, err = Message("POST", "/x", "42", []byte("not json"))
	assert.Error(t, err)
}

func TestNewRequestSigner_FromParsedKey(t *testing.T) {
	// Hardhat's first development account.
	key, err := crypto.HexToECDSA("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)

	signer, err := NewRequestSigner(key)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", signer.Identity().String())

	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"admin_address":"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"}`)
	req := newSignedRequest(t, signer, http.MethodPost, "/api/init", body, now)

	v := NewVerifier(time.Minute)
	v.now = func() time.Time { return now }
	proof, err := v.VerifyRequest(req, body)
	require.NoError(t, err)
	assert.True(t, proof.Authorizes(signer.Identity()))

	_, err = NewRequestSigner(nil)
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}
