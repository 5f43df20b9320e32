package api

import (
	"github.com/veriluxe/certificate-registry/interfaces"
)

// Envelope is the wrapper around every JSON response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// InitRequest installs the registry admin. It must be signed by the admin.
type InitRequest struct {
	AdminAddress string `json:"admin_address"`
}

// IssueRequest creates a certificate. It must be signed by the admin.
type IssueRequest struct {
	CertID       string `json:"cert_id"`
	MetadataHash string `json:"metadata_hash"`
	OwnerAddress string `json:"owner_address"`
}

// VerifyRequest asks whether a certificate matches a metadata hash.
type VerifyRequest struct {
	MetadataHash string `json:"metadata_hash"`
}

// TransferRequest moves a certificate. It must be signed by the current owner.
type TransferRequest struct {
	NewOwnerAddress string `json:"new_owner_address"`
}

// CertificateResponse is the full record of one certificate.
type CertificateResponse struct {
	CertID       string              `json:"cert_id"`
	Owner        interfaces.Identity `json:"owner"`
	MetadataHash string              `json:"metadata_hash"`
	IsValid      bool                `json:"is_valid"`
}

// NewCertificateResponse renders cert as stored under id.
func NewCertificateResponse(id interfaces.CertificateID, cert interfaces.Certificate) CertificateResponse {
	return CertificateResponse{
		CertID:       id.String(),
		Owner:        cert.Owner,
		MetadataHash: cert.MetadataHash,
		IsValid:      cert.IsValid,
	}
}

type VerifyResponse struct {
	CertID       string `json:"cert_id"`
	MetadataHash string `json:"metadata_hash"`
	Valid        bool   `json:"valid"`
}

type ExistsResponse struct {
	CertID string `json:"cert_id"`
	Exists bool   `json:"exists"`
}

type AdminResponse struct {
	AdminAddress interfaces.Identity `json:"admin_address"`
}

// MetadataResponse describes a stored metadata document. ContentID is the
// value to record as a certificate's metadata hash.
type MetadataResponse struct {
	ContentID   string   `json:"content_id"`
	ContentType string   `json:"content_type"`
	Size        int      `json:"size"`
	Locations   []string `json:"locations,omitempty"`
}

// HealthStatus is the data of a successful /health response.
const HealthStatus = "healthy"
