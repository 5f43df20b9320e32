package registry

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/veriluxe/certificate-registry/interfaces"
)

// MockRegistry mocks the CertificateRegistry interface
type MockRegistry struct {
	mock.Mock
}

var _ interfaces.CertificateRegistry = (*MockRegistry)(nil)

// Initialize mocks the Initialize method
func (m *MockRegistry) Initialize(ctx context.Context, proof interfaces.AuthorizationProof, admin interfaces.Identity) error {
	args := m.Called(ctx, proof, admin)
	return args.Error(0)
}

// IssueCertificate mocks the IssueCertificate method
func (m *MockRegistry) IssueCertificate(ctx context.Context, proof interfaces.AuthorizationProof, id interfaces.CertificateID, metadataHash string, owner interfaces.Identity) error {
	args := m.Called(ctx, proof, id, metadataHash, owner)
	return args.Error(0)
}

// Verify mocks the Verify method
func (m *MockRegistry) Verify(ctx context.Context, id interfaces.CertificateID, metadataHash string) (bool, error) {
	args := m.Called(ctx, id, metadataHash)
	return args.Bool(0), args.Error(1)
}

// GetCertificateDetails mocks the GetCertificateDetails method
func (m *MockRegistry) GetCertificateDetails(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(interfaces.Certificate), args.Error(1)
}

// Transfer mocks the Transfer method
func (m *MockRegistry) Transfer(ctx context.Context, proof interfaces.AuthorizationProof, id interfaces.CertificateID, newOwner interfaces.Identity) error {
	args := m.Called(ctx, proof, id, newOwner)
	return args.Error(0)
}

// Revoke mocks the Revoke method
func (m *MockRegistry) Revoke(ctx context.Context, proof interfaces.AuthorizationProof, id interfaces.CertificateID) error {
	args := m.Called(ctx, proof, id)
	return args.Error(0)
}

// CertificateExists mocks the CertificateExists method
func (m *MockRegistry) CertificateExists(ctx context.Context, id interfaces.CertificateID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// GetAdmin mocks the GetAdmin method
func (m *MockRegistry) GetAdmin(ctx context.Context) (interfaces.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).(interfaces.Identity), args.Error(1)
}
