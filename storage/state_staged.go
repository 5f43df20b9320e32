package storage

import (
	"context"
	"errors"

	"github.com/veriluxe/certificate-registry/interfaces"
)

var errReadOnlyState = errors.New("state is read-only inside View")

type stateReader interface {
	readAdmin(ctx context.Context) (interfaces.Identity, bool, error)
	readCertificate(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, bool, error)
}

// stagedState buffers the writes of one Update on top of a reader. Reads see
// the staged writes first. Nothing reaches the backing store until the owning
// store commits the buffer.
type stagedState struct {
	base     stateReader
	readOnly bool

	admin   *interfaces.Identity
	cleared bool
	certs   map[interfaces.CertificateID]interfaces.Certificate
}

func newStagedState(base stateReader, readOnly bool) *stagedState {
	return &stagedState{
		base:     base,
		readOnly: readOnly,
		certs:    make(map[interfaces.CertificateID]interfaces.Certificate),
	}
}

func (s *stagedState) Admin(ctx context.Context) (interfaces.Identity, bool, error) {
	if s.admin != nil {
		return *s.admin, true, nil
	}
	return s.base.readAdmin(ctx)
}

func (s *stagedState) SetAdmin(ctx context.Context, admin interfaces.Identity) error {
	if s.readOnly {
		return errReadOnlyState
	}
	s.admin = &admin
	return nil
}

func (s *stagedState) Certificate(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, bool, error) {
	if cert, ok := s.certs[id]; ok {
		return cert, true, nil
	}
	if s.cleared {
		return interfaces.Certificate{}, false, nil
	}
	return s.base.readCertificate(ctx, id)
}

func (s *stagedState) PutCertificate(ctx context.Context, id interfaces.CertificateID, cert interfaces.Certificate) error {
	if s.readOnly {
		return errReadOnlyState
	}
	s.certs[id] = cert
	return nil
}

func (s *stagedState) ClearCertificates(ctx context.Context) error {
	if s.readOnly {
		return errReadOnlyState
	}
	s.cleared = true
	clear(s.certs)
	return nil
}

func (s *stagedState) dirty() bool {
	return s.admin != nil || s.cleared || len(s.certs) > 0
}
