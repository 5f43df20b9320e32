package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/veriluxe/certificate-registry/interfaces"
)

func TestRegistryMetrics_ObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistryMetrics("test", reg)

	m.ObserveOperation("issue", time.Now(), nil)
	m.ObserveOperation("issue", time.Now(), fmt.Errorf("issue CERT-1: %w", interfaces.ErrDuplicateID))
	m.ObserveOperation("issue", time.Now(), fmt.Errorf("issue CERT-2: %w", interfaces.ErrDuplicateID))
	m.CertificateEvent(EventIssued)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("issue", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("issue", "duplicate_id")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CertificateEvents.WithLabelValues(EventIssued)))
}

func TestRegistryMetrics_NilIsNoop(t *testing.T) {
	var m *RegistryMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("verify", time.Now(), nil)
		m.CertificateEvent(EventRevoked)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_initialized", Outcome(interfaces.ErrNotInitialized))
	assert.Equal(t, "unauthorized", Outcome(fmt.Errorf("wrapped: %w", interfaces.ErrAuthorization)))
	assert.Equal(t, "not_found", Outcome(interfaces.ErrNotFound))
	assert.Equal(t, "invalid_certificate", Outcome(interfaces.ErrInvalidCertificate))
	assert.Equal(t, "already_initialized", Outcome(interfaces.ErrAlreadyInitialized))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}
