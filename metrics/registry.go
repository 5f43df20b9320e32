package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/veriluxe/certificate-registry/interfaces"
)

// Certificate lifecycle events.
const (
	EventIssued      = "issued"
	EventTransferred = "transferred"
	EventRevoked     = "revoked"
)

// RegistryMetrics holds the collectors for registry operations. A nil
// *RegistryMetrics is valid and records nothing.
type RegistryMetrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	CertificateEvents *prometheus.CounterVec
}

func NewRegistryMetrics(namespace string, reg prometheus.Registerer) *RegistryMetrics {
	factory := promauto.With(reg)
	return &RegistryMetrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_operations_total",
			Help:      "Registry operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_operation_duration_seconds",
			Help:      "Latency of registry operations including state store round trips",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"operation"}),
		CertificateEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificate_events_total",
			Help:      "Certificate lifecycle transitions committed to the state store",
		}, []string{"event"}),
	}
}

// ObserveOperation records one completed operation.
func (m *RegistryMetrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, Outcome(err)).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *RegistryMetrics) CertificateEvent(event string) {
	if m == nil {
		return
	}
	m.CertificateEvents.WithLabelValues(event).Inc()
}

// Outcome maps an operation error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, interfaces.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, interfaces.ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, interfaces.ErrAuthorization):
		return "unauthorized"
	case errors.Is(err, interfaces.ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, interfaces.ErrNotFound):
		return "not_found"
	case errors.Is(err, interfaces.ErrInvalidCertificate):
		return "invalid_certificate"
	default:
		return "error"
	}
}
