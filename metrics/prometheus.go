package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/partab/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing one that
// is never exercised leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// table metrics
	groupsCreated *prometheus.CounterVec
	groupsDeleted *prometheus.CounterVec
	activeGroups  *prometheus.GaugeVec

	// codec metrics
	serializeBytes      *prometheus.HistogramVec
	serializeDuration   *prometheus.HistogramVec
	deserializeTotal    *prometheus.CounterVec
	deserializeDuration *prometheus.HistogramVec
	compressionRatio    *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "partab" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "partab"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.groupsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "table",
			Name:      "groups_created_total",
			Help:      "Total groups created by table.",
		}, []string{"table"})
		p.groupsDeleted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "table",
			Name:      "groups_deleted_total",
			Help:      "Total groups deleted by table.",
		}, []string{"table"})
		p.activeGroups = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "table",
			Name:      "active_groups",
			Help:      "Current number of active groups by table.",
		}, []string{"table"})

		p.serializeBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "codec",
			Name:      "serialize_bytes",
			Help:      "Serialized blob size in bytes by state kind.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10), // 64B .. 16MiB
		}, []string{"kind"})
		p.serializeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "codec",
			Name:      "serialize_duration_seconds",
			Help:      "Serialization latency in seconds by state kind.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs .. ~2.6s
		}, []string{"kind"})
		p.deserializeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "codec",
			Name:      "deserialize_total",
			Help:      "Total decode attempts by state kind and outcome.",
		}, []string{"kind", "success"})
		p.deserializeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "codec",
			Name:      "deserialize_duration_seconds",
			Help:      "Decode latency in seconds by state kind.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"kind"})
		p.compressionRatio = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "codec",
			Name:      "compression_ratio",
			Help:      "Compressed body size divided by original body size.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 1.25},
		}, []string{"algorithm"})

		p.reg.MustRegister(p.groupsCreated)
		p.reg.MustRegister(p.groupsDeleted)
		p.reg.MustRegister(p.activeGroups)
		p.reg.MustRegister(p.serializeBytes)
		p.reg.MustRegister(p.serializeDuration)
		p.reg.MustRegister(p.deserializeTotal)
		p.reg.MustRegister(p.deserializeDuration)
		p.reg.MustRegister(p.compressionRatio)
	})
}

// TableMetrics implementation

// RecordGroupCreated increments the created groups counter.
func (p *PrometheusCollector) RecordGroupCreated(table string) {
	p.ensureRegistered()
	p.groupsCreated.WithLabelValues(table).Inc()
}

// RecordGroupDeleted increments the deleted groups counter.
func (p *PrometheusCollector) RecordGroupDeleted(table string) {
	p.ensureRegistered()
	p.groupsDeleted.WithLabelValues(table).Inc()
}

// RecordActiveGroups sets the active groups gauge.
func (p *PrometheusCollector) RecordActiveGroups(table string, count int) {
	p.ensureRegistered()
	p.activeGroups.WithLabelValues(table).Set(float64(count))
}

// CodecMetrics implementation

// RecordSerialize observes blob size and latency.
func (p *PrometheusCollector) RecordSerialize(kind string, size int, duration float64) {
	p.ensureRegistered()
	p.serializeBytes.WithLabelValues(kind).Observe(float64(size))
	p.serializeDuration.WithLabelValues(kind).Observe(duration)
}

// RecordDeserialize counts the attempt and observes its latency.
func (p *PrometheusCollector) RecordDeserialize(kind string, _ /* size */ int, duration float64, success bool) {
	p.ensureRegistered()
	p.deserializeTotal.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
	p.deserializeDuration.WithLabelValues(kind).Observe(duration)
}

// RecordCompression observes the compression ratio.
func (p *PrometheusCollector) RecordCompression(algorithm string, ratio float64) {
	p.ensureRegistered()
	p.compressionRatio.WithLabelValues(algorithm).Observe(ratio)
}
