package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/partab/types"
)

func TestNopMetrics(t *testing.T) {
	var m types.MetricsCollector = NewNop()

	require.NotPanics(t, func() {
		m.RecordGroupCreated("t")
		m.RecordGroupDeleted("t")
		m.RecordActiveGroups("t", 3)
		m.RecordSerialize("Table", 128, 0.001)
		m.RecordDeserialize("Table", 128, 0.001, false)
		m.RecordCompression("Zstd", 0.4)
	})
}

func TestNewPrometheus_Defaults(t *testing.T) {
	p := NewPrometheus(nil, "")

	require.Equal(t, prometheus.DefaultRegisterer, p.reg)
	require.Equal(t, "partab", p.namespace)
}

func TestPrometheusCollector_LazyRegistration(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	_ = NewPrometheus(reg, "test")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families)
}

func TestPrometheusCollector_TableMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordGroupCreated("rows")
	p.RecordGroupCreated("rows")
	p.RecordGroupCreated("cols")
	p.RecordGroupDeleted("rows")
	p.RecordActiveGroups("rows", 1)

	require.InDelta(t, 2.0, testutil.ToFloat64(p.groupsCreated.WithLabelValues("rows")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.groupsCreated.WithLabelValues("cols")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.groupsDeleted.WithLabelValues("rows")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.activeGroups.WithLabelValues("rows")), 0)
}

func TestPrometheusCollector_CodecMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordSerialize("Table", 512, 0.0002)
	p.RecordDeserialize("Table", 512, 0.0001, true)
	p.RecordDeserialize("Table", 10, 0.00001, false)
	p.RecordCompression("S2", 0.3)

	require.InDelta(t, 1.0, testutil.ToFloat64(p.deserializeTotal.WithLabelValues("Table", "true")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.deserializeTotal.WithLabelValues("Table", "false")), 0)

	count, err := testutil.GatherAndCount(reg,
		"test_codec_serialize_bytes",
		"test_codec_serialize_duration_seconds",
		"test_codec_deserialize_duration_seconds",
		"test_codec_compression_ratio",
	)
	require.NoError(t, err)
	require.Equal(t, 4, count)
}
