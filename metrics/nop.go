// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/partab/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Tables use it unless WithMetrics is given.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	tbl, err := partab.NewTable[*Stats](n, partab.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// TableMetrics implementation

// RecordGroupCreated discards the metric.
func (n *NopMetrics) RecordGroupCreated(_ /* table */ string) {}

// RecordGroupDeleted discards the metric.
func (n *NopMetrics) RecordGroupDeleted(_ /* table */ string) {}

// RecordActiveGroups discards the metric.
func (n *NopMetrics) RecordActiveGroups(_ /* table */ string, _ /* count */ int) {}

// CodecMetrics implementation

// RecordSerialize discards the metric.
func (n *NopMetrics) RecordSerialize(_ /* kind */ string, _ /* size */ int, _ /* duration */ float64) {
}

// RecordDeserialize discards the metric.
func (n *NopMetrics) RecordDeserialize(_ /* kind */ string, _ /* size */ int, _ /* duration */ float64, _ /* success */ bool) {
}

// RecordCompression discards the metric.
func (n *NopMetrics) RecordCompression(_ /* algorithm */ string, _ /* ratio */ float64) {}
