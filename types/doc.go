// Package types holds the observability interfaces shared by partab packages.
//
// Logger and MetricsCollector are small on purpose so any structured logger or
// metrics backend can be adapted. partab ships a slog adapter (partab.NewSlogLogger),
// no-op implementations of both, and a Prometheus collector in package metrics.
package types
