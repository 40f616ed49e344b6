// Package partab provides partition tables for Bayesian nonparametric mixture samplers.
//
// A partition table assigns n entities to groups, keeps a per-group aggregate of the
// caller's choosing, and scores the partition under its prior. Two priors are offered:
//
//   - Table: an unbounded number of groups under a Chinese Restaurant Process with
//     concentration alpha. Groups are created and deleted explicitly and group ids
//     are never reused.
//   - FixedTable: exactly K groups under a finite Dirichlet-discrete prior.
//
// # Core Features
//
//   - O(1) add/remove with validated, all-or-nothing mutators
//   - Empty-group tracking with roaring bitmaps for alpha-splitting pseudocounts
//   - Closed-form partition scores (Ewens for CRP, Dirichlet-multinomial for fixed K)
//   - Typed, string-keyed hyperparameter views for in-place perturbation
//   - Checksummed binary serialization with optional compression (Zstd, S2, LZ4)
//   - Pluggable logging and Prometheus metrics
//
// # Basic Usage
//
//	import "github.com/arloliu/partab"
//
//	tbl, _ := partab.NewTable[model.Group](1000, partab.WithAlpha(1.5))
//	h := betabern.New().CreateHypers()
//
//	gid, agg := tbl.CreateGroup()
//	*agg = h.CreateGroup(rng)
//
//	grp, _ := tbl.AddValue(gid, 0)
//	(*grp).AddValue(h, obs, rng)
//
// Saving and restoring a checkpoint:
//
//	enc, dec := model.PayloadCodec(h, rng)
//	blob, _ := tbl.Serialize(enc, partab.WithCompression(format.CompressionZstd))
//	restored, _ := partab.DecodeTable(blob, dec)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the table, model and
// logging packages. For fine-grained control use the table package directly.
package partab

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/format"
	"github.com/arloliu/partab/internal/logging"
	"github.com/arloliu/partab/model"
	"github.com/arloliu/partab/model/betabern"
	"github.com/arloliu/partab/model/noop"
	"github.com/arloliu/partab/section"
	"github.com/arloliu/partab/table"
	"github.com/arloliu/partab/types"
)

// NewTable creates a CRP partition table over n entities.
func NewTable[T any](n int, opts ...table.Option) (*table.Table[T], error) {
	return table.NewTable[T](n, opts...)
}

// NewFixedTable creates a Dirichlet-discrete partition table over n entities and k groups.
func NewFixedTable[T any](n, k int, opts ...table.Option) (*table.FixedTable[T], error) {
	return table.NewFixedTable[T](n, k, opts...)
}

// NewModelTable creates a CRP table whose group aggregates are model groups.
func NewModelTable(n int, opts ...table.Option) (*table.Table[model.Group], error) {
	return table.NewTable[model.Group](n, opts...)
}

// DecodeTable rebuilds a CRP table from a blob written by Table.Serialize.
func DecodeTable[T any](data []byte, dec table.DecodeFunc[T], opts ...table.Option) (*table.Table[T], error) {
	return table.DecodeTable(data, dec, opts...)
}

// DecodeFixedTable rebuilds a fixed table from a blob written by FixedTable.Serialize.
func DecodeFixedTable[T any](data []byte, dec table.DecodeFunc[T], opts ...table.Option) (*table.FixedTable[T], error) {
	return table.DecodeFixedTable(data, dec, opts...)
}

// PeekKind reports what a serialized blob holds without decoding its body.
func PeekKind(data []byte) (format.StateKind, error) {
	return section.PeekKind(data)
}

// WithAlpha sets the initial CRP concentration, or every Dirichlet weight of a fixed table.
func WithAlpha(alpha float64) table.Option { return table.WithAlpha(alpha) }

// WithAlphas sets the initial Dirichlet weights of a fixed table.
func WithAlphas(alphas []float64) table.Option { return table.WithAlphas(alphas) }

// WithLogger sets the table logger.
func WithLogger(logger types.Logger) table.Option { return table.WithLogger(logger) }

// WithMetrics sets the table metrics collector.
func WithMetrics(collector types.MetricsCollector) table.Option { return table.WithMetrics(collector) }

// WithName labels the table in logs and metrics.
func WithName(name string) table.Option { return table.WithName(name) }

// WithInvariantChecks verifies table bookkeeping after every mutation.
func WithInvariantChecks(enabled bool) table.Option { return table.WithInvariantChecks(enabled) }

// WithCompression selects the body compression of a serialized blob.
func WithCompression(comp format.CompressionType) table.EncodeOption {
	return table.WithCompression(comp)
}

// WithBigEndian writes a serialized blob's fixed-width fields big-endian.
func WithBigEndian() table.EncodeOption { return table.WithBigEndian() }

// NewSlogLogger adapts a *slog.Logger. A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) types.Logger {
	return logging.NewSlog(logger)
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() types.Logger {
	return logging.NewNop()
}

var families = map[string]model.Model{
	"noop":     noop.New(),
	"betabern": betabern.New(),
}

// Families lists the built-in likelihood family names in sorted order.
func Families() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// LookupFamily returns a built-in likelihood family by name.
func LookupFamily(name string) (model.Model, error) {
	m, ok := families[name]
	if !ok {
		return nil, fmt.Errorf("%w: family %q (have %v)", errs.ErrUnknownKey, name, Families())
	}

	return m, nil
}
