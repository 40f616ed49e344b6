// Package table provides the partition bookkeeping behind mixture-model samplers.
//
// A table tracks which of n entities belongs to which group, how many members each
// group has, and one caller-defined aggregate per group (typically the sufficient
// statistics of a component model). It also scores the current partition under its
// prior. Samplers drive it by removing an entity, scoring candidate groups through
// Pseudocount and their own likelihood, then adding the entity back.
//
// # Core Types
//
//   - Table: unbounded number of groups under a Chinese Restaurant Process prior
//     with concentration alpha. Groups are created and deleted explicitly and their
//     ids are never reused.
//   - FixedTable: exactly K groups under a finite Dirichlet-discrete prior with one
//     weight per group.
//   - Group: a member count and the caller's aggregate.
//
// # Usage
//
//	tbl, err := table.NewTable[model.Group](100, table.WithAlpha(2.0))
//	if err != nil {
//	    return err
//	}
//
//	gid, grp := tbl.CreateGroup()
//	*grp = hypers.CreateGroup(rng)
//
//	agg, err := tbl.AddValue(gid, 7)
//	if err != nil {
//	    return err
//	}
//	(*agg).AddValue(hypers, obs, rng)
//
//	logp := tbl.ScoreAssignment()
//
// # Serialization
//
// Serialize writes a self-describing blob: a 24-byte header (magic, kind, byte order,
// compression, counts, body length and xxHash64 checksum) followed by a columnar body.
// Group aggregates are opaque to the table; callers supply an EncodeFunc and a
// DecodeFunc. DecodeTable and DecodeFixedTable build new tables, and Restore replaces
// the state of a live one. Group counts are always recomputed from the assignment
// vector, so a blob cannot smuggle in inconsistent bookkeeping.
//
//	blob, err := tbl.Serialize(encodeGroup, table.WithCompression(format.CompressionZstd))
//	...
//	restored, err := table.DecodeTable(blob, decodeGroup)
//
// GetHP and SetHP do the same for the hyperparameters alone.
//
// # Thread Safety
//
// Tables are not safe for concurrent use. Run independent chains on independent tables.
package table
