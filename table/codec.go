package table

import (
	"fmt"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/arloliu/partab/encoding"
	"github.com/arloliu/partab/endian"
	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/format"
	"github.com/arloliu/partab/internal/pool"
)

// appendColumn encodes vals with enc and appends the column to buf.
func appendColumn[V any](buf *pool.ByteBuffer, enc encoding.ColumnarEncoder[V], vals []V) {
	defer enc.Finish()

	enc.WriteSlice(vals)
	buf.MustWrite(enc.Bytes())
}

func encodePayloads[T any](enc EncodeFunc[T], ids []uint64, data func(uint64) T) ([][]byte, error) {
	payloads := make([][]byte, len(ids))
	for i, gid := range ids {
		p, err := enc(data(gid))
		if err != nil {
			return nil, fmt.Errorf("%w: group %d: %w", errs.ErrGroupCodec, gid, err)
		}
		payloads[i] = p
	}

	return payloads, nil
}

// Serialize encodes the table's full state: alpha, the next group id, the assignment
// vector and every active group's aggregate as written by enc. Group ids survive the
// round trip unchanged.
func (t *Table[T]) Serialize(enc EncodeFunc[T], opts ...EncodeOption) ([]byte, error) {
	ids := t.GroupIDs()
	payloads, err := encodePayloads(enc, ids, func(gid uint64) T { return t.groups[gid].Data })
	if err != nil {
		return nil, err
	}

	return encodeState(t.cfg, format.KindTable, len(t.assignments), len(ids), opts,
		func(engine endian.EndianEngine, buf *pool.ByteBuffer) error {
			appendColumn(buf, encoding.NewNumericRawEncoder(engine), []float64{t.alpha})
			appendColumn(buf, encoding.NewUvarintEncoder(), []uint64{t.nextID})
			appendColumn(buf, encoding.NewVarintEncoder(), t.assignments)
			appendColumn(buf, encoding.NewUvarintEncoder(), ids)
			appendColumn(buf, encoding.NewVarBytesEncoder(), payloads)

			return nil
		})
}

// DecodeTable builds a new Table from a blob written by Table.Serialize. Group counts
// and the empty-group set are recomputed from the assignment vector.
//
// Every rejection wraps errs.ErrInvalidState together with the specific cause.
func DecodeTable[T any](data []byte, dec DecodeFunc[T], opts ...Option) (*Table[T], error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	t, err := decodeTable(cfg, data, dec)
	recordDecode(cfg, format.KindTable, len(data), start, err)
	if err != nil {
		return nil, err
	}

	cfg.metrics.RecordActiveGroups(cfg.name, len(t.groups))
	t.verify()

	return t, nil
}

// Restore replaces the table's state with the one in data. The blob must describe the
// same number of entities. On error the table is left untouched.
func (t *Table[T]) Restore(data []byte, dec DecodeFunc[T]) error {
	start := time.Now()
	fresh, err := decodeTable(t.cfg, data, dec)
	if err == nil && len(fresh.assignments) != len(t.assignments) {
		err = invalidState(fmt.Errorf("%w: state holds %d entities, table has %d",
			errs.ErrSizeMismatch, len(fresh.assignments), len(t.assignments)))
	}
	recordDecode(t.cfg, format.KindTable, len(data), start, err)
	if err != nil {
		return err
	}

	t.alpha = fresh.alpha
	t.assignments = fresh.assignments
	t.groups = fresh.groups
	t.empty = fresh.empty
	t.nextID = fresh.nextID
	t.assigned = fresh.assigned

	t.cfg.metrics.RecordActiveGroups(t.cfg.name, len(t.groups))
	t.verify()

	return nil
}

func decodeTable[T any](cfg *Config, data []byte, dec DecodeFunc[T]) (*Table[T], error) {
	header, body, engine, err := openState(data, format.KindTable)
	if err != nil {
		return nil, err
	}

	n, g := int(header.EntityCount), int(header.GroupCount)
	if n == 0 {
		return nil, invalidState(fmt.Errorf("%w: 0", errs.ErrInvalidEntityCount))
	}

	r := bodyReader{data: body, engine: engine}
	alpha, err := r.float64s(1)
	if err != nil {
		return nil, invalidState(err)
	}
	if err := validateConcentration(alpha[0]); err != nil {
		return nil, invalidState(err)
	}
	next, err := r.uvarints(1)
	if err != nil {
		return nil, invalidState(err)
	}
	nextID := next[0]
	if nextID > math.MaxInt64 {
		return nil, invalidState(fmt.Errorf("%w: next group id %d exceeds the assignment range", errs.ErrInvalidGroupID, nextID))
	}
	assignments, err := r.varints(n)
	if err != nil {
		return nil, invalidState(err)
	}
	ids, err := r.uvarints(g)
	if err != nil {
		return nil, invalidState(err)
	}
	payloads, err := r.payloads(g)
	if err != nil {
		return nil, invalidState(err)
	}
	if err := r.finish(); err != nil {
		return nil, invalidState(err)
	}

	groups := make(map[uint64]*Group[T], g)
	for _, gid := range ids {
		if gid >= nextID {
			return nil, invalidState(fmt.Errorf("%w: group %d not below next id %d", errs.ErrInvalidGroupID, gid, nextID))
		}
		if _, dup := groups[gid]; dup {
			return nil, invalidState(fmt.Errorf("%w: %d", errs.ErrDuplicateGroupID, gid))
		}
		groups[gid] = &Group[T]{}
	}

	assigned := 0
	for eid, gid := range assignments {
		if gid == Unassigned {
			continue
		}
		var grp *Group[T]
		if gid >= 0 {
			grp = groups[uint64(gid)]
		}
		if grp == nil {
			return nil, invalidState(fmt.Errorf("%w: entity %d assigned to unknown group %d", errs.ErrInvalidGroupID, eid, gid))
		}
		grp.Count++
		assigned++
	}

	for i, gid := range ids {
		v, err := dec(payloads[i])
		if err != nil {
			return nil, invalidState(fmt.Errorf("%w: group %d: %w", errs.ErrGroupCodec, gid, err))
		}
		groups[gid].Data = v
	}

	empty := roaring64.New()
	for gid, grp := range groups {
		if grp.Count == 0 {
			empty.Add(gid)
		}
	}

	return &Table[T]{
		cfg:         cfg,
		alpha:       alpha[0],
		assignments: assignments,
		groups:      groups,
		empty:       empty,
		nextID:      nextID,
		assigned:    assigned,
	}, nil
}

// GetHP encodes the concentration parameter alone.
func (t *Table[T]) GetHP(opts ...EncodeOption) ([]byte, error) {
	return encodeState(t.cfg, format.KindTableHyper, 0, 0, opts,
		func(engine endian.EndianEngine, buf *pool.ByteBuffer) error {
			appendColumn(buf, encoding.NewNumericRawEncoder(engine), []float64{t.alpha})
			return nil
		})
}

// SetHP replaces the concentration parameter with the one encoded in data.
func (t *Table[T]) SetHP(data []byte) error {
	start := time.Now()
	alphas, err := decodeHyper(data, format.KindTableHyper, 1)
	recordDecode(t.cfg, format.KindTableHyper, len(data), start, err)
	if err != nil {
		return err
	}
	t.alpha = alphas[0]

	return nil
}

// decodeHyper reads a hyperparameter blob of count concentration values.
func decodeHyper(data []byte, kind format.StateKind, count int) ([]float64, error) {
	header, body, engine, err := openState(data, kind)
	if err != nil {
		return nil, err
	}
	if kind == format.KindFixedTableHyper && int(header.GroupCount) != count {
		return nil, invalidState(fmt.Errorf("%w: %d alphas for %d groups", errs.ErrSizeMismatch, header.GroupCount, count))
	}

	r := bodyReader{data: body, engine: engine}
	alphas, err := r.float64s(count)
	if err != nil {
		return nil, invalidState(err)
	}
	if err := r.finish(); err != nil {
		return nil, invalidState(err)
	}
	for _, a := range alphas {
		if err := validateConcentration(a); err != nil {
			return nil, invalidState(err)
		}
	}

	return alphas, nil
}

// Serialize encodes the fixed table's full state: the K weights, the assignment vector
// and all K aggregates as written by enc.
func (t *FixedTable[T]) Serialize(enc EncodeFunc[T], opts ...EncodeOption) ([]byte, error) {
	ids := make([]uint64, len(t.groups))
	for i := range ids {
		ids[i] = uint64(i)
	}
	payloads, err := encodePayloads(enc, ids, func(gid uint64) T { return t.groups[gid].Data })
	if err != nil {
		return nil, err
	}

	return encodeState(t.cfg, format.KindFixedTable, len(t.assignments), len(t.groups), opts,
		func(engine endian.EndianEngine, buf *pool.ByteBuffer) error {
			appendColumn(buf, encoding.NewNumericRawEncoder(engine), t.alphas)
			appendColumn(buf, encoding.NewVarintEncoder(), t.assignments)
			appendColumn(buf, encoding.NewVarBytesEncoder(), payloads)

			return nil
		})
}

// DecodeFixedTable builds a new FixedTable from a blob written by FixedTable.Serialize.
// Group counts are recomputed from the assignment vector.
func DecodeFixedTable[T any](data []byte, dec DecodeFunc[T], opts ...Option) (*FixedTable[T], error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	t, err := decodeFixedTable(cfg, data, dec)
	recordDecode(cfg, format.KindFixedTable, len(data), start, err)
	if err != nil {
		return nil, err
	}
	t.verify()

	return t, nil
}

// Restore replaces the fixed table's state with the one in data. The blob must have the
// same number of entities and groups. On error the table is left untouched.
func (t *FixedTable[T]) Restore(data []byte, dec DecodeFunc[T]) error {
	start := time.Now()
	fresh, err := decodeFixedTable(t.cfg, data, dec)
	if err == nil && (len(fresh.assignments) != len(t.assignments) || len(fresh.groups) != len(t.groups)) {
		err = invalidState(fmt.Errorf("%w: state is %d entities x %d groups, table is %d x %d", errs.ErrSizeMismatch,
			len(fresh.assignments), len(fresh.groups), len(t.assignments), len(t.groups)))
	}
	recordDecode(t.cfg, format.KindFixedTable, len(data), start, err)
	if err != nil {
		return err
	}

	copy(t.alphas, fresh.alphas)
	t.assignments = fresh.assignments
	t.groups = fresh.groups
	t.assigned = fresh.assigned
	t.verify()

	return nil
}

func decodeFixedTable[T any](cfg *Config, data []byte, dec DecodeFunc[T]) (*FixedTable[T], error) {
	header, body, engine, err := openState(data, format.KindFixedTable)
	if err != nil {
		return nil, err
	}

	n, k := int(header.EntityCount), int(header.GroupCount)
	if n == 0 {
		return nil, invalidState(fmt.Errorf("%w: 0", errs.ErrInvalidEntityCount))
	}
	if k == 0 {
		return nil, invalidState(fmt.Errorf("%w: 0", errs.ErrInvalidGroupCount))
	}

	r := bodyReader{data: body, engine: engine}
	alphas, err := r.float64s(k)
	if err != nil {
		return nil, invalidState(err)
	}
	for _, a := range alphas {
		if err := validateConcentration(a); err != nil {
			return nil, invalidState(err)
		}
	}
	assignments, err := r.varints(n)
	if err != nil {
		return nil, invalidState(err)
	}
	payloads, err := r.payloads(k)
	if err != nil {
		return nil, invalidState(err)
	}
	if err := r.finish(); err != nil {
		return nil, invalidState(err)
	}

	groups := make([]Group[T], k)
	assigned := 0
	for eid, gid := range assignments {
		if gid == Unassigned {
			continue
		}
		if gid < 0 || gid >= int64(k) {
			return nil, invalidState(fmt.Errorf("%w: entity %d assigned to group %d outside [0, %d)",
				errs.ErrInvalidGroupID, eid, gid, k))
		}
		groups[gid].Count++
		assigned++
	}

	for i, p := range payloads {
		v, err := dec(p)
		if err != nil {
			return nil, invalidState(fmt.Errorf("%w: group %d: %w", errs.ErrGroupCodec, i, err))
		}
		groups[i].Data = v
	}

	return &FixedTable[T]{
		cfg:         cfg,
		alphas:      alphas,
		assignments: assignments,
		groups:      groups,
		assigned:    assigned,
	}, nil
}

// GetHP encodes the K Dirichlet weights alone.
func (t *FixedTable[T]) GetHP(opts ...EncodeOption) ([]byte, error) {
	return encodeState(t.cfg, format.KindFixedTableHyper, 0, len(t.alphas), opts,
		func(engine endian.EndianEngine, buf *pool.ByteBuffer) error {
			appendColumn(buf, encoding.NewNumericRawEncoder(engine), t.alphas)
			return nil
		})
}

// SetHP replaces the Dirichlet weights with the ones encoded in data. The blob must
// hold exactly K weights.
func (t *FixedTable[T]) SetHP(data []byte) error {
	start := time.Now()
	alphas, err := decodeHyper(data, format.KindFixedTableHyper, len(t.alphas))
	recordDecode(t.cfg, format.KindFixedTableHyper, len(data), start, err)
	if err != nil {
		return err
	}
	copy(t.alphas, alphas)

	return nil
}
