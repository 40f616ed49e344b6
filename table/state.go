package table

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/partab/compress"
	"github.com/arloliu/partab/encoding"
	"github.com/arloliu/partab/endian"
	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/format"
	"github.com/arloliu/partab/internal/hash"
	"github.com/arloliu/partab/internal/pool"
	"github.com/arloliu/partab/section"
)

// EncodeFunc serializes one group aggregate into an opaque payload.
type EncodeFunc[T any] func(T) ([]byte, error)

// DecodeFunc rebuilds a group aggregate from a payload written by the matching EncodeFunc.
type DecodeFunc[T any] func([]byte) (T, error)

// bodyWriter appends a state body in the given byte order.
type bodyWriter func(engine endian.EndianEngine, buf *pool.ByteBuffer) error

// encodeState frames a body as header + compressed body and records codec metrics.
func encodeState(cfg *Config, kind format.StateKind, entities, groups int, opts []EncodeOption, write bodyWriter) ([]byte, error) {
	start := time.Now()

	ecfg, err := newEncodeConfig(kind, opts...)
	if err != nil {
		return nil, err
	}
	if uint64(entities) > math.MaxUint32 || uint64(groups) > math.MaxUint32 { //nolint:gosec
		return nil, fmt.Errorf("state too large to encode: %d entities, %d groups", entities, groups)
	}

	body := pool.GetStateBuffer()
	defer pool.PutStateBuffer(body)

	if err := write(ecfg.flag.GetEndianEngine(), body); err != nil {
		return nil, err
	}

	stored, stats, err := compress.CompressWithStats(ecfg.flag.CompressionType(), body.Bytes())
	if err != nil {
		return nil, err
	}
	if uint64(len(stored)) > math.MaxUint32 {
		return nil, fmt.Errorf("state body too large to encode: %d bytes", len(stored))
	}

	header := section.StateHeader{
		Flag:        ecfg.flag,
		EntityCount: uint32(entities),
		GroupCount:  uint32(groups),
		BodyLength:  uint32(len(stored)),
		Checksum:    hash.Checksum(stored),
	}

	out := make([]byte, 0, section.HeaderSize+len(stored))
	out = append(out, header.Bytes()...)
	out = append(out, stored...)

	cfg.metrics.RecordSerialize(kind.String(), len(out), time.Since(start).Seconds())
	if stats.Algorithm != format.CompressionNone {
		cfg.metrics.RecordCompression(stats.Algorithm.String(), stats.CompressionRatio())
	}
	cfg.logger.Debug("state encoded",
		"table", cfg.name,
		"kind", kind.String(),
		"compression", stats.Algorithm.String(),
		"raw_bytes", stats.OriginalSize,
		"stored_bytes", stats.CompressedSize,
	)

	return out, nil
}

// openState validates the framing of a blob of the wanted kind and returns its header,
// decompressed body and byte order. Every error wraps errs.ErrInvalidState.
func openState(data []byte, want format.StateKind) (section.StateHeader, []byte, endian.EndianEngine, error) {
	header, err := section.ParseStateHeader(data)
	if err != nil {
		return header, nil, nil, invalidState(err)
	}

	if kind := header.Flag.StateKind(); kind != want {
		return header, nil, nil, invalidState(fmt.Errorf("%w: got %s, want %s", errs.ErrUnexpectedKind, kind, want))
	}

	stored := data[section.HeaderSize:]
	switch bodyLen := int(header.BodyLength); {
	case len(stored) < bodyLen:
		return header, nil, nil, invalidState(fmt.Errorf("%w: body has %d bytes, header declares %d",
			errs.ErrTruncatedPayload, len(stored), bodyLen))
	case len(stored) > bodyLen:
		return header, nil, nil, invalidState(fmt.Errorf("%w: %d bytes after body",
			errs.ErrTrailingBytes, len(stored)-bodyLen))
	}

	if !hash.Verify(stored, header.Checksum) {
		return header, nil, nil, invalidState(errs.ErrChecksumMismatch)
	}

	codec, err := compress.GetCodec(header.Flag.CompressionType())
	if err != nil {
		return header, nil, nil, invalidState(err)
	}
	body, err := codec.Decompress(stored)
	if err != nil {
		return header, nil, nil, invalidState(fmt.Errorf("failed to decompress body: %w", err))
	}

	return header, body, header.Flag.GetEndianEngine(), nil
}

func invalidState(err error) error {
	return fmt.Errorf("%w: %w", errs.ErrInvalidState, err)
}

// bodyReader walks a decompressed body column by column.
type bodyReader struct {
	data   []byte
	engine endian.EndianEngine
}

func (r *bodyReader) float64s(count int) ([]float64, error) {
	vals, n, err := encoding.NewNumericRawDecoder(r.engine).Decode(r.data, count)
	if err != nil {
		return nil, err
	}
	r.data = r.data[n:]

	return vals, nil
}

func (r *bodyReader) varints(count int) ([]int64, error) {
	vals, n, err := encoding.VarintDecoder{}.Decode(r.data, count)
	if err != nil {
		return nil, err
	}
	r.data = r.data[n:]

	return vals, nil
}

func (r *bodyReader) uvarints(count int) ([]uint64, error) {
	vals, n, err := encoding.UvarintDecoder{}.Decode(r.data, count)
	if err != nil {
		return nil, err
	}
	r.data = r.data[n:]

	return vals, nil
}

func (r *bodyReader) payloads(count int) ([][]byte, error) {
	vals, n, err := encoding.VarBytesDecoder{}.Decode(r.data, count)
	if err != nil {
		return nil, err
	}
	r.data = r.data[n:]

	return vals, nil
}

func (r *bodyReader) finish() error {
	if len(r.data) != 0 {
		return fmt.Errorf("%w: %d bytes after last column", errs.ErrTrailingBytes, len(r.data))
	}

	return nil
}

// recordDecode reports a decode attempt to the configured metrics collector.
func recordDecode(cfg *Config, kind format.StateKind, size int, start time.Time, err error) {
	cfg.metrics.RecordDeserialize(kind.String(), size, time.Since(start).Seconds(), err == nil)
	if err != nil {
		cfg.logger.Warn("state rejected", "table", cfg.name, "kind", kind.String(), "error", err)
	}
}
