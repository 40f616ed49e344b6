package encoding

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/internal/pool"
)

// VarintEncoder encodes int64 values as zig-zag varints (1 to 10 bytes each).
//
// Assignment vectors are dominated by small group ids and the -1 unassigned
// sentinel, both of which fit in a single byte.
type VarintEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnarEncoder[int64] = (*VarintEncoder)(nil)

// NewVarintEncoder creates a signed varint encoder.
func NewVarintEncoder() *VarintEncoder {
	return &VarintEncoder{buf: pool.GetColumnBuffer()}
}

// Write encodes a single value.
func (e *VarintEncoder) Write(v int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(binary.MaxVarintLen64)
	e.buf.B = binary.AppendVarint(e.buf.B, v)
}

// WriteSlice encodes values in order.
func (e *VarintEncoder) WriteSlice(values []int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	// one byte per value covers the common case
	e.buf.Grow(len(values))
	for _, v := range values {
		e.buf.B = binary.AppendVarint(e.buf.B, v)
	}
	e.count += len(values)
}

// Bytes returns the encoded values. See ColumnarEncoder.Bytes.
func (e *VarintEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *VarintEncoder) Len() int { return e.count }

// Size returns the encoded size in bytes.
func (e *VarintEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *VarintEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.buf)
	e.buf = nil
	e.count = 0
}

// UvarintEncoder encodes uint64 values as unsigned varints. Group ids use it.
type UvarintEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnarEncoder[uint64] = (*UvarintEncoder)(nil)

// NewUvarintEncoder creates an unsigned varint encoder.
func NewUvarintEncoder() *UvarintEncoder {
	return &UvarintEncoder{buf: pool.GetColumnBuffer()}
}

// Write encodes a single value.
func (e *UvarintEncoder) Write(v uint64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(binary.MaxVarintLen64)
	e.buf.B = binary.AppendUvarint(e.buf.B, v)
}

// WriteSlice encodes values in order.
func (e *UvarintEncoder) WriteSlice(values []uint64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.Grow(len(values))
	for _, v := range values {
		e.buf.B = binary.AppendUvarint(e.buf.B, v)
	}
	e.count += len(values)
}

// Bytes returns the encoded values. See ColumnarEncoder.Bytes.
func (e *UvarintEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *UvarintEncoder) Len() int { return e.count }

// Size returns the encoded size in bytes.
func (e *UvarintEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *UvarintEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.buf)
	e.buf = nil
	e.count = 0
}

// VarintDecoder decodes columns written by VarintEncoder.
type VarintDecoder struct{}

var _ ColumnarDecoder[int64] = VarintDecoder{}

// Decode reads count zig-zag varints from the front of data.
func (VarintDecoder) Decode(data []byte, count int) ([]int64, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative value count %d", errs.ErrInvalidState, count)
	}
	if count > len(data) {
		// every varint takes at least one byte
		return nil, 0, fmt.Errorf("%w: %d varints cannot fit in %d bytes", errs.ErrTruncatedPayload, count, len(data))
	}

	values := make([]int64, count)
	off := 0
	for i := range values {
		v, n := binary.Varint(data[off:])
		if n <= 0 {
			return nil, 0, fmt.Errorf("%w: malformed varint %d at offset %d", errs.ErrTruncatedPayload, i, off)
		}
		values[i] = v
		off += n
	}

	return values, off, nil
}

// UvarintDecoder decodes columns written by UvarintEncoder.
type UvarintDecoder struct{}

var _ ColumnarDecoder[uint64] = UvarintDecoder{}

// Decode reads count unsigned varints from the front of data.
func (UvarintDecoder) Decode(data []byte, count int) ([]uint64, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative value count %d", errs.ErrInvalidState, count)
	}
	if count > len(data) {
		return nil, 0, fmt.Errorf("%w: %d varints cannot fit in %d bytes", errs.ErrTruncatedPayload, count, len(data))
	}

	values := make([]uint64, count)
	off := 0
	for i := range values {
		v, n := binary.Uvarint(data[off:])
		if n <= 0 {
			return nil, 0, fmt.Errorf("%w: malformed uvarint %d at offset %d", errs.ErrTruncatedPayload, i, off)
		}
		values[i] = v
		off += n
	}

	return values, off, nil
}
