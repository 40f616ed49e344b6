package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/partab/endian"
	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/internal/pool"
)

// NumericRawEncoder encodes float64 values as fixed 8-byte IEEE 754 words in the
// byte order of its endian engine. Concentration parameters are stored this way so
// they round-trip bit-exactly.
type NumericRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*NumericRawEncoder)(nil)

// NewNumericRawEncoder creates a float64 encoder using engine's byte order.
func NewNumericRawEncoder(engine endian.EndianEngine) *NumericRawEncoder {
	return &NumericRawEncoder{
		engine: engine,
		buf:    pool.GetColumnBuffer(),
	}
}

// Write encodes a single value.
//
// Panics if Finish has been called.
func (e *NumericRawEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(8)
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(val))
}

// WriteSlice encodes values with a single buffer growth.
//
// Panics if Finish has been called.
func (e *NumericRawEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	e.count += len(values)
	e.buf.Grow(len(values) * 8)
	for _, v := range values {
		e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(v))
	}
}

// Bytes returns the encoded values. See ColumnarEncoder.Bytes.
func (e *NumericRawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *NumericRawEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes, always 8 * Len().
func (e *NumericRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *NumericRawEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.buf)
	e.buf = nil
	e.count = 0
}

// NumericRawDecoder decodes columns written by NumericRawEncoder.
type NumericRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = NumericRawDecoder{}

// NewNumericRawDecoder creates a decoder for engine's byte order.
func NewNumericRawDecoder(engine endian.EndianEngine) NumericRawDecoder {
	return NumericRawDecoder{engine: engine}
}

// Decode reads count float64 values from the front of data.
func (d NumericRawDecoder) Decode(data []byte, count int) ([]float64, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative value count %d", errs.ErrInvalidState, count)
	}

	need := count * 8
	if len(data) < need {
		return nil, 0, fmt.Errorf("%w: need %d bytes for %d values, have %d",
			errs.ErrTruncatedPayload, need, count, len(data))
	}

	values := make([]float64, count)
	for i := range values {
		values[i] = math.Float64frombits(d.engine.Uint64(data[i*8:]))
	}

	return values, need, nil
}
