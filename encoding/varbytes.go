package encoding

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/internal/pool"
)

// VarBytesEncoder encodes opaque byte payloads, each prefixed with its length as
// an unsigned varint:
//
//   - uvarint: payload length
//   - N bytes: payload
//
// Group aggregates are serialized this way; the encoder never looks inside a payload.
type VarBytesEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnarEncoder[[]byte] = (*VarBytesEncoder)(nil)

// NewVarBytesEncoder creates a length-prefixed payload encoder.
func NewVarBytesEncoder() *VarBytesEncoder {
	return &VarBytesEncoder{buf: pool.GetColumnBuffer()}
}

// Write encodes a single payload. A nil payload encodes as zero length.
func (e *VarBytesEncoder) Write(payload []byte) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(binary.MaxVarintLen64 + len(payload))
	e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(payload)))
	e.buf.MustWrite(payload)
}

// WriteSlice encodes payloads with a single buffer growth.
func (e *VarBytesEncoder) WriteSlice(payloads [][]byte) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	total := 0
	for _, p := range payloads {
		total += binary.MaxVarintLen64 + len(p)
	}
	e.buf.Grow(total)

	for _, p := range payloads {
		e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(p)))
		e.buf.MustWrite(p)
	}
	e.count += len(payloads)
}

// Bytes returns the encoded payloads. See ColumnarEncoder.Bytes.
func (e *VarBytesEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded payloads.
func (e *VarBytesEncoder) Len() int { return e.count }

// Size returns the encoded size in bytes including length prefixes.
func (e *VarBytesEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *VarBytesEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.buf)
	e.buf = nil
	e.count = 0
}

// VarBytesDecoder decodes columns written by VarBytesEncoder.
type VarBytesDecoder struct{}

var _ ColumnarDecoder[[]byte] = VarBytesDecoder{}

// Decode reads count payloads from the front of data. Each returned payload is a
// copy, so it stays valid after data is reused.
func (VarBytesDecoder) Decode(data []byte, count int) ([][]byte, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative payload count %d", errs.ErrInvalidState, count)
	}
	if count > len(data) {
		return nil, 0, fmt.Errorf("%w: %d payloads cannot fit in %d bytes", errs.ErrTruncatedPayload, count, len(data))
	}

	payloads := make([][]byte, count)
	off := 0
	for i := range payloads {
		size, n := binary.Uvarint(data[off:])
		if n <= 0 {
			return nil, 0, fmt.Errorf("%w: malformed length prefix for payload %d", errs.ErrTruncatedPayload, i)
		}
		off += n
		if size > uint64(len(data)-off) {
			return nil, 0, fmt.Errorf("%w: payload %d needs %d bytes, have %d",
				errs.ErrTruncatedPayload, i, size, len(data)-off)
		}
		end := off + int(size) //nolint:gosec
		payloads[i] = bytes.Clone(data[off:end])
		if payloads[i] == nil {
			payloads[i] = []byte{}
		}
		off = end
	}

	return payloads, off, nil
}
