package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/format"
)

// StateHeader represents the fixed-size header at the start of a serialized state blob.
type StateHeader struct {
	// Flag is a packed field for options, magic number, kind and compression.
	Flag StateFlag // byte offset 0-3
	// EntityCount is the population size n, 0 for hyperparameter blobs.
	EntityCount uint32 // byte offset 4-7
	// GroupCount is the number of serialized groups (active groups for tables, K for fixed tables).
	GroupCount uint32 // byte offset 8-11
	// BodyLength is the stored (possibly compressed) body length in bytes.
	BodyLength uint32 // byte offset 12-15
	// Checksum is the xxHash64 of the stored body.
	Checksum uint64 // byte offset 16-23
}

// NewStateHeader creates a header for kind with little-endian, uncompressed defaults.
// Counts, body length and checksum are set by the encoder once the body is built.
func NewStateHeader(kind format.StateKind) *StateHeader {
	return &StateHeader{
		Flag: NewStateFlag(kind),
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly HeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not HeaderSize bytes, or flag validation errors
func (h *StateHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	// Options is always little-endian so the endianness bit can be read before the engine is known
	h.Flag.Options = binary.LittleEndian.Uint16(data[0:2])
	h.Flag.Kind = data[2]
	h.Flag.Compression = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.EntityCount = engine.Uint32(data[4:8])
	h.GroupCount = engine.Uint32(data[8:12])
	h.BodyLength = engine.Uint32(data[12:16])
	h.Checksum = engine.Uint64(data[16:24])

	return nil
}

// Bytes serializes the StateHeader into a byte slice.
func (h *StateHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	binary.LittleEndian.PutUint16(b[0:2], h.Flag.Options)
	b[2] = h.Flag.Kind
	b[3] = h.Flag.Compression
	engine.PutUint32(b[4:8], h.EntityCount)
	engine.PutUint32(b[8:12], h.GroupCount)
	engine.PutUint32(b[12:16], h.BodyLength)
	engine.PutUint64(b[16:24], h.Checksum)

	return b
}

// ParseStateHeader parses a StateHeader from the front of data.
//
// Returns:
//   - StateHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseStateHeader(data []byte) (StateHeader, error) {
	if len(data) < HeaderSize {
		return StateHeader{}, fmt.Errorf("%w: got %d bytes, want at least %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	h := StateHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return StateHeader{}, err
	}

	return h, nil
}

// PeekKind returns the state kind recorded in a blob's header without touching its body.
func PeekKind(data []byte) (format.StateKind, error) {
	h, err := ParseStateHeader(data)
	if err != nil {
		return 0, err
	}

	return h.Flag.StateKind(), nil
}
