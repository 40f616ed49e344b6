package section

import (
	"fmt"

	"github.com/arloliu/partab/endian"
	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/format"
)

// StateFlag represents the packed flag field at the start of every state header.
type StateFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is reserved, must be set to 0.
	// Bit 1 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 2-3 are reserved for future use, must be set to 0.
	// Bit 4-15 are magic number to identify the blob format:
	//   - 0xC5A0 (0b1100_0101_1010_0000): partition state format v1
	Options uint16

	// Kind is the format.StateKind of the body.
	Kind uint8
	// Compression is the format.CompressionType applied to the body.
	Compression uint8
}

// NewStateFlag creates a little-endian, uncompressed flag for kind.
func NewStateFlag(kind format.StateKind) StateFlag {
	flag := StateFlag{
		Options:     MagicStateV1Opt,
		Kind:        uint8(kind),
		Compression: uint8(format.CompressionNone),
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the body is little-endian.
func (f StateFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the body is big-endian.
func (f StateFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *StateFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *StateFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f StateFlag) GetEndianEngine() endian.EndianEngine {
	return endian.Select(f.IsBigEndian())
}

// GetMagicNumber returns the magic number from the Options field.
func (f StateFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// StateKind returns the kind of the body.
func (f StateFlag) StateKind() format.StateKind {
	return format.StateKind(f.Kind)
}

// CompressionType returns the compression applied to the body.
func (f StateFlag) CompressionType() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// SetCompression sets the body compression.
func (f *StateFlag) SetCompression(compression format.CompressionType) {
	f.Compression = uint8(compression)
}

// IsValidMagicNumber checks if the magic number is valid.
func (f StateFlag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicStateV1Opt
}

// Validate checks if the flag contains valid values.
func (f StateFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return fmt.Errorf("%w: got 0x%04x", errs.ErrInvalidMagicNumber, f.GetMagicNumber())
	}

	if f.Options&(ReservedLowMask|ReservedBitsMask) != 0 {
		return fmt.Errorf("%w: reserved option bits set (0x%04x)", errs.ErrInvalidHeaderFlags, f.Options)
	}

	if !f.StateKind().IsValid() {
		return fmt.Errorf("%w: unknown state kind %d", errs.ErrInvalidHeaderFlags, f.Kind)
	}

	if !f.CompressionType().IsValid() {
		return fmt.Errorf("%w: unknown compression %d", errs.ErrInvalidHeaderFlags, f.Compression)
	}

	return nil
}
