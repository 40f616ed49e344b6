package section

const (
	// Bit masks
	ReservedLowMask  = 0x0001 // Mask for reserved bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic numbers (bits 4-15)
	MagicStateV1Opt = 0xC5A0 // MagicStateV1Opt is the version 1 magic number for partition state blobs.
)

// offset and section sizes in the state blob
const (
	HeaderSize = 24         // fixed header size in bytes (shared by all state kinds)
	BodyOffset = HeaderSize // byte offset where the (possibly compressed) body starts
)
