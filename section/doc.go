// Package section defines the low-level binary structures and constants for partab's
// serialized state blobs.
//
// # Blob Structure
//
// Every blob is a fixed-size header followed by a single body:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (24 bytes, fixed)                                │
//	│  - Flag (4 bytes): options/magic, kind, compression     │
//	│  - EntityCount (4 bytes)                                │
//	│  - GroupCount (4 bytes)                                 │
//	│  - BodyLength (4 bytes)                                 │
//	│  - Checksum (8 bytes): xxHash64 of the stored body      │
//	├─────────────────────────────────────────────────────────┤
//	│ Body (BodyLength bytes, optionally compressed)          │
//	└─────────────────────────────────────────────────────────┘
//
// The Options field of the flag is always little-endian; its endianness bit selects
// the byte order of every other header field and of the body's fixed-width columns.
//
// # Header Validation
//
// Parse rejects a header whose magic number is not MagicStateV1Opt, whose reserved bits
// are set, or whose kind or compression is unknown. Body-level checks (checksum,
// column lengths) belong to the table codec.
//
// # Peeking
//
// PeekKind reads only the header, so tools can dispatch on a blob without decoding it:
//
//	kind, err := section.PeekKind(data)
//	if err != nil {
//	    return err
//	}
//	switch kind {
//	case format.KindTable:
//	    // table.DecodeTable(...)
//	case format.KindFixedTable:
//	    // table.DecodeFixedTable(...)
//	}
package section
