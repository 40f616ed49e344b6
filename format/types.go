package format

type (
	StateKind       uint8
	CompressionType uint8
)

const (
	KindTable           StateKind = 0x1 // KindTable is a full unbounded (CRP) table state.
	KindFixedTable      StateKind = 0x2 // KindFixedTable is a full fixed-K table state.
	KindTableHyper      StateKind = 0x3 // KindTableHyper holds only the CRP concentration parameter.
	KindFixedTableHyper StateKind = 0x4 // KindFixedTableHyper holds only the K Dirichlet weights.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k StateKind) String() string {
	switch k {
	case KindTable:
		return "Table"
	case KindFixedTable:
		return "FixedTable"
	case KindTableHyper:
		return "TableHyper"
	case KindFixedTableHyper:
		return "FixedTableHyper"
	default:
		return "Unknown"
	}
}

// IsValid reports whether k is one of the defined state kinds.
func (k StateKind) IsValid() bool {
	return k >= KindTable && k <= KindFixedTableHyper
}

// IsHyper reports whether k describes a hyperparameter-only blob.
func (k StateKind) IsHyper() bool {
	return k == KindTableHyper || k == KindFixedTableHyper
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is one of the defined compression types.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseCompression maps a case-sensitive lower-case name ("none", "zstd", "s2", "lz4")
// to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
