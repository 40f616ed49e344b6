package value

// Tag-directed element access. Every helper switches on the concrete slice type
// behind a view, which is the safe equivalent of reinterpreting raw bytes through
// a runtime tag. An unsupported or nil backing store panics, as does an index
// outside the slice.

const invalidView = "value: use of invalid view"

func boolAt(data any, i int) bool {
	switch d := data.(type) {
	case []bool:
		return d[i]
	case []int8:
		return d[i] != 0
	case []uint8:
		return d[i] != 0
	case []int16:
		return d[i] != 0
	case []uint16:
		return d[i] != 0
	case []int32:
		return d[i] != 0
	case []uint32:
		return d[i] != 0
	case []int64:
		return d[i] != 0
	case []uint64:
		return d[i] != 0
	case []float32:
		return d[i] != 0
	case []float64:
		return d[i] != 0
	default:
		panic(invalidView)
	}
}

func int64At(data any, i int) int64 {
	switch d := data.(type) {
	case []bool:
		return boolToInt64(d[i])
	case []int8:
		return int64(d[i])
	case []uint8:
		return int64(d[i])
	case []int16:
		return int64(d[i])
	case []uint16:
		return int64(d[i])
	case []int32:
		return int64(d[i])
	case []uint32:
		return int64(d[i])
	case []int64:
		return d[i]
	case []uint64:
		return int64(d[i]) //nolint:gosec
	case []float32:
		return int64(d[i])
	case []float64:
		return int64(d[i])
	default:
		panic(invalidView)
	}
}

func uint64At(data any, i int) uint64 {
	switch d := data.(type) {
	case []bool:
		return uint64(boolToInt64(d[i]))
	case []int8:
		return uint64(d[i]) //nolint:gosec
	case []uint8:
		return uint64(d[i])
	case []int16:
		return uint64(d[i]) //nolint:gosec
	case []uint16:
		return uint64(d[i])
	case []int32:
		return uint64(d[i]) //nolint:gosec
	case []uint32:
		return uint64(d[i])
	case []int64:
		return uint64(d[i]) //nolint:gosec
	case []uint64:
		return d[i]
	case []float32:
		return uint64(d[i])
	case []float64:
		return uint64(d[i])
	default:
		panic(invalidView)
	}
}

func float64At(data any, i int) float64 {
	switch d := data.(type) {
	case []bool:
		return float64(boolToInt64(d[i]))
	case []int8:
		return float64(d[i])
	case []uint8:
		return float64(d[i])
	case []int16:
		return float64(d[i])
	case []uint16:
		return float64(d[i])
	case []int32:
		return float64(d[i])
	case []uint32:
		return float64(d[i])
	case []int64:
		return float64(d[i])
	case []uint64:
		return float64(d[i])
	case []float32:
		return float64(d[i])
	case []float64:
		return d[i]
	default:
		panic(invalidView)
	}
}

func setBool(data any, i int, v bool) {
	if d, ok := data.([]bool); ok {
		d[i] = v
		return
	}
	setInt64(data, i, boolToInt64(v))
}

//nolint:gosec
func setInt64(data any, i int, v int64) {
	switch d := data.(type) {
	case []bool:
		d[i] = v != 0
	case []int8:
		d[i] = int8(v)
	case []uint8:
		d[i] = uint8(v)
	case []int16:
		d[i] = int16(v)
	case []uint16:
		d[i] = uint16(v)
	case []int32:
		d[i] = int32(v)
	case []uint32:
		d[i] = uint32(v)
	case []int64:
		d[i] = v
	case []uint64:
		d[i] = uint64(v)
	case []float32:
		d[i] = float32(v)
	case []float64:
		d[i] = float64(v)
	default:
		panic(invalidView)
	}
}

//nolint:gosec
func setUint64(data any, i int, v uint64) {
	switch d := data.(type) {
	case []bool:
		d[i] = v != 0
	case []int8:
		d[i] = int8(v)
	case []uint8:
		d[i] = uint8(v)
	case []int16:
		d[i] = int16(v)
	case []uint16:
		d[i] = uint16(v)
	case []int32:
		d[i] = int32(v)
	case []uint32:
		d[i] = uint32(v)
	case []int64:
		d[i] = int64(v)
	case []uint64:
		d[i] = v
	case []float32:
		d[i] = float32(v)
	case []float64:
		d[i] = float64(v)
	default:
		panic(invalidView)
	}
}

func setFloat64(data any, i int, v float64) {
	switch d := data.(type) {
	case []bool:
		d[i] = v != 0
	case []int8:
		d[i] = int8(v)
	case []uint8:
		d[i] = uint8(v)
	case []int16:
		d[i] = int16(v)
	case []uint16:
		d[i] = uint16(v)
	case []int32:
		d[i] = int32(v)
	case []uint32:
		d[i] = uint32(v)
	case []int64:
		d[i] = int64(v)
	case []uint64:
		d[i] = uint64(v)
	case []float32:
		d[i] = float32(v)
	case []float64:
		d[i] = v
	default:
		panic(invalidView)
	}
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

// Get reads element idx of a as T, converting from the stored type when they differ.
func Get[T Readable](a Accessor, idx int) T {
	if s, ok := a.data.([]T); ok {
		return s[idx]
	}

	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = boolAt(a.data, idx)
	case *int8:
		*p = int8(int64At(a.data, idx)) //nolint:gosec
	case *int16:
		*p = int16(int64At(a.data, idx)) //nolint:gosec
	case *int32:
		*p = int32(int64At(a.data, idx)) //nolint:gosec
	case *int64:
		*p = int64At(a.data, idx)
	case *int:
		*p = int(int64At(a.data, idx))
	case *uint8:
		*p = uint8(uint64At(a.data, idx)) //nolint:gosec
	case *uint16:
		*p = uint16(uint64At(a.data, idx)) //nolint:gosec
	case *uint32:
		*p = uint32(uint64At(a.data, idx)) //nolint:gosec
	case *uint64:
		*p = uint64At(a.data, idx)
	case *uint:
		*p = uint(uint64At(a.data, idx))
	case *float32:
		*p = float32(float64At(a.data, idx))
	case *float64:
		*p = float64At(a.data, idx)
	}

	return out
}

// Set writes v into element idx of m, converting to the stored type when they differ.
func Set[T Readable](m Mutator, idx int, v T) {
	if s, ok := m.data.([]T); ok {
		s[idx] = v
		return
	}

	switch x := any(v).(type) {
	case bool:
		setBool(m.data, idx, x)
	case int8:
		setInt64(m.data, idx, int64(x))
	case int16:
		setInt64(m.data, idx, int64(x))
	case int32:
		setInt64(m.data, idx, int64(x))
	case int64:
		setInt64(m.data, idx, x)
	case int:
		setInt64(m.data, idx, int64(x))
	case uint8:
		setUint64(m.data, idx, uint64(x))
	case uint16:
		setUint64(m.data, idx, uint64(x))
	case uint32:
		setUint64(m.data, idx, uint64(x))
	case uint64:
		setUint64(m.data, idx, x)
	case uint:
		setUint64(m.data, idx, uint64(x))
	case float32:
		setFloat64(m.data, idx, float64(x))
	case float64:
		setFloat64(m.data, idx, x)
	}
}
