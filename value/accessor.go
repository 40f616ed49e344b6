package value

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/arloliu/partab/errs"
)

// Accessor is a read-only, runtime-typed view over caller-owned storage.
//
// An optional mask parallel to the elements marks missing values; a nil mask means
// nothing is masked. The zero Accessor is invalid and panics on element access.
type Accessor struct {
	data any
	mask []bool
	typ  RuntimeType
}

// AccessorOf returns a vector view over s. mask may be nil; otherwise it must have
// the same length as s.
func AccessorOf[T Primitive](s []T, mask []bool) Accessor {
	if mask != nil && len(mask) != len(s) {
		panic(fmt.Sprintf("value: mask length %d does not match %d elements", len(mask), len(s)))
	}

	return Accessor{data: s, mask: mask, typ: Vector(TypeOf[T](), len(s))}
}

// ScalarAccessor returns a scalar view over *p.
func ScalarAccessor[T Primitive](p *T) Accessor {
	// The one-element slice aliases *p, so reads see later writes through p.
	return Accessor{data: unsafe.Slice(p, 1), typ: Scalar(TypeOf[T]())}
}

// NewAccessor builds a vector view over data, which must be a slice of one of the
// Primitive types. It is the entry point for storage whose element type is only
// known at run time.
func NewAccessor(data any, mask []bool) (Accessor, error) {
	n, t, ok := describe(data)
	if !ok {
		return Accessor{}, fmt.Errorf("%w: %T", errs.ErrInvalidValueType, data)
	}
	if mask != nil && len(mask) != n {
		return Accessor{}, fmt.Errorf("%w: mask length %d for %d elements", errs.ErrInvalidValueType, len(mask), n)
	}

	return Accessor{data: data, mask: mask, typ: Vector(t, n)}, nil
}

// Valid reports whether a refers to storage.
func (a Accessor) Valid() bool { return a.data != nil }

// Type returns the runtime type of the view.
func (a Accessor) Type() RuntimeType { return a.typ }

// Shape returns the number of elements.
func (a Accessor) Shape() int { return a.typ.N() }

// IsMasked reports whether element idx is a missing value.
func (a Accessor) IsMasked(idx int) bool {
	if a.mask == nil {
		return false
	}

	return a.mask[idx]
}

// AnyMasked reports whether any element is a missing value.
func (a Accessor) AnyMasked() bool {
	for _, m := range a.mask {
		if m {
			return true
		}
	}

	return false
}

// Bool reads element idx as a bool; numeric values are true when non-zero.
func (a Accessor) Bool(idx int) bool { return boolAt(a.data, idx) }

// Int64 reads element idx as an int64.
func (a Accessor) Int64(idx int) int64 { return int64At(a.data, idx) }

// Uint64 reads element idx as a uint64.
func (a Accessor) Uint64(idx int) uint64 { return uint64At(a.data, idx) }

// Float64 reads element idx as a float64.
func (a Accessor) Float64(idx int) float64 { return float64At(a.data, idx) }

// String renders the value for debugging. Masked elements print as "--" and
// vectors print as "[a, b, c]".
func (a Accessor) String() string {
	if !a.Valid() {
		return "<invalid>"
	}
	if !a.typ.IsVector() {
		return a.elementString(0)
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i := range a.Shape() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.elementString(i))
	}
	sb.WriteByte(']')

	return sb.String()
}

func (a Accessor) elementString(idx int) string {
	if a.IsMasked(idx) {
		return "--"
	}

	switch a.typ.Type() {
	case TypeBool:
		return strconv.FormatBool(a.Bool(idx))
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return strconv.FormatUint(a.Uint64(idx), 10)
	case TypeFloat32:
		return strconv.FormatFloat(a.Float64(idx), 'g', -1, 32)
	case TypeFloat64:
		return strconv.FormatFloat(a.Float64(idx), 'g', -1, 64)
	default:
		return strconv.FormatInt(a.Int64(idx), 10)
	}
}

func describe(data any) (int, PrimitiveType, bool) {
	switch d := data.(type) {
	case []bool:
		return len(d), TypeBool, true
	case []int8:
		return len(d), TypeInt8, true
	case []uint8:
		return len(d), TypeUint8, true
	case []int16:
		return len(d), TypeInt16, true
	case []uint16:
		return len(d), TypeUint16, true
	case []int32:
		return len(d), TypeInt32, true
	case []uint32:
		return len(d), TypeUint32, true
	case []int64:
		return len(d), TypeInt64, true
	case []uint64:
		return len(d), TypeUint64, true
	case []float32:
		return len(d), TypeFloat32, true
	case []float64:
		return len(d), TypeFloat64, true
	default:
		return 0, 0, false
	}
}
