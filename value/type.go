// Package value implements runtime-typed views over caller-owned scalars and
// fixed-length vectors of primitive numeric types.
//
// A RuntimeType pairs a PrimitiveType tag with an element count. An Accessor is a
// read-only view over storage of that type (plus an optional missing-value mask);
// a Mutator adds writes. Reads and writes are tag-directed: a caller may read an
// int32 field as float64, or write a float64 into a float32 field, and the value is
// converted with ordinary Go conversion rules (deliberate narrowing or widening).
//
// Views borrow the caller's memory without copying it:
//
//	var alpha float64 = 1.0
//	m := value.ScalarMutator(&alpha)
//	value.Set(m, 0, float32(2.5))   // alpha == 2.5
//	x := value.Get[int](m.Accessor(), 0) // x == 2
//
// The borrowed storage must stay valid and must not be mutated concurrently while a
// view is in use. Views never take ownership.
package value

import (
	"strconv"

	"github.com/arloliu/partab/errs"
)

// PrimitiveType tags the element type of a runtime-typed value.
type PrimitiveType uint8

const (
	TypeBool PrimitiveType = iota + 1
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
)

var primitiveSizes = [...]int{
	TypeBool:    1,
	TypeInt8:    1,
	TypeUint8:   1,
	TypeInt16:   2,
	TypeUint16:  2,
	TypeInt32:   4,
	TypeUint32:  4,
	TypeInt64:   8,
	TypeUint64:  8,
	TypeFloat32: 4,
	TypeFloat64: 8,
}

var primitiveNames = [...]string{
	TypeBool:    "bool",
	TypeInt8:    "i8",
	TypeUint8:   "u8",
	TypeInt16:   "i16",
	TypeUint16:  "u16",
	TypeInt32:   "i32",
	TypeUint32:  "u32",
	TypeInt64:   "i64",
	TypeUint64:  "u64",
	TypeFloat32: "f32",
	TypeFloat64: "f64",
}

// IsValid reports whether t is a defined primitive tag.
func (t PrimitiveType) IsValid() bool {
	return t >= TypeBool && t <= TypeFloat64
}

// Size returns the in-memory size of one element in bytes, or 0 for an invalid tag.
func (t PrimitiveType) Size() int {
	if !t.IsValid() {
		return 0
	}

	return primitiveSizes[t]
}

func (t PrimitiveType) String() string {
	if !t.IsValid() {
		return "invalid"
	}

	return primitiveNames[t]
}

// Primitive is the set of Go types a runtime-typed value can hold.
type Primitive interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// Readable is the set of Go types Get and Set convert to and from.
// Platform-sized int and uint are accepted in addition to the storable primitives.
type Readable interface {
	Primitive | int | uint
}

// TypeOf returns the primitive tag for T.
func TypeOf[T Primitive]() PrimitiveType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return TypeBool
	case int8:
		return TypeInt8
	case uint8:
		return TypeUint8
	case int16:
		return TypeInt16
	case uint16:
		return TypeUint16
	case int32:
		return TypeInt32
	case uint32:
		return TypeUint32
	case int64:
		return TypeInt64
	case uint64:
		return TypeUint64
	case float32:
		return TypeFloat32
	default:
		return TypeFloat64
	}
}

// RuntimeType describes a scalar or fixed-length vector of one primitive type.
type RuntimeType struct {
	t   PrimitiveType
	n   int
	vec bool
}

// Scalar returns the runtime type of a single element of t.
func Scalar(t PrimitiveType) RuntimeType {
	return RuntimeType{t: t, n: 1}
}

// Vector returns the runtime type of an n-element vector of t.
func Vector(t PrimitiveType, n int) RuntimeType {
	return RuntimeType{t: t, n: n, vec: true}
}

// Type returns the element tag.
func (rt RuntimeType) Type() PrimitiveType { return rt.t }

// N returns the number of elements.
func (rt RuntimeType) N() int { return rt.n }

// IsVector reports whether rt was declared as a vector, even a one-element one.
func (rt RuntimeType) IsVector() bool { return rt.vec }

// Size returns n times the element size in bytes.
func (rt RuntimeType) Size() int { return rt.n * rt.t.Size() }

// Equal reports whether both types have the same tag, count, and shape.
func (rt RuntimeType) Equal(other RuntimeType) bool {
	return rt == other
}

func (rt RuntimeType) String() string {
	if !rt.vec {
		return rt.t.String()
	}

	return rt.t.String() + "[" + strconv.Itoa(rt.n) + "]"
}

// Validate returns an error wrapping errs.ErrInvalidValueType when the tag is
// undefined or the element count is negative (or not one, for a scalar).
func (rt RuntimeType) Validate() error {
	switch {
	case !rt.t.IsValid():
		return errs.ErrInvalidValueType
	case rt.n < 0, !rt.vec && rt.n != 1:
		return errs.ErrInvalidValueType
	}

	return nil
}

// Layout computes the packed row layout for a sequence of fields: the byte offset
// of each field, the total row size in bytes, and the number of mask slots a row
// needs (one per element).
func Layout(types []RuntimeType) (offsets []int, rowSize int, maskRowSize int) {
	offsets = make([]int, 0, len(types))
	for _, t := range types {
		offsets = append(offsets, rowSize)
		rowSize += t.Size()
		maskRowSize += t.N()
	}

	return offsets, rowSize, maskRowSize
}
