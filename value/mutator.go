package value

import (
	"fmt"
	"unsafe"

	"github.com/arloliu/partab/errs"
)

// Mutator is a writable, runtime-typed view over caller-owned storage.
//
// Hyperparameter and sufficient-statistic lookups return Mutators bound to a single
// named field, so optimizers and slice samplers can perturb one value in place
// without a full serialize round trip. The zero Mutator is invalid.
type Mutator struct {
	data any
	typ  RuntimeType
}

// MutatorOf returns a vector view over s.
func MutatorOf[T Primitive](s []T) Mutator {
	return Mutator{data: s, typ: Vector(TypeOf[T](), len(s))}
}

// ScalarMutator returns a scalar view over *p.
func ScalarMutator[T Primitive](p *T) Mutator {
	// The one-element slice aliases *p, so writes land in the caller's variable.
	return Mutator{data: unsafe.Slice(p, 1), typ: Scalar(TypeOf[T]())}
}

// NewMutator builds a vector view over data, which must be a slice of one of the
// Primitive types.
func NewMutator(data any) (Mutator, error) {
	n, t, ok := describe(data)
	if !ok {
		return Mutator{}, fmt.Errorf("%w: %T", errs.ErrInvalidValueType, data)
	}

	return Mutator{data: data, typ: Vector(t, n)}, nil
}

// Valid reports whether m refers to storage.
func (m Mutator) Valid() bool { return m.data != nil }

// Type returns the runtime type of the view.
func (m Mutator) Type() RuntimeType { return m.typ }

// Shape returns the number of elements.
func (m Mutator) Shape() int { return m.typ.N() }

// SetBool writes v into element idx.
func (m Mutator) SetBool(idx int, v bool) { setBool(m.data, idx, v) }

// SetInt64 writes v into element idx.
func (m Mutator) SetInt64(idx int, v int64) { setInt64(m.data, idx, v) }

// SetUint64 writes v into element idx.
func (m Mutator) SetUint64(idx int, v uint64) { setUint64(m.data, idx, v) }

// SetFloat64 writes v into element idx.
func (m Mutator) SetFloat64(idx int, v float64) { setFloat64(m.data, idx, v) }

// Accessor returns an unmasked read view over the same storage.
func (m Mutator) Accessor() Accessor {
	return Accessor{data: m.data, typ: m.typ}
}

// String renders the current value for debugging.
func (m Mutator) String() string {
	return m.Accessor().String()
}
