package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/partab/errs"
)

func TestPrimitiveType(t *testing.T) {
	tests := []struct {
		typ  PrimitiveType
		size int
		name string
	}{
		{TypeBool, 1, "bool"},
		{TypeInt8, 1, "i8"},
		{TypeUint8, 1, "u8"},
		{TypeInt16, 2, "i16"},
		{TypeUint16, 2, "u16"},
		{TypeInt32, 4, "i32"},
		{TypeUint32, 4, "u32"},
		{TypeInt64, 8, "i64"},
		{TypeUint64, 8, "u64"},
		{TypeFloat32, 4, "f32"},
		{TypeFloat64, 8, "f64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.typ.IsValid())
			require.Equal(t, tt.size, tt.typ.Size())
			require.Equal(t, tt.name, tt.typ.String())
		})
	}

	require.False(t, PrimitiveType(0).IsValid())
	require.Equal(t, 0, PrimitiveType(42).Size())
	require.Equal(t, "invalid", PrimitiveType(42).String())
}

func TestTypeOf(t *testing.T) {
	require.Equal(t, TypeBool, TypeOf[bool]())
	require.Equal(t, TypeUint16, TypeOf[uint16]())
	require.Equal(t, TypeInt64, TypeOf[int64]())
	require.Equal(t, TypeFloat32, TypeOf[float32]())
	require.Equal(t, TypeFloat64, TypeOf[float64]())
}

func TestRuntimeType(t *testing.T) {
	s := Scalar(TypeFloat32)
	require.Equal(t, TypeFloat32, s.Type())
	require.Equal(t, 1, s.N())
	require.Equal(t, 4, s.Size())
	require.False(t, s.IsVector())
	require.Equal(t, "f32", s.String())
	require.NoError(t, s.Validate())

	v := Vector(TypeInt16, 3)
	require.Equal(t, 3, v.N())
	require.Equal(t, 6, v.Size())
	require.True(t, v.IsVector())
	require.Equal(t, "i16[3]", v.String())

	require.False(t, Vector(TypeFloat32, 1).Equal(s), "a one-element vector is not a scalar")
	require.True(t, Vector(TypeInt16, 3).Equal(v))

	require.ErrorIs(t, RuntimeType{}.Validate(), errs.ErrInvalidValueType)
	require.ErrorIs(t, Vector(TypeBool, -1).Validate(), errs.ErrInvalidValueType)
}

func TestLayout(t *testing.T) {
	offsets, rowSize, maskRowSize := Layout([]RuntimeType{
		Scalar(TypeBool),
		Vector(TypeFloat64, 3),
		Scalar(TypeInt32),
	})

	require.Equal(t, []int{0, 1, 25}, offsets)
	require.Equal(t, 29, rowSize)
	require.Equal(t, 5, maskRowSize)

	offsets, rowSize, maskRowSize = Layout(nil)
	require.Empty(t, offsets)
	require.Zero(t, rowSize)
	require.Zero(t, maskRowSize)
}

func TestAccessor_SameTypeRead(t *testing.T) {
	data := []float32{1.5, -2.25, 3}
	a := AccessorOf(data, nil)

	require.True(t, a.Valid())
	require.Equal(t, Vector(TypeFloat32, 3), a.Type())
	require.Equal(t, 3, a.Shape())
	require.Equal(t, float32(-2.25), Get[float32](a, 1))
	require.False(t, a.IsMasked(0))
	require.False(t, a.AnyMasked())
}

func TestAccessor_CrossTypeRead(t *testing.T) {
	t.Run("float to int truncates", func(t *testing.T) {
		a := AccessorOf([]float64{2.9, -2.9}, nil)
		require.Equal(t, int32(2), Get[int32](a, 0))
		require.Equal(t, int64(-2), Get[int64](a, 1))
		require.Equal(t, 2, Get[int](a, 0))
	})

	t.Run("int widens to float", func(t *testing.T) {
		a := AccessorOf([]int16{-7}, nil)
		require.Equal(t, -7.0, Get[float64](a, 0))
		require.Equal(t, float32(-7), Get[float32](a, 0))
	})

	t.Run("narrowing wraps", func(t *testing.T) {
		a := AccessorOf([]int32{300}, nil)
		require.Equal(t, uint8(44), Get[uint8](a, 0))
		require.Equal(t, int8(44), Get[int8](a, 0))
	})

	t.Run("bool conversions", func(t *testing.T) {
		b := AccessorOf([]bool{true, false}, nil)
		require.Equal(t, 1.0, Get[float64](b, 0))
		require.Equal(t, uint64(0), Get[uint64](b, 1))

		n := AccessorOf([]uint8{0, 5}, nil)
		require.False(t, Get[bool](n, 0))
		require.True(t, Get[bool](n, 1))
	})

	t.Run("uint64 keeps precision", func(t *testing.T) {
		a := AccessorOf([]uint64{math.MaxUint64}, nil)
		require.Equal(t, uint64(math.MaxUint64), Get[uint64](a, 0))
		require.Equal(t, uint64(math.MaxUint64), a.Uint64(0))
	})
}

func TestAccessor_Mask(t *testing.T) {
	a := AccessorOf([]int64{1, 2, 3}, []bool{false, true, false})

	require.False(t, a.IsMasked(0))
	require.True(t, a.IsMasked(1))
	require.True(t, a.AnyMasked())
	require.Equal(t, "[1, --, 3]", a.String())

	require.Panics(t, func() { AccessorOf([]int64{1, 2}, []bool{true}) })
}

func TestAccessor_OutOfRangePanics(t *testing.T) {
	a := AccessorOf([]float64{1}, nil)
	require.Panics(t, func() { Get[float64](a, 1) })
	require.Panics(t, func() { a.Int64(-1) })
}

func TestAccessor_ZeroValue(t *testing.T) {
	var a Accessor
	require.False(t, a.Valid())
	require.Equal(t, "<invalid>", a.String())
	require.Panics(t, func() { a.Float64(0) })
}

func TestScalarViews(t *testing.T) {
	var alpha float64 = 1.0
	m := ScalarMutator(&alpha)

	require.Equal(t, Scalar(TypeFloat64), m.Type())
	require.Equal(t, 1, m.Shape())

	Set(m, 0, float32(2.5))
	require.Equal(t, 2.5, alpha)

	Set(m, 0, 3)
	require.Equal(t, 3.0, alpha)
	require.Equal(t, 3, Get[int](m.Accessor(), 0))

	a := ScalarAccessor(&alpha)
	alpha = 0.75
	require.Equal(t, 0.75, a.Float64(0))
	require.Equal(t, "0.75", m.String())
}

func TestMutator_CrossTypeWrite(t *testing.T) {
	t.Run("float into float32 storage", func(t *testing.T) {
		data := []float32{0, 0}
		m := MutatorOf(data)
		Set(m, 1, 0.5)
		m.SetFloat64(0, 1.25)
		require.Equal(t, []float32{1.25, 0.5}, data)
	})

	t.Run("int into uint8 storage wraps", func(t *testing.T) {
		data := []uint8{0}
		MutatorOf(data).SetInt64(0, 257)
		require.Equal(t, uint8(1), data[0])
	})

	t.Run("bool into int storage", func(t *testing.T) {
		data := []int32{0, 9}
		m := MutatorOf(data)
		Set(m, 0, true)
		m.SetBool(1, false)
		require.Equal(t, []int32{1, 0}, data)
	})

	t.Run("numeric into bool storage", func(t *testing.T) {
		data := []bool{false, true}
		m := MutatorOf(data)
		m.SetUint64(0, 3)
		Set(m, 1, 0.0)
		require.Equal(t, []bool{true, false}, data)
	})

	t.Run("accessor observes writes", func(t *testing.T) {
		data := []int64{1, 2, 3}
		m := MutatorOf(data)
		a := m.Accessor()
		Set(m, 2, int64(30))
		require.Equal(t, int64(30), a.Int64(2))
		require.Equal(t, "[1, 2, 30]", a.String())
	})
}

func TestNewAccessorAndMutator(t *testing.T) {
	a, err := NewAccessor([]uint32{4, 5}, []bool{true, false})
	require.NoError(t, err)
	require.Equal(t, Vector(TypeUint32, 2), a.Type())
	require.Equal(t, "[--, 5]", a.String())

	_, err = NewAccessor([]string{"x"}, nil)
	require.ErrorIs(t, err, errs.ErrInvalidValueType)

	_, err = NewAccessor([]int8{1}, []bool{true, true})
	require.ErrorIs(t, err, errs.ErrInvalidValueType)

	data := []float64{0}
	m, err := NewMutator(data)
	require.NoError(t, err)
	m.SetFloat64(0, 9)
	require.Equal(t, 9.0, data[0])

	_, err = NewMutator(map[string]int{})
	require.ErrorIs(t, err, errs.ErrInvalidValueType)
}

func TestAccessor_String(t *testing.T) {
	tests := []struct {
		name string
		acc  Accessor
		want string
	}{
		{"bool scalar", ScalarAccessor(ptr(true)), "true"},
		{"int scalar", ScalarAccessor(ptr(int8(-3))), "-3"},
		{"uint vector", AccessorOf([]uint16{1, 65535}, nil), "[1, 65535]"},
		{"float32 vector", AccessorOf([]float32{0.1, 2}, nil), "[0.1, 2]"},
		{"empty vector", AccessorOf([]float64{}, nil), "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.acc.String())
		})
	}
}

func ptr[T any](v T) *T { return &v }
