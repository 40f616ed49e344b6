package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/partab/endian"
	"github.com/arloliu/partab/errs"
)

func TestNumericRawEncoder_NewEncoder(t *testing.T) {
	encoder := NewNumericRawEncoder(endian.GetLittleEndianEngine())
	defer encoder.Finish()

	require.NotNil(t, encoder)
	require.Equal(t, 0, encoder.Len())
	require.Equal(t, 0, encoder.Size())
	require.Empty(t, encoder.Bytes())
}

func TestNumericRawEncoder_WriteAndDecode(t *testing.T) {
	values := []float64{1.0, 0.5, 1e-300, math.MaxFloat64, math.SmallestNonzeroFloat64}

	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		encoder := NewNumericRawEncoder(engine)

		encoder.Write(values[0])
		encoder.WriteSlice(values[1:])

		require.Equal(t, len(values), encoder.Len())
		require.Equal(t, len(values)*8, encoder.Size())

		data := append([]byte(nil), encoder.Bytes()...)
		encoder.Finish()

		decoded, n, err := NewNumericRawDecoder(engine).Decode(data, len(values))
		require.NoError(t, err)
		require.Equal(t, len(data), n)
		for i := range values {
			require.Equal(t, math.Float64bits(values[i]), math.Float64bits(decoded[i]), "value %d must round-trip bit-exactly", i)
		}
	}
}

func TestNumericRawEncoder_ByteOrder(t *testing.T) {
	le := NewNumericRawEncoder(endian.GetLittleEndianEngine())
	defer le.Finish()
	be := NewNumericRawEncoder(endian.GetBigEndianEngine())
	defer be.Finish()

	le.Write(1.0)
	be.Write(1.0)

	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, le.Bytes())
	require.Equal(t, []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}, be.Bytes())
}

func TestNumericRawEncoder_WriteSliceEmpty(t *testing.T) {
	encoder := NewNumericRawEncoder(endian.GetLittleEndianEngine())
	defer encoder.Finish()

	encoder.WriteSlice(nil)
	require.Equal(t, 0, encoder.Len())
	require.Equal(t, 0, encoder.Size())
}

func TestNumericRawEncoder_UseAfterFinishPanics(t *testing.T) {
	encoder := NewNumericRawEncoder(endian.GetLittleEndianEngine())
	encoder.Finish()
	encoder.Finish() // idempotent

	require.Panics(t, func() { encoder.Write(1) })
	require.Panics(t, func() { encoder.WriteSlice([]float64{1}) })
	require.Panics(t, func() { encoder.Bytes() })
	require.Panics(t, func() { encoder.Size() })
}

func TestNumericRawDecoder_Truncated(t *testing.T) {
	decoder := NewNumericRawDecoder(endian.GetLittleEndianEngine())

	_, _, err := decoder.Decode(make([]byte, 15), 2)
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)

	_, _, err = decoder.Decode(nil, -1)
	require.ErrorIs(t, err, errs.ErrInvalidState)

	values, n, err := decoder.Decode(nil, 0)
	require.NoError(t, err)
	require.Empty(t, values)
	require.Zero(t, n)
}

func TestNumericRawDecoder_ConsumesOnlyCount(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	encoder := NewNumericRawEncoder(engine)
	defer encoder.Finish()

	encoder.WriteSlice([]float64{2, 3, 4})
	data := append([]byte(nil), encoder.Bytes()...)

	values, n, err := NewNumericRawDecoder(engine).Decode(data, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 3}, values)
	require.Equal(t, 16, n)
}
