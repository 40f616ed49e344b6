package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/partab/errs"
)

func TestVarintEncoder_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		size   int
	}{
		{"empty", nil, 0},
		{"unassigned sentinel", []int64{-1, -1, -1}, 3},
		{"small ids", []int64{0, 1, 2, 63}, 4},
		{"two byte ids", []int64{64, -65}, 4},
		{"extremes", []int64{math.MaxInt64, math.MinInt64}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder := NewVarintEncoder()
			defer encoder.Finish()

			encoder.WriteSlice(tt.values)
			require.Equal(t, len(tt.values), encoder.Len())
			require.Equal(t, tt.size, encoder.Size())

			decoded, n, err := VarintDecoder{}.Decode(encoder.Bytes(), len(tt.values))
			require.NoError(t, err)
			require.Equal(t, tt.size, n)
			require.Len(t, decoded, len(tt.values))
			for i := range tt.values {
				require.Equal(t, tt.values[i], decoded[i])
			}
		})
	}
}

func TestVarintEncoder_WriteMatchesWriteSlice(t *testing.T) {
	values := []int64{5, -1, 300, 0}

	single := NewVarintEncoder()
	defer single.Finish()
	for _, v := range values {
		single.Write(v)
	}

	bulk := NewVarintEncoder()
	defer bulk.Finish()
	bulk.WriteSlice(values)

	require.Equal(t, bulk.Bytes(), single.Bytes())
	require.Equal(t, bulk.Len(), single.Len())
}

func TestVarintDecoder_Errors(t *testing.T) {
	_, _, err := VarintDecoder{}.Decode([]byte{0x02}, 2)
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)

	// continuation bit set on the final byte
	_, _, err = VarintDecoder{}.Decode([]byte{0x02, 0x80}, 2)
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)

	_, _, err = VarintDecoder{}.Decode(nil, -3)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestUvarintEncoder_RoundTrip(t *testing.T) {
	values := []uint64{0, 7, 127, 128, 1 << 40, math.MaxUint64}

	encoder := NewUvarintEncoder()
	defer encoder.Finish()

	encoder.Write(values[0])
	encoder.WriteSlice(values[1:])
	require.Equal(t, len(values), encoder.Len())

	// trailing column must be left untouched
	data := append(append([]byte(nil), encoder.Bytes()...), 0xAA, 0xBB)

	decoded, n, err := UvarintDecoder{}.Decode(data, len(values))
	require.NoError(t, err)
	require.Equal(t, values, decoded)
	require.Equal(t, encoder.Size(), n)
	require.Equal(t, []byte{0xAA, 0xBB}, data[n:])
}

func TestUvarintDecoder_Errors(t *testing.T) {
	_, _, err := UvarintDecoder{}.Decode([]byte{0xff, 0xff}, 1)
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)

	_, _, err = UvarintDecoder{}.Decode([]byte{}, 1)
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)
}

func TestVarintEncoders_UseAfterFinishPanics(t *testing.T) {
	s := NewVarintEncoder()
	s.Finish()
	require.Panics(t, func() { s.Write(1) })
	require.Panics(t, func() { s.Bytes() })

	u := NewUvarintEncoder()
	u.Finish()
	require.Panics(t, func() { u.WriteSlice([]uint64{1}) })
	require.Panics(t, func() { u.Size() })
}
