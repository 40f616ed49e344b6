package encoding

type ColumnarEncoder[T any] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next Write, WriteSlice, or Finish call.
	// The caller must not modify it.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the size in bytes of the encoded values.
	Size() int

	// Finish returns the internal buffer to the pool.
	//
	// After Finish the encoder is no longer usable; Write, WriteSlice, Bytes, and Size
	// panic. Copy or append Bytes() somewhere else before calling it:
	//
	//	enc := NewVarintEncoder()
	//	defer enc.Finish()
	//
	//	enc.WriteSlice(assignments)
	//	body = append(body, enc.Bytes()...)
	Finish()

	// Write encodes a single value.
	Write(v T)

	// WriteSlice encodes a slice of values.
	WriteSlice(values []T)
}

type ColumnarDecoder[T any] interface {
	// Decode reads exactly count values from the front of data.
	//
	// It returns the decoded values and the number of bytes consumed so the caller can
	// continue with the next column at data[n:]. Running out of data returns an error
	// wrapping errs.ErrTruncatedPayload.
	Decode(data []byte, count int) ([]T, int, error)
}
