// Package encoding provides the columnar encoders and decoders used by partab's
// serialized state format.
//
// A serialized table body is a sequence of columns, each produced by one of the
// encoders in this package and read back with its matching decoder:
//
//   - NumericRawEncoder/Decoder: fixed 8-byte IEEE 754 words for concentration parameters
//   - VarintEncoder/Decoder: zig-zag varints for the assignment vector
//   - UvarintEncoder/Decoder: unsigned varints for group ids and counters
//   - VarBytesEncoder/Decoder: uvarint length-prefixed opaque group payloads
//
// # Usage
//
//	enc := encoding.NewVarintEncoder()
//	defer enc.Finish()
//
//	enc.WriteSlice([]int64{0, 0, -1, 3})
//	body = append(body, enc.Bytes()...)
//
//	values, n, err := encoding.VarintDecoder{}.Decode(body, 4)
//	if err != nil {
//	    return err
//	}
//	body = body[n:]
//
// Decoders consume exactly count values and report the bytes they used, so columns
// can be chained without per-column length prefixes. Any short read is reported as
// an error wrapping errs.ErrTruncatedPayload.
//
// # Varint Layout
//
// Group ids and lengths use Protocol Buffers-style varints where the MSB indicates
// continuation:
//
//	Value 0-127:     0xxxxxxx                    (1 byte)
//	Value 128-16383: 1xxxxxxx 0xxxxxxx           (2 bytes)
//	Value 16384+:    1xxxxxxx 1xxxxxxx 0xxxxxxx  (3+ bytes)
//
// Assignments are signed and use zig-zag encoding first, so the unassigned
// sentinel -1 costs a single byte:
//
//	0 → 0, -1 → 1, 1 → 2, -2 → 3, 2 → 4
//
// # Thread Safety
//
// Encoders are not thread-safe. Use one encoder per goroutine.
//
// Decoders are stateless and safe for concurrent use.
package encoding
