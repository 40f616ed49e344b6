// Package compress provides compression and decompression codecs for partab state bodies.
//
// Compression is applied to the whole body of a serialized table after its columns
// have been encoded, and the codec is recorded in the state header so decoders pick
// the right decompressor automatically.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): the default, body stored as-is
//   - Zstd (format.CompressionZstd): best ratio, for long-lived checkpoints
//   - S2 (format.CompressionS2): fast with a good ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// Zstd uses klauspost/compress by default. Build with -tags gozstd to use the cgo
// binding to the reference C library instead; both produce standard zstd frames, so
// blobs are interchangeable.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(body)
//	...
//	original, err := codec.Decompress(compressed)
//
// CompressWithStats wraps the same call and reports sizes and elapsed time, which the
// table codec forwards to its metrics collector.
//
// # Limits
//
// Decompressors refuse to produce more than MaxDecompressedSize bytes so a corrupted
// length or a hostile frame cannot exhaust memory.
//
// # Thread Safety
//
// All codec implementations are stateless values backed by sync.Pool and are safe to
// share across goroutines.
package compress
