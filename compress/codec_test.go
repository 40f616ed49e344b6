package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/partab/format"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"Zstd": NewZstdCompressor(),
		"S2":   NewS2Compressor(),
		"LZ4":  NewLZ4Compressor(),
	}
}

// assignmentBody builds a body shaped like a serialized table: a long run of small
// varints followed by a few payloads.
func assignmentBody(n, groups int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	body := make([]byte, 0, n+groups*16)
	body = binary.LittleEndian.AppendUint64(body, 0x3ff0000000000000)
	for range n {
		body = binary.AppendVarint(body, int64(r.IntN(groups))-1)
	}
	for g := range groups {
		body = binary.AppendUvarint(body, uint64(g))
		body = append(body, fmt.Sprintf(`{"heads":%d,"tails":%d}`, r.IntN(100), r.IntN(100))...)
	}

	return body
}

func TestCompressionStats_Calculations(t *testing.T) {
	tests := []struct {
		name    string
		stats   CompressionStats
		ratio   float64
		savings float64
	}{
		{"half", CompressionStats{OriginalSize: 1000, CompressedSize: 500}, 0.5, 50},
		{"no gain", CompressionStats{OriginalSize: 10, CompressedSize: 10}, 1.0, 0},
		{"expansion", CompressionStats{OriginalSize: 10, CompressedSize: 12}, 1.2, -20},
		{"empty", CompressionStats{}, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.ratio, tt.stats.CompressionRatio(), 1e-9)
			require.InDelta(t, tt.savings, tt.stats.SpaceSavings(), 1e-9)
		})
	}
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		codec, err := CreateCodec(ct, "state")
		require.NoError(t, err)
		require.NotNil(t, codec)

		builtin, err := GetCodec(ct)
		require.NoError(t, err)
		require.IsType(t, codec, builtin)
	}

	_, err := CreateCodec(format.CompressionType(0x9), "state")
	require.ErrorContains(t, err, "invalid state compression")

	_, err = GetCodec(format.CompressionType(0))
	require.Error(t, err)
}

func TestCompressWithStats(t *testing.T) {
	body := assignmentBody(10000, 8, 1)

	compressed, stats, err := CompressWithStats(format.CompressionZstd, body)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Equal(t, int64(len(body)), stats.OriginalSize)
	require.Equal(t, int64(len(compressed)), stats.CompressedSize)
	require.Less(t, stats.CompressionRatio(), 1.0, "assignment columns compress")
	require.GreaterOrEqual(t, stats.CompressionTimeNs, int64(0))

	_, _, err = CompressWithStats(format.CompressionType(0x7), body)
	require.Error(t, err)
}

func TestNoOpCompressor_SharesMemory(t *testing.T) {
	codec := NewNoOpCompressor()
	data := []byte{1, 2, 3}

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &compressed[0])

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"single byte":    {0x01},
		"hyper blob":     binary.LittleEndian.AppendUint64(nil, 0x3ff0000000000000),
		"small table":    assignmentBody(10, 3, 2),
		"large table":    assignmentBody(50000, 40, 3),
		"all unassigned": bytes.Repeat([]byte{0x01}, 100000),
		"incompressible": randomBytes(4096, 4),
		"high expansion": make([]byte, 1<<20),
	}

	for name, codec := range getAllCodecs() {
		for pname, payload := range payloads {
			t.Run(name+"/"+pname, func(t *testing.T) {
				compressed, err := codec.Compress(payload)
				require.NoError(t, err)

				decompressed, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, payload, decompressed)
			})
		}
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8}

	for name, codec := range getAllCodecs() {
		if name == "NoOp" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, 16)

			for i := range 16 {
				wg.Add(1)
				go func(seed uint64) {
					defer wg.Done()

					body := assignmentBody(2000, 5, seed)
					compressed, err := codec.Compress(body)
					if err != nil {
						errCh <- err
						return
					}
					decompressed, err := codec.Decompress(compressed)
					if err != nil {
						errCh <- err
						return
					}
					if !bytes.Equal(body, decompressed) {
						errCh <- fmt.Errorf("round trip mismatch for seed %d", seed)
					}
				}(uint64(i))
			}

			wg.Wait()
			close(errCh)
			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}

func randomBytes(n int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed+1))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.Uint32())
	}

	return b
}
