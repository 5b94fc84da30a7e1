package compress

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainPayload builds a representative trace payload: little-endian
// float64 samples from a smooth trajectory.
func chainPayload(n int) []byte {
	buf := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		value := 2.5 + 0.1*math.Sin(float64(i)/20)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(value))
	}

	return buf
}

func TestCodecRoundTrip(t *testing.T) {
	payload := chainPayload(4096)

	for _, typ := range []Type{None, Zstd, S2, LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, restored)
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for _, typ := range []Type{None, Zstd, S2, LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Empty(t, restored)
		})
	}
}

func TestCodecCompresses(t *testing.T) {
	// A stuck chain repeats the same block of samples; every real codec
	// must shrink it.
	block := chainPayload(16)
	payload := make([]byte, 0, len(block)*512)
	for i := 0; i < 512; i++ {
		payload = append(payload, block...)
	}

	for _, typ := range []Type{Zstd, S2, LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			assert.Less(t, len(compressed), len(payload))
		})
	}
}

func TestCodecCorruptedInput(t *testing.T) {
	payload := chainPayload(1024)

	for _, typ := range []Type{Zstd, S2} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			corrupted := append([]byte(nil), compressed...)
			for i := range corrupted {
				corrupted[i] ^= 0xA5
			}

			_, err = codec.Decompress(corrupted)
			assert.Error(t, err)
		})
	}
}

func TestGetCodecUnknownType(t *testing.T) {
	_, err := GetCodec(Type(0x7F))
	assert.Error(t, err)
	assert.Equal(t, "Unknown", Type(0x7F).String())
}
