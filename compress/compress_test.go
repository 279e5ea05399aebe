package compress

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-openexr/openexr/attr"
)

func samplePixelData(n int, smooth bool) []byte {
	data := make([]byte, n)
	if !smooth {
		rnd := rand.New(rand.NewSource(1))
		rnd.Read(data)

		return data
	}

	var v byte
	for i := range data {
		if i%7 == 0 {
			v++
		}
		data[i] = v
	}

	return data
}

func TestIdentityCodecRoundTrip(t *testing.T) {
	codec, err := CreateCodec(attr.CompressionNone)
	require.NoError(t, err)

	data := samplePixelData(256, false)
	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	got, err := codec.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestRLECodecRoundTrip(t *testing.T) {
	codec, err := CreateCodec(attr.CompressionRLE)
	require.NoError(t, err)

	for _, smooth := range []bool{true, false} {
		data := samplePixelData(4096, smooth)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)

		got, err := codec.Decompress(compressed, len(data))
		require.NoError(t, err)
		require.Equal(t, data, got)
	}
}

func TestZlibCodecRoundTrip(t *testing.T) {
	for _, c := range []attr.Compression{attr.CompressionZIP, attr.CompressionZIPS} {
		codec, err := CreateCodec(c)
		require.NoError(t, err)

		data := samplePixelData(8192, true)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(data))

		got, err := codec.Decompress(compressed, len(data))
		require.NoError(t, err)
		require.Equal(t, data, got)
	}
}

func TestCreateCodecUnsupported(t *testing.T) {
	_, err := CreateCodec(attr.CompressionPIZ)
	require.Error(t, err)
}

func TestRLEEmptyInput(t *testing.T) {
	codec, err := CreateCodec(attr.CompressionRLE)
	require.NoError(t, err)

	compressed, err := codec.Compress(nil)
	require.NoError(t, err)

	got, err := codec.Decompress(compressed, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSplitJoinInverse(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 17, 256} {
		data := samplePixelData(n, false)
		require.Equal(t, data, join(split(data)))
	}
}

func TestPredictUnpredictInverse(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 17, 256} {
		data := samplePixelData(n, false)
		require.Equal(t, data, unpredict(predict(data)))
	}
}

func TestCompressChunkStoresWhenNotSmaller(t *testing.T) {
	codec, err := CreateCodec(attr.CompressionZIP)
	require.NoError(t, err)

	data := samplePixelData(64, false) // random, incompressible at this size
	out, stored, err := CompressChunk(codec, data)
	require.NoError(t, err)
	if stored {
		require.Equal(t, data, out)
	}

	got, err := DecompressChunk(codec, attr.CompressionZIP, out, len(data))
	require.NoError(t, err)
	require.Equal(t, data, got)
}
