package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/internal/pool"
)

// zlibCodec implements both CompressionZIP and CompressionZIPS: the only
// difference between the two is how many scanlines the caller groups into
// one chunk before handing it to Compress (attr.Compression.ScanlinesPerChunk),
// so one codec serves both. The reorder pipeline matches RLE's: split then
// predict, deflate the result.
type zlibCodec struct{}

var _ Codec = zlibCodec{}

func (zlibCodec) Compress(packed []byte) ([]byte, error) {
	splitBuf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(splitBuf)
	splitBuf.SetLength(len(packed))
	splitInto(splitBuf.B, packed)

	predictBuf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(predictBuf)
	predictBuf.SetLength(len(packed))
	predictInto(predictBuf.B, splitBuf.B)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(predictBuf.B); err != nil {
		return nil, exrerr.Wrap(exrerr.KindIO, "zlib compress", err)
	}
	if err := zw.Close(); err != nil {
		return nil, exrerr.Wrap(exrerr.KindIO, "zlib compress", err)
	}

	return buf.Bytes(), nil
}

func (zlibCodec) Decompress(compressed []byte, packedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, exrerr.Wrap(exrerr.KindInvalid, "zlib decompress", err)
	}
	defer zr.Close()

	inflated := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(inflated)
	inflated.SetLength(packedSize)
	if _, err := io.ReadFull(zr, inflated.B); err != nil {
		return nil, exrerr.Wrap(exrerr.KindInvalid, "zlib decompress", err)
	}

	unpredicted := make([]byte, packedSize)
	unpredictInto(unpredicted, inflated.B)

	return join(unpredicted), nil
}
