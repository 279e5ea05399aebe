package compress

import (
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/internal/pool"
)

// rleCodec implements CompressionRLE: split, predict, then a classic
// byte-oriented run-length encoding. Runs of 3 or more identical bytes
// collapse to a 2-byte (count, value) pair; everything else is emitted
// as literal runs, each prefixed with its own length.
type rleCodec struct{}

var _ Codec = rleCodec{}

const (
	rleMaxRun     = 127
	rleMaxLiteral = 128
)

func (rleCodec) Compress(packed []byte) ([]byte, error) {
	splitBuf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(splitBuf)
	splitBuf.SetLength(len(packed))
	splitInto(splitBuf.B, packed)

	predictBuf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(predictBuf)
	predictBuf.SetLength(len(packed))
	predictInto(predictBuf.B, splitBuf.B)

	return rleEncode(predictBuf.B), nil
}

func (rleCodec) Decompress(compressed []byte, packedSize int) ([]byte, error) {
	reordered, err := rleDecode(compressed, packedSize)
	if err != nil {
		return nil, err
	}

	unpredictBuf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(unpredictBuf)
	unpredictBuf.SetLength(packedSize)
	unpredictInto(unpredictBuf.B, reordered)

	out := join(unpredictBuf.B)
	if len(out) != packedSize {
		return nil, exrerr.InvalidSize("rle chunk decoded to unexpected size")
	}

	return out, nil
}

func rleEncode(data []byte) []byte {
	out := make([]byte, 0, len(data))

	n := len(data)
	for i := 0; i < n; {
		runStart := i
		for i < n-1 && data[i] == data[i+1] && i-runStart < rleMaxRun {
			i++
		}
		runLen := i - runStart + 1

		if runLen >= 3 {
			out = append(out, byte(int8(-(runLen - 1))))
			out = append(out, data[runStart])
			i++

			continue
		}

		i = runStart
		litStart := i
		for i < n {
			if i < n-2 && data[i] == data[i+1] && data[i+1] == data[i+2] {
				break
			}
			i++
			if i-litStart >= rleMaxLiteral {
				break
			}
		}
		litLen := i - litStart
		out = append(out, byte(int8(litLen-1)))
		out = append(out, data[litStart:litStart+litLen]...)
	}

	return out
}

func rleDecode(data []byte, expectedSize int) ([]byte, error) {
	out := make([]byte, 0, expectedSize)

	i := 0
	for i < len(data) {
		n := int8(data[i])
		i++

		if n >= 0 {
			count := int(n) + 1
			if i+count > len(data) {
				return nil, exrerr.Invalid("rle literal run overruns input")
			}
			out = append(out, data[i:i+count]...)
			i += count

			continue
		}

		count := 1 - int(n)
		if i >= len(data) {
			return nil, exrerr.Invalid("rle repeat run missing value byte")
		}
		b := data[i]
		i++
		for k := 0; k < count; k++ {
			out = append(out, b)
		}
	}

	if len(out) != expectedSize {
		return nil, exrerr.InvalidSize("rle decoded size disagrees with declared chunk size")
	}

	return out, nil
}
