package block

import (
	"math"

	"github.com/go-openexr/openexr/stream"
)

// putU16/putU32/getU16/getU32 encode/decode little-endian integers
// directly into/from a packed byte slice. Block packing is the hottest
// path in the engine (every chunk, every channel, every row), so it
// bypasses stream.Reader/Writer's offset bookkeeping in favor of direct
// slice indexing - the same manual little-endian assembly style stream
// uses, without the extra per-call overhead.
func putU16(dst []byte, v uint16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}

func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

func getU16(src []byte) uint16 {
	return uint16(src[0]) | uint16(src[1])<<8
}

func getU32(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}

func floatBits(f float32) uint32        { return math.Float32bits(f) }
func floatFromBits(u uint32) float32    { return math.Float32frombits(u) }
func halfFromBits(u uint16) stream.Half { return stream.Half(u) }
