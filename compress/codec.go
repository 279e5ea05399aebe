// Package compress implements the four block codecs the engine supports:
// uncompressed (identity), RLE, and the two zlib variants (ZIP, one block
// of ScanlinesPerChunk() scanlines; ZIPS, one scanline). ZIP and ZIPS share
// the same reorder-then-deflate pipeline and differ only in the chunk
// height the caller picks via attr.Compression.ScanlinesPerChunk().
package compress

import (
	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/internal/exrerr"
)

// Codec compresses and decompresses one chunk's packed pixel bytes.
//
// Decompress is told packedSize, the exact byte count the caller expects
// back (computed from the chunk's bounding box, channel list and pixel
// byte widths, §4.5). A codec that produces a different number of bytes
// signals a corrupt chunk, not a programmer error, so implementations
// treat a mismatch as a decode failure rather than panic.
type Codec interface {
	Compress(packed []byte) ([]byte, error)
	Decompress(compressed []byte, packedSize int) ([]byte, error)
}

// CreateCodec is the factory the chunk writer/reader uses to resolve an
// attr.Compression value to its Codec. Recognised-but-unimplemented
// compression tags (PIZ, PXR24, B44, B44A, DWAA, DWAB) report Unsupported
// here rather than at header-validation time, so a caller that only reads
// metadata never pays for a codec it doesn't use.
func CreateCodec(c attr.Compression) (Codec, error) {
	switch c {
	case attr.CompressionNone:
		return identityCodec{}, nil
	case attr.CompressionRLE:
		return rleCodec{}, nil
	case attr.CompressionZIP, attr.CompressionZIPS:
		return zlibCodec{}, nil
	default:
		return nil, exrerr.Unsupported("compression codec " + c.String())
	}
}
