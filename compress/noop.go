package compress

import "github.com/go-openexr/openexr/internal/exrerr"

// identityCodec implements CompressionNone: the packed bytes pass through
// unchanged. It is also what every other codec falls back to when its
// compressed output would not be smaller than the input (§4.5's "store
// verbatim" rule is applied by the caller, not here; DecompressChunk
// also uses this type to read back chunks stored that way).
type identityCodec struct{}

var _ Codec = identityCodec{}

func (identityCodec) Compress(packed []byte) ([]byte, error) {
	return packed, nil
}

func (identityCodec) Decompress(compressed []byte, packedSize int) ([]byte, error) {
	if len(compressed) != packedSize {
		return nil, exrerr.InvalidSize("uncompressed chunk size mismatch")
	}

	return compressed, nil
}
