package compress

import "github.com/go-openexr/openexr/attr"

// CompressChunk compresses packed with codec and applies the "store
// verbatim" rule (§4.5): if the compressed result is not smaller than the
// input, the packed bytes are returned unchanged and stored reports true.
// A chunk whose on-disk size equals its canonical packed size must be
// read back as stored (DecompressChunk below), never run through the
// codec - deflate output essentially never collides with the packed
// size by chance, but a reader has no other signal to go on.
func CompressChunk(codec Codec, packed []byte) (data []byte, stored bool, err error) {
	compressed, err := codec.Compress(packed)
	if err != nil {
		return nil, false, err
	}
	if len(compressed) >= len(packed) {
		return packed, true, nil
	}

	return compressed, false, nil
}

// DecompressChunk inverts CompressChunk. packedSize is the canonical
// packed size for this chunk's bounding box and channel list; when data
// already has that length, it was stored verbatim and is returned as-is,
// otherwise it is run through codec.
func DecompressChunk(codec Codec, compression attr.Compression, data []byte, packedSize int) ([]byte, error) {
	if compression == attr.CompressionNone || len(data) == packedSize {
		return identityCodec{}.Decompress(data, packedSize)
	}

	return codec.Decompress(data, packedSize)
}
