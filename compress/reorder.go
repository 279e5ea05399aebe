package compress

// split and join implement the two reordering passes RLE and the zlib
// codecs apply before/after the general-purpose compressor, per §4.5:
// splitting a pixel row's interleaved bytes into two runs (even-index,
// odd-index) groups the high and low bytes of adjacent 16/32-bit samples
// together, which compresses noticeably better than the native
// interleaving for smooth image data.
//
// Each has an -Into variant that writes into a caller-supplied dst
// instead of allocating; rleCodec and zlibCodec use these against
// internal/pool-backed scratch so a chunk's two reordering passes don't
// each cost a fresh allocation.

func splitInto(dst, src []byte) {
	half := (len(src) + 1) / 2

	ai, bi := 0, half
	for i := range src {
		if i%2 == 0 {
			dst[ai] = src[i]
			ai++
		} else {
			dst[bi] = src[i]
			bi++
		}
	}
}

func split(src []byte) []byte {
	out := make([]byte, len(src))
	splitInto(out, src)

	return out
}

func joinInto(dst, src []byte) {
	half := (len(src) + 1) / 2

	ai, bi := 0, half
	for i := range src {
		if i%2 == 0 {
			dst[i] = src[ai]
			ai++
		} else {
			dst[i] = src[bi]
			bi++
		}
	}
}

func join(src []byte) []byte {
	out := make([]byte, len(src))
	joinInto(out, src)

	return out
}

// predict and unpredict apply a byte-wise delta pass: each byte (after
// the first) is replaced with its difference from the previous byte,
// offset by 128. Byte arithmetic wraps mod 256 in Go, so the forward and
// inverse passes are exact inverses without any explicit masking.

func predictInto(dst, src []byte) {
	if len(src) == 0 {
		return
	}

	dst[0] = src[0]
	for i := 1; i < len(src); i++ {
		dst[i] = src[i] - src[i-1] + 128
	}
}

func predict(src []byte) []byte {
	out := make([]byte, len(src))
	predictInto(out, src)

	return out
}

func unpredictInto(dst, src []byte) {
	if len(src) == 0 {
		return
	}

	dst[0] = src[0]
	for i := 1; i < len(src); i++ {
		dst[i] = src[i] - 128 + dst[i-1]
	}
}

func unpredict(src []byte) []byte {
	out := make([]byte, len(src))
	unpredictInto(out, src)

	return out
}
