// Package hash provides the xxHash64-based content signature used for
// Image.Hash (spec §3: "content hash/signature, implementation-defined,
// not persisted").
package hash

import "github.com/cespare/xxhash/v2"

// Digest accumulates bytes across an image's parts and chunks into a
// single xxHash64 signature.
type Digest struct {
	d *xxhash.Digest
}

// New returns an empty Digest.
func New() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write feeds b into the running hash.
func (h *Digest) Write(b []byte) {
	h.d.Write(b) //nolint:errcheck // xxhash.Digest.Write never returns an error
}

// WriteUint64 feeds v's little-endian bytes into the running hash, used
// for numeric fields (dimensions, level indices) that aren't already a
// byte slice.
func (h *Digest) WriteUint64(v uint64) {
	var b [8]byte
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	h.Write(b[:])
}

// Sum64 returns the accumulated signature.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
