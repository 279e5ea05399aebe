// Package pool provides pooled scratch buffers used by the RLE and zlib
// codecs' split/predict reordering passes (compress/reorder.go) to avoid
// a fresh allocation for every intermediate buffer on every chunk.
// Adapted from the teacher module's internal/pool package: the growth
// strategy and the Get/Put shape are unchanged, but pool sizing targets
// chunk-sized packed/compressed byte buffers (tens of KiB) instead of
// metric blobs.
package pool

import (
	"io"
	"sync"
)

// Default and maximum sizes for the chunk scratch-buffer pool. A single
// ZIP chunk (16 scanlines) of a 4K-wide RGBA half-float image packs to
// roughly 512KiB uncompressed, so the default starts well below that and
// grows on demand; the max threshold keeps one oversized chunk from
// inflating the pool for the rest of a run.
const (
	ChunkBufferDefaultSize  = 1024 * 64        // 64KiB
	ChunkBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is a growable byte slice wrapper designed for pooling.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Reset empties the buffer but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Write appends p to the buffer, implementing io.Writer. It never fails.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.MustWrite(p)
	return len(p), nil
}

// WriteTo writes the buffer's contents to w, implementing io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// SetLength sets the length of the buffer to n, zero-extending if needed.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 {
		panic("pool: SetLength: negative length")
	}
	bb.Grow(n - len(bb.B))
	for len(bb.B) < n {
		bb.B = append(bb.B, 0)
	}
	bb.B = bb.B[:n]
}

// Grow ensures the buffer can hold requiredBytes more bytes without a
// further reallocation.
//
// Growth strategy, unchanged from the teacher: small buffers grow by a
// fixed default increment to minimize reallocations; larger buffers grow
// by 25% of current capacity to balance memory use against copy cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if requiredBytes <= 0 {
		return
	}

	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := ChunkBufferDefaultSize
	if cap(bb.B) > 4*ChunkBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool pools ByteBuffers to minimize allocation churn across
// chunk encode/decode calls.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize and
// are discarded (not recycled) once they grow past maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var chunkBufferPool = NewByteBufferPool(ChunkBufferDefaultSize, ChunkBufferMaxThreshold)

// GetChunkBuffer retrieves a ByteBuffer from the default chunk-scratch pool.
func GetChunkBuffer() *ByteBuffer { return chunkBufferPool.Get() }

// PutChunkBuffer returns a ByteBuffer to the default chunk-scratch pool.
func PutChunkBuffer(bb *ByteBuffer) { chunkBufferPool.Put(bb) }
