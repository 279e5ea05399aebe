package stream

import (
	"io"

	"github.com/go-openexr/openexr/internal/exrerr"
)

// Writer encodes the little-endian primitives used throughout the
// format. Writers that need absolute seeks (offset-table back-patching)
// must be backed by an io.WriteSeeker.
type Writer struct {
	w      io.Writer
	seeker io.Seeker
	off    int64
}

// NewWriter wraps w. If w also implements io.Seeker, Seek becomes
// available for offset-table back-patching; Pos is always available.
func NewWriter(w io.Writer) *Writer {
	sw := &Writer{w: w}
	if s, ok := w.(io.Seeker); ok {
		sw.seeker = s
	}

	return sw
}

// Pos returns the current write offset.
func (w *Writer) Pos() int64 { return w.off }

// Seekable reports whether Seek is supported.
func (w *Writer) Seekable() bool { return w.seeker != nil }

// Seek moves the write cursor to an absolute offset. Returns KindIO if
// the sink is not seekable. Does not itself move subsequent in-memory
// Pos tracking back in line with the seeked position's semantics beyond
// recording the new offset - callers seek explicitly when back-patching
// and resume sequential writes with Seek again if needed.
func (w *Writer) Seek(off int64) error {
	if w.seeker == nil {
		return exrerr.IO("seek", io.ErrClosedPipe)
	}

	n, err := w.seeker.Seek(off, io.SeekStart)
	if err != nil {
		return exrerr.IO("seek", err)
	}
	w.off = n

	return nil
}

func (w *Writer) write(buf []byte) error {
	n, err := w.w.Write(buf)
	w.off += int64(n)
	if err != nil {
		return exrerr.IO("write", err)
	}

	return nil
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error { return w.write([]byte{b}) }

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) error {
	return w.write([]byte{byte(v), byte(v >> 8)})
}

// WriteI32 writes a little-endian signed int32.
func (w *Writer) WriteI32(v int32) error { return w.WriteU32(uint32(v)) } //nolint: gosec

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	return w.write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// WriteI64 writes a little-endian signed int64.
func (w *Writer) WriteI64(v int64) error { return w.WriteU64(uint64(v)) } //nolint: gosec

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) error {
	buf := []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}

	return w.write(buf)
}

// WriteF32 writes an IEEE 754 binary32.
func (w *Writer) WriteF32(f float32) error { return w.WriteU32(float32Bits(f)) }

// WriteF64 writes an IEEE 754 binary64.
func (w *Writer) WriteF64(f float64) error { return w.WriteU64(float64Bits(f)) }

// WriteHalf writes an IEEE 754 binary16.
func (w *Writer) WriteHalf(h Half) error { return w.WriteU16(h.Bits()) }

// WriteBytes writes a raw byte run verbatim.
func (w *Writer) WriteBytes(b []byte) error { return w.write(b) }

// WriteCString writes s followed by a zero terminator.
func (w *Writer) WriteCString(s string) error {
	if err := w.write([]byte(s)); err != nil {
		return err
	}

	return w.WriteByte(0)
}
