// Package stream implements the codec's byte I/O layer: typed
// little-endian decoders/encoders, half-precision floats, zero-terminated
// ASCII strings, and bounded-length byte runs, plus the sole allocation-
// size check every variable-length read passes through before an
// allocation happens.
package stream

import (
	"bytes"
	"io"

	"github.com/go-openexr/openexr/internal/exrerr"
)

// DefaultCeiling bounds allocation when the total input size cannot be
// determined (a non-seekable source). It is deliberately generous -
// large enough not to reject legitimate headers/chunks, small enough
// that a hostile length field can't force a multi-gigabyte allocation
// from a few bytes of input.
const DefaultCeiling = 1 << 30 // 1GiB

// CeilingSlack is added to "bytes remaining in the file" when the source
// size is known, so a length field naming the last few bytes of a
// truncated-but-plausible file isn't rejected by an off-by-a-little
// margin.
const CeilingSlack = 1 << 16 // 64KiB

// MaxShortName and MaxLongName bound attribute/part names, type tags:
// 255 bytes with the long-name bit, 31 otherwise (§3).
const (
	MaxShortName = 31
	MaxLongName  = 255
)

// Reader decodes the little-endian primitives used throughout the
// format. It tracks a current offset for diagnostics and, when backed by
// an io.Seeker, supports absolute seeks and a known-size ceiling.
type Reader struct {
	r         io.Reader
	seeker    io.Seeker
	off       int64
	sizeKnown bool
	size      int64
}

// NewReader wraps r. If r also implements io.Seeker, the reader probes
// its size once (seeking to the end and back to the current position) so
// that length checks can use "bytes remaining" as the ceiling; otherwise
// the source is treated as one-pass and DefaultCeiling is used.
func NewReader(r io.Reader) *Reader {
	sr := &Reader{r: r}

	if s, ok := r.(io.Seeker); ok {
		sr.seeker = s
		cur, err := s.Seek(0, io.SeekCurrent)
		if err == nil {
			end, err2 := s.Seek(0, io.SeekEnd)
			if err2 == nil {
				if _, err3 := s.Seek(cur, io.SeekStart); err3 == nil {
					sr.off = cur
					sr.size = end
					sr.sizeKnown = true
				}
			}
		}
	}

	return sr
}

// NewBytesReader wraps an in-memory buffer. Used for attribute payloads,
// whose bytes are read into memory first and then decoded with exact
// bounds known.
func NewBytesReader(data []byte) *Reader {
	br := bytes.NewReader(data)
	r := NewReader(br)
	r.sizeKnown = true
	r.size = int64(len(data))

	return r
}

// Offset returns the current read offset, for diagnostics.
func (r *Reader) Offset() int64 { return r.off }

// Remaining returns the number of bytes left before the known end of the
// source, or -1 if the source's size is not known (a one-pass stream).
// Used by list-shaped attribute payloads (stringvector) that are
// bounded by the attribute's declared length rather than by an
// in-band terminator.
func (r *Reader) Remaining() int64 {
	if !r.sizeKnown {
		return -1
	}

	return r.size - r.off
}

// Seekable reports whether Seek is supported.
func (r *Reader) Seekable() bool { return r.seeker != nil }

// Seek moves to an absolute offset. Returns KindIO if the source is not
// seekable.
func (r *Reader) Seek(off int64) error {
	if r.seeker == nil {
		return exrerr.IO("seek", io.ErrClosedPipe)
	}

	n, err := r.seeker.Seek(off, io.SeekStart)
	if err != nil {
		return exrerr.IO("seek", err)
	}
	r.off = n

	return nil
}

// ceiling returns the maximum number of bytes a single allocation driven
// by a decoded length may request right now.
func (r *Reader) ceiling() int64 {
	if r.sizeKnown {
		remaining := r.size - r.off
		if remaining < 0 {
			remaining = 0
		}

		return remaining + CeilingSlack
	}

	return DefaultCeiling
}

// CheckLength validates a decoded length against the allocation ceiling.
// Every variable-length read in this package calls it before allocating;
// it is exported so higher layers (attr, chunk) can apply the same check
// to lengths they decode themselves (e.g. chlist/stringvector payloads).
func (r *Reader) CheckLength(n int64) error {
	if n < 0 {
		return exrerr.InvalidSize("negative length")
	}
	if n > r.ceiling() {
		return exrerr.InvalidSize("length exceeds allocation ceiling")
	}

	return nil
}

func (r *Reader) fill(buf []byte) error {
	_, err := io.ReadFull(r.r, buf)
	if err != nil {
		return exrerr.IO("read", err)
	}
	r.off += int64(len(buf))

	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	var b [1]byte
	if err := r.fill(b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	var b [2]byte
	if err := r.fill(b[:]); err != nil {
		return 0, err
	}

	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// ReadI32 reads a little-endian signed int32.
func (r *Reader) ReadI32() (int32, error) {
	u, err := r.ReadU32()

	return int32(u), err //nolint: gosec
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	var b [4]byte
	if err := r.fill(b[:]); err != nil {
		return 0, err
	}

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// ReadI64 reads a little-endian signed int64.
func (r *Reader) ReadI64() (int64, error) {
	u, err := r.ReadU64()

	return int64(u), err //nolint: gosec
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	var b [8]byte
	if err := r.fill(b[:]); err != nil {
		return 0, err
	}

	lo := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
	hi := uint64(b[4]) | uint64(b[5])<<8 | uint64(b[6])<<16 | uint64(b[7])<<24

	return lo | hi<<32, nil
}

// ReadF32 reads an IEEE 754 binary32.
func (r *Reader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}

	return float32FromBits(u), nil
}

// ReadF64 reads an IEEE 754 binary64.
func (r *Reader) ReadF64() (float64, error) {
	u, err := r.ReadU64()
	if err != nil {
		return 0, err
	}

	return float64FromBits(u), nil
}

// ReadHalf reads an IEEE 754 binary16.
func (r *Reader) ReadHalf() (Half, error) {
	u, err := r.ReadU16()

	return Half(u), err
}

// ReadBytes reads exactly n raw bytes, after checking n against maxLen
// and against the allocation ceiling.
func (r *Reader) ReadBytes(n int, maxLen int) ([]byte, error) {
	if n < 0 || int64(n) > int64(maxLen) {
		return nil, exrerr.InvalidSize("byte run exceeds declared maximum")
	}
	if err := r.CheckLength(int64(n)); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if n > 0 {
		if err := r.fill(buf); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// ReadCString reads a zero-terminated ASCII string, at most maxLen bytes
// (not counting the terminator). Used for attribute/type/part names.
func (r *Reader) ReadCString(maxLen int) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		if len(buf) >= maxLen {
			return "", exrerr.InvalidSize("string exceeds maximum length")
		}
		buf = append(buf, b)
	}

	return string(buf), nil
}
