// Package block implements §4.6: the canonical packed byte layout for a
// block's rectangle and channel list, and the pack/unpack translation
// between that layout and typed per-channel sample buffers.
package block

import (
	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/stream"
)

// Buffer holds one channel's samples in its native type. Exactly one of
// Half, Float, Uint is populated, matching Type.
type Buffer struct {
	Type  attr.PixelType
	Half  []stream.Half
	Float []float32
	Uint  []uint32
}

// NewBuffer allocates a zeroed buffer of n samples for pixel type t.
func NewBuffer(t attr.PixelType, n int) (Buffer, error) {
	switch t {
	case attr.PixelHalf:
		return Buffer{Type: t, Half: make([]stream.Half, n)}, nil
	case attr.PixelFloat:
		return Buffer{Type: t, Float: make([]float32, n)}, nil
	case attr.PixelUint:
		return Buffer{Type: t, Uint: make([]uint32, n)}, nil
	default:
		return Buffer{}, exrerr.Invalid("unknown pixel type")
	}
}

// Len reports the sample count, regardless of which slice is populated.
func (b Buffer) Len() int {
	switch b.Type {
	case attr.PixelHalf:
		return len(b.Half)
	case attr.PixelFloat:
		return len(b.Float)
	case attr.PixelUint:
		return len(b.Uint)
	default:
		return 0
	}
}

// PartBuffers maps channel name to its sample buffer, one entry per
// channel, each of length dataWindow.Width() * dataWindow.Height().
type PartBuffers map[string]Buffer

// NewPartBuffers allocates one Buffer per channel sized to the data
// window.
func NewPartBuffers(channels attr.ChannelList, dataWindow attr.Box2i) (PartBuffers, error) {
	n := dataWindow.Width() * dataWindow.Height()
	bufs := make(PartBuffers, len(channels))
	for _, c := range channels {
		b, err := NewBuffer(c.Type, n)
		if err != nil {
			return nil, err
		}
		bufs[c.Name] = b
	}

	return bufs, nil
}
