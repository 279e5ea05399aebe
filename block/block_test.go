package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/stream"
)

func TestPackUnpackRegionFloat(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 1}
	channels := attr.ChannelList{
		{Name: "Y", Type: attr.PixelFloat, XSampling: 1, YSampling: 1},
	}

	bufs, err := NewPartBuffers(channels, dw)
	require.NoError(t, err)

	want := []float32{0, 1, 2, 3, 4, 5, 6, 7}
	copy(bufs["Y"].Float, want)

	data, err := PackRegion(channels, dw, dw, bufs)
	require.NoError(t, err)
	require.Len(t, data, PackedSize(channels, dw))

	got, err := NewPartBuffers(channels, dw)
	require.NoError(t, err)
	require.NoError(t, UnpackRegion(channels, dw, dw, data, got))
	require.Equal(t, want, got["Y"].Float)
}

func TestPackUnpackRegionMultiChannelOrder(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 1, YMax: 0}
	channels := attr.ChannelList{
		{Name: "B", Type: attr.PixelHalf, XSampling: 1, YSampling: 1},
		{Name: "G", Type: attr.PixelHalf, XSampling: 1, YSampling: 1},
		{Name: "R", Type: attr.PixelHalf, XSampling: 1, YSampling: 1},
	}

	bufs, err := NewPartBuffers(channels, dw)
	require.NoError(t, err)
	bufs["R"].Half[0], bufs["R"].Half[1] = stream.HalfFromFloat32(1), stream.HalfFromFloat32(2)
	bufs["G"].Half[0], bufs["G"].Half[1] = stream.HalfFromFloat32(3), stream.HalfFromFloat32(4)
	bufs["B"].Half[0], bufs["B"].Half[1] = stream.HalfFromFloat32(5), stream.HalfFromFloat32(6)

	data, err := PackRegion(channels, dw, dw, bufs)
	require.NoError(t, err)

	// Channels are traversed in ascending name order (B, G, R), each
	// half-float sample is 2 bytes, and each channel's samples for the row
	// are contiguous: B0 B1, then G0 G1, then R0 R1.
	require.Equal(t, stream.HalfFromFloat32(5).Bits(), getU16(data[0:]))
	require.Equal(t, stream.HalfFromFloat32(3).Bits(), getU16(data[4:]))
	require.Equal(t, stream.HalfFromFloat32(1).Bits(), getU16(data[8:]))
}

func TestPackRegionSubRect(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 3}
	channels := attr.ChannelList{{Name: "Y", Type: attr.PixelUint, XSampling: 1, YSampling: 1}}

	bufs, err := NewPartBuffers(channels, dw)
	require.NoError(t, err)
	for i := range bufs["Y"].Uint {
		bufs["Y"].Uint[i] = uint32(i)
	}

	rect := attr.Box2i{XMin: 1, YMin: 1, XMax: 2, YMax: 1} // one scanline, 2 pixels, offset into the buffer
	data, err := PackRegion(channels, rect, dw, bufs)
	require.NoError(t, err)
	require.Equal(t, uint32(5), getU32(data[0:]))
	require.Equal(t, uint32(6), getU32(data[4:]))
}
