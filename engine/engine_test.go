package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/block"
	"github.com/go-openexr/openexr/meta"
)

func scanLineHeader(comp attr.Compression, dw attr.Box2i) *meta.Header {
	h := meta.NewHeader()
	h.Set("channels", attr.ChannelList{{Name: "Y", Type: attr.PixelFloat, XSampling: 1, YSampling: 1}})
	h.Set("compression", attr.CompressionAttr{Value: comp})
	h.Set("dataWindow", dw)
	h.Set("displayWindow", dw)
	h.Set("lineOrder", attr.LineOrderAttr{Value: attr.LineOrderIncreasingY})
	h.Set("pixelAspectRatio", attr.Float(1.0))
	h.Set("screenWindowCenter", attr.V2f{})
	h.Set("screenWindowWidth", attr.Float(1.0))

	return h
}

// TestReadWriteRoundTripS1 mirrors spec scenario S1: one scan-line part,
// 4x2 F32 samples [0..7], uncompressed, chunk count 2.
func TestReadWriteRoundTripS1(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 1}
	h := scanLineHeader(attr.CompressionNone, dw)
	m := &meta.Meta{Parts: []*meta.Header{h}}

	bufs, err := block.NewPartBuffers(attr.ChannelList{{Name: "Y", Type: attr.PixelFloat}}, dw)
	require.NoError(t, err)
	want := []float32{0, 1, 2, 3, 4, 5, 6, 7}
	copy(bufs["Y"].Float, want)
	parts := []*PartData{{Levels: map[LevelKey]block.PartBuffers{{}: bufs}}}

	count, err := h.ChunkCount()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, parts))

	gotMeta, gotParts, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, gotParts, 1)

	gotDW, err := gotMeta.Parts[0].DataWindow()
	require.NoError(t, err)
	require.Equal(t, dw, gotDW)
	require.Equal(t, want, gotParts[0].Levels[LevelKey{}]["Y"].Float)
}

// TestReadWriteRoundTripZIP mirrors scenario S2's shape: a part tall
// enough to span multiple ZIP chunks (16 scanlines each).
func TestReadWriteRoundTripZIP(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 0, YMax: 4095}
	h := scanLineHeader(attr.CompressionZIP, dw)
	m := &meta.Meta{Parts: []*meta.Header{h}}

	bufs, err := block.NewPartBuffers(attr.ChannelList{{Name: "Y", Type: attr.PixelFloat}}, dw)
	require.NoError(t, err)
	for i := range bufs["Y"].Float {
		bufs["Y"].Float[i] = 1.0
	}
	parts := []*PartData{{Levels: map[LevelKey]block.PartBuffers{{}: bufs}}}

	count, err := h.ChunkCount()
	require.NoError(t, err)
	require.Equal(t, 256, count)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, parts))

	_, gotParts, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	for _, v := range gotParts[0].Levels[LevelKey{}]["Y"].Float {
		require.Equal(t, float32(1.0), v)
	}
}

func TestReadWriteRoundTripParallel(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 0, YMax: 255}
	h := scanLineHeader(attr.CompressionRLE, dw)
	m := &meta.Meta{Parts: []*meta.Header{h}}

	bufs, err := block.NewPartBuffers(attr.ChannelList{{Name: "Y", Type: attr.PixelFloat}}, dw)
	require.NoError(t, err)
	for i := range bufs["Y"].Float {
		bufs["Y"].Float[i] = float32(i)
	}
	parts := []*PartData{{Levels: map[LevelKey]block.PartBuffers{{}: bufs}}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, parts, WithWriteParallel(true)))

	_, sequential, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	_, parallel, err := Read(bytes.NewReader(buf.Bytes()), WithParallel(true))
	require.NoError(t, err)

	require.Equal(t, sequential[0].Levels[LevelKey{}]["Y"].Float, parallel[0].Levels[LevelKey{}]["Y"].Float)
}

func TestReadWriteMipmapLevels(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 63, YMax: 63}
	h := meta.NewHeader()
	h.Set("channels", attr.ChannelList{{Name: "Y", Type: attr.PixelHalf, XSampling: 1, YSampling: 1}})
	h.Set("compression", attr.CompressionAttr{Value: attr.CompressionNone})
	h.Set("dataWindow", dw)
	h.Set("displayWindow", dw)
	h.Set("lineOrder", attr.LineOrderAttr{Value: attr.LineOrderIncreasingY})
	h.Set("pixelAspectRatio", attr.Float(1.0))
	h.Set("screenWindowCenter", attr.V2f{})
	h.Set("screenWindowWidth", attr.Float(1.0))
	h.Set("tiles", attr.TileDesc{XSize: 32, YSize: 32, Mode: attr.LevelModeMipmap, Rounding: attr.RoundDown})

	m := &meta.Meta{Prefix: meta.Prefix{Tiled: true}, Parts: []*meta.Header{h}}

	levels := map[LevelKey]block.PartBuffers{}
	for l := 0; l < 7; l++ {
		size := 64 >> l
		if size < 1 {
			size = 1
		}
		box := attr.Box2i{XMin: 0, YMin: 0, XMax: int32(size - 1), YMax: int32(size - 1)}
		bufs, err := block.NewPartBuffers(attr.ChannelList{{Name: "Y", Type: attr.PixelHalf}}, box)
		require.NoError(t, err)
		for i := range bufs["Y"].Half {
			bufs["Y"].Half[i] = 0x3C00 // 1.0 in half
		}
		levels[LevelKey{l, l}] = bufs
	}
	parts := []*PartData{{Levels: levels}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, parts))

	gotMeta, gotParts, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	count, err := gotMeta.Parts[0].ChunkCount()
	require.NoError(t, err)
	require.Equal(t, 10, count)
	require.Len(t, gotParts[0].Levels, 7)
}

func TestReadChunkFilter(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 31}
	h := scanLineHeader(attr.CompressionNone, dw)
	m := &meta.Meta{Parts: []*meta.Header{h}}

	channels := attr.ChannelList{{Name: "Y", Type: attr.PixelFloat}}
	bufs, err := block.NewPartBuffers(channels, dw)
	require.NoError(t, err)
	for i := range bufs["Y"].Float {
		bufs["Y"].Float[i] = float32(i)
	}
	parts := []*PartData{{Levels: map[LevelKey]block.PartBuffers{{}: bufs}}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, parts))

	var seen []int
	_, gotParts, err := Read(bytes.NewReader(buf.Bytes()), WithChunkFilter(func(part int, rect attr.Box2i, level [2]int) bool {
		seen = append(seen, int(rect.YMin))

		return rect.YMin < 4
	}))
	require.NoError(t, err)
	require.NotEmpty(t, seen)

	// Unselected rows stay zeroed; selected rows carry their original
	// values.
	got := gotParts[0].Levels[LevelKey{}]["Y"].Float
	require.Equal(t, float32(0), got[0])
	require.Equal(t, float32(0), got[4*4]) // row 4, first sample: not selected
}

func TestReadWriteCancelled(t *testing.T) {
	dw := attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 1}
	h := scanLineHeader(attr.CompressionNone, dw)
	m := &meta.Meta{Parts: []*meta.Header{h}}

	bufs, err := block.NewPartBuffers(attr.ChannelList{{Name: "Y", Type: attr.PixelFloat}}, dw)
	require.NoError(t, err)
	parts := []*PartData{{Levels: map[LevelKey]block.PartBuffers{{}: bufs}}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, parts))

	cancel := &CancelFlag{}
	cancel.Cancel()

	_, _, err = Read(bytes.NewReader(buf.Bytes()), WithCancel(cancel))
	require.Error(t, err)
}
