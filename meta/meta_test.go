package meta

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/stream"
)

func scanLineHeader(name string, multiPart bool) *Header {
	h := NewHeader()
	h.Set("channels", attr.ChannelList{
		{Name: "Y", Type: attr.PixelFloat, XSampling: 1, YSampling: 1},
	})
	h.Set("compression", attr.CompressionAttr{Value: attr.CompressionNone})
	h.Set("dataWindow", attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 1})
	h.Set("displayWindow", attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 1})
	h.Set("lineOrder", attr.LineOrderAttr{Value: attr.LineOrderIncreasingY})
	h.Set("pixelAspectRatio", attr.Float(1.0))
	h.Set("screenWindowCenter", attr.V2f{X: 0, Y: 0})
	h.Set("screenWindowWidth", attr.Float(1.0))
	if multiPart {
		h.Set("name", attr.String(name))
		h.Set("type", attr.String(TypeScanLineImage))
	}

	return h
}

func TestReadWriteMetaSinglePart(t *testing.T) {
	m := &Meta{Parts: []*Header{scanLineHeader("", false)}}

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	require.NoError(t, Write(w, m))

	r := stream.NewBytesReader(buf.Bytes())
	got, err := ReadMeta(r)
	require.NoError(t, err)
	require.Len(t, got.Parts, 1)

	dw, err := got.Parts[0].DataWindow()
	require.NoError(t, err)
	require.Equal(t, 4, dw.Width())
	require.Equal(t, 2, dw.Height())
}

func TestReadWriteMetaMultiPart(t *testing.T) {
	m := &Meta{
		Prefix: Prefix{MultiPart: true},
		Parts: []*Header{
			scanLineHeader("a", true),
			scanLineHeader("b", true),
		},
	}

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	require.NoError(t, Write(w, m))

	r := stream.NewBytesReader(buf.Bytes())
	got, err := ReadMeta(r)
	require.NoError(t, err)
	require.Len(t, got.Parts, 2)

	names := []string{}
	for _, p := range got.Parts {
		n, ok := p.Name()
		require.True(t, ok)
		names = append(names, n)
	}
	require.Equal(t, []string{"a", "b"}, names)

	_, ok := got.PartByName("b")
	require.True(t, ok)
}

func TestValidateRejectsEmptyDataWindow(t *testing.T) {
	h := scanLineHeader("", false)
	h.Set("dataWindow", attr.Box2i{XMin: 5, YMin: 0, XMax: 3, YMax: 0})

	m := &Meta{Parts: []*Header{h}}
	err := Validate(m)
	require.Error(t, err)
}

func TestValidateRejectsRandomYOnScanLine(t *testing.T) {
	h := scanLineHeader("", false)
	h.Set("lineOrder", attr.LineOrderAttr{Value: attr.LineOrderRandomY})

	m := &Meta{Parts: []*Header{h}}
	err := Validate(m)
	require.Error(t, err)
}

func TestValidateRejectsMissingRequiredAttribute(t *testing.T) {
	h := NewHeader()
	h.Set("channels", attr.ChannelList{})

	m := &Meta{Parts: []*Header{h}}
	err := Validate(m)
	require.Error(t, err)
}

func TestMipmapChunkCount(t *testing.T) {
	h := NewHeader()
	h.Set("channels", attr.ChannelList{{Name: "Y", Type: attr.PixelFloat, XSampling: 1, YSampling: 1}})
	h.Set("compression", attr.CompressionAttr{Value: attr.CompressionNone})
	h.Set("dataWindow", attr.Box2i{XMin: 0, YMin: 0, XMax: 63, YMax: 63})
	h.Set("displayWindow", attr.Box2i{XMin: 0, YMin: 0, XMax: 63, YMax: 63})
	h.Set("lineOrder", attr.LineOrderAttr{Value: attr.LineOrderIncreasingY})
	h.Set("pixelAspectRatio", attr.Float(1.0))
	h.Set("screenWindowCenter", attr.V2f{})
	h.Set("screenWindowWidth", attr.Float(1.0))
	h.Set("tiles", attr.TileDesc{XSize: 32, YSize: 32, Mode: attr.LevelModeMipmap, Rounding: attr.RoundDown})

	count, err := h.ChunkCount()
	require.NoError(t, err)
	require.Equal(t, 10, count)
}

func TestScanLineChunkCount(t *testing.T) {
	h := scanLineHeader("", false)
	h.Set("dataWindow", attr.Box2i{XMin: 0, YMin: 0, XMax: 0, YMax: 4095})
	h.Set("compression", attr.CompressionAttr{Value: attr.CompressionZIP})

	count, err := h.ChunkCount()
	require.NoError(t, err)
	require.Equal(t, 256, count)
}
