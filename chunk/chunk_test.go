package chunk

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/meta"
	"github.com/go-openexr/openexr/stream"
)

func header(dw attr.Box2i, comp attr.Compression, lo attr.LineOrder, tiles *attr.TileDesc) *meta.Header {
	h := meta.NewHeader()
	h.Set("channels", attr.ChannelList{{Name: "Y", Type: attr.PixelFloat, XSampling: 1, YSampling: 1}})
	h.Set("compression", attr.CompressionAttr{Value: comp})
	h.Set("dataWindow", dw)
	h.Set("displayWindow", dw)
	h.Set("lineOrder", attr.LineOrderAttr{Value: lo})
	h.Set("pixelAspectRatio", attr.Float(1.0))
	h.Set("screenWindowCenter", attr.V2f{})
	h.Set("screenWindowWidth", attr.Float(1.0))
	if tiles != nil {
		h.Set("tiles", *tiles)
	}

	return h
}

func TestScanLineLayoutIncreasingY(t *testing.T) {
	h := header(attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 7}, attr.CompressionNone, attr.LineOrderIncreasingY, nil)

	ids, err := Layout(h, 0)
	require.NoError(t, err)
	require.Len(t, ids, 8)
	require.Equal(t, 0, ids[0].Y)
	require.Equal(t, 7, ids[7].Y)
}

func TestScanLineLayoutDecreasingY(t *testing.T) {
	h := header(attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 7}, attr.CompressionNone, attr.LineOrderDecreasingY, nil)

	ids, err := Layout(h, 0)
	require.NoError(t, err)
	require.Equal(t, 7, ids[0].Y)
	require.Equal(t, 0, ids[len(ids)-1].Y)
}

func TestScanLineLayoutZipBlockHeight(t *testing.T) {
	h := header(attr.Box2i{XMin: 0, YMin: 0, XMax: 0, YMax: 4095}, attr.CompressionZIP, attr.LineOrderIncreasingY, nil)

	ids, err := Layout(h, 0)
	require.NoError(t, err)
	require.Len(t, ids, 256)
	require.Equal(t, 16, ids[0].Height)
}

func TestTiledLayoutMipmapCount(t *testing.T) {
	tiles := attr.TileDesc{XSize: 32, YSize: 32, Mode: attr.LevelModeMipmap, Rounding: attr.RoundDown}
	h := header(attr.Box2i{XMin: 0, YMin: 0, XMax: 63, YMax: 63}, attr.CompressionNone, attr.LineOrderIncreasingY, &tiles)

	ids, err := Layout(h, 0)
	require.NoError(t, err)
	require.Len(t, ids, 10)
}

func TestOffsetTableRoundTrip(t *testing.T) {
	h := header(attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 7}, attr.CompressionNone, attr.LineOrderIncreasingY, nil)

	f, err := os.CreateTemp(t.TempDir(), "offsets")
	require.NoError(t, err)
	defer f.Close()
	w := stream.NewWriter(f)
	require.NoError(t, WritePlaceholder(w, 8))

	want := Table{10, 20, 30, 40, 50, 60, 70, 80}
	require.NoError(t, Patch(w, 0, want))

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	r := stream.NewBytesReader(data)
	got, err := ReadOffsetTables(r, []*meta.Header{h}, true)
	require.NoError(t, err)
	require.Equal(t, want, got[0])
}

func TestOffsetTableUnwrittenEntryPedanticFails(t *testing.T) {
	h := header(attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 7}, attr.CompressionNone, attr.LineOrderIncreasingY, nil)

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	require.NoError(t, WritePlaceholder(w, 8))

	// A crash between WritePlaceholder and the final Patch leaves every
	// entry at its zero placeholder value.
	r := stream.NewBytesReader(buf.Bytes())
	_, err := ReadOffsetTables(r, []*meta.Header{h}, true)
	require.Error(t, err)
}

func TestOffsetTableUnwrittenEntryNonPedanticTolerated(t *testing.T) {
	h := header(attr.Box2i{XMin: 0, YMin: 0, XMax: 3, YMax: 7}, attr.CompressionNone, attr.LineOrderIncreasingY, nil)

	f, err := os.CreateTemp(t.TempDir(), "offsets")
	require.NoError(t, err)
	defer f.Close()
	w := stream.NewWriter(f)
	require.NoError(t, WritePlaceholder(w, 8))
	require.NoError(t, Patch(w, 0, Table{10, 20, 0, 0, 50, 60, 70, 80}))

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	r := stream.NewBytesReader(data)
	got, err := ReadOffsetTables(r, []*meta.Header{h}, false)
	require.NoError(t, err)
	require.Equal(t, Table{10, 20, 0, 0, 50, 60, 70, 80}, got[0])
}

func TestScanLineBodyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	body := ScanLineBody{Y: 42, Data: []byte{1, 2, 3, 4, 5}}
	require.NoError(t, WriteScanLineBody(w, body, true))

	r := stream.NewBytesReader(buf.Bytes())
	got, err := ReadScanLineBody(r, true, 1<<20)
	require.NoError(t, err)
	require.Equal(t, body.Y, got.Y)
	require.Equal(t, body.Data, got.Data)
}

func TestTileBodyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	body := TileBody{PartNumber: 2, TileX: 1, TileY: 2, LevelX: 0, LevelY: 0, Data: []byte{9, 8, 7}}
	require.NoError(t, WriteTileBody(w, body, false))

	r := stream.NewBytesReader(buf.Bytes())
	got, err := ReadTileBody(r, false, 1<<20)
	require.NoError(t, err)
	require.Equal(t, body, got)
}
