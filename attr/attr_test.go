package attr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-openexr/openexr/stream"
)

func roundTrip(t *testing.T, a *Attribute) *Attribute {
	t.Helper()

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	require.NoError(t, Write(w, a))

	r := stream.NewBytesReader(buf.Bytes())
	got, err := Read(r, stream.MaxLongName)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, a.Name, got.Name)

	return got
}

func TestAttributeRoundTripStructuredTypes(t *testing.T) {
	cases := []*Attribute{
		{Name: "dataWindow", Value: Box2i{0, 0, 99, 49}},
		{Name: "screenWindowCenter", Value: V2f{0.25, -0.5}},
		{Name: "pixelAspectRatio", Value: Float(1.0)},
		{Name: "someInt", Value: Int(-7)},
		{Name: "someDouble", Value: Double(3.14159265358979)},
		{Name: "compression", Value: CompressionAttr{Value: CompressionZIP}},
		{Name: "lineOrder", Value: LineOrderAttr{Value: LineOrderDecreasingY}},
		{Name: "chromaticities", Value: Chromaticities{0.64, 0.33, 0.3, 0.6, 0.15, 0.06, 0.3127, 0.329}},
		{Name: "owner", Value: String("studio")},
		{Name: "tags", Value: StringVector{"alpha", "beta", "gamma"}},
		{Name: "tiles", Value: TileDesc{XSize: 32, YSize: 32, Mode: LevelModeMipmap, Rounding: RoundDown}},
		{Name: "timeCode", Value: TimeCode{TimeAndFlags: 0x01234567, UserData: 0x89ABCDEF}},
		{Name: "worldToCam", Value: M44f{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}},
		{Name: "v3", Value: V3f{1, 2, 3}},
		{
			Name: "channels",
			Value: ChannelList{
				{Name: "B", Type: PixelHalf, XSampling: 1, YSampling: 1},
				{Name: "G", Type: PixelHalf, XSampling: 1, YSampling: 1},
				{Name: "R", Type: PixelHalf, XSampling: 1, YSampling: 1},
			},
		},
	}

	for _, c := range cases {
		got := roundTrip(t, c)
		require.Equal(t, c.Value.Tag(), got.Value.Tag())
		require.Equal(t, c.Value, got.Value, "attribute %s", c.Name)
	}
}

func TestAttributeOpaqueRoundTrip(t *testing.T) {
	a := &Attribute{Name: "vendorBlob", Value: Opaque{TypeTag: "vendorType", Bytes: []byte{0xDE, 0xAD, 0xBE, 0xEF}}}
	got := roundTrip(t, a)

	opaque, ok := got.Value.(Opaque)
	require.True(t, ok)
	require.Equal(t, "vendorType", opaque.TypeTag)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, opaque.Bytes)
}

func TestHeaderTerminator(t *testing.T) {
	r := stream.NewBytesReader([]byte{0})
	a, err := Read(r, stream.MaxLongName)
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestAttributeNameTooLong(t *testing.T) {
	longName := bytes.Repeat([]byte{'a'}, stream.MaxShortName+5)
	longName = append(longName, 0)

	r := stream.NewBytesReader(longName)
	_, err := Read(r, stream.MaxShortName)
	require.Error(t, err)
}
