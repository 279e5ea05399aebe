package attr

import "github.com/go-openexr/openexr/stream"

// Value is implemented by every recognised attribute payload type, plus
// Opaque for anything unrecognised. Decoding is not part of the
// interface: the package's per-type decode functions read a value's own
// body from a reader bounded to exactly the attribute's declared length
// (the caller has already consumed name/type/length); Encode writes the
// body with no surrounding framing - the caller computes and writes length.
type Value interface {
	Tag() string
	Encode(w *stream.Writer) error
}

// Box2i is an inclusive integer rectangle, used for data/display windows.
type Box2i struct{ XMin, YMin, XMax, YMax int32 }

func (Box2i) Tag() string { return "box2i" }

func (b Box2i) Encode(w *stream.Writer) error {
	for _, v := range []int32{b.XMin, b.YMin, b.XMax, b.YMax} {
		if err := w.WriteI32(v); err != nil {
			return err
		}
	}

	return nil
}

// Width returns the inclusive pixel width of the rectangle.
func (b Box2i) Width() int { return int(b.XMax-b.XMin) + 1 }

// Height returns the inclusive pixel height of the rectangle.
func (b Box2i) Height() int { return int(b.YMax-b.YMin) + 1 }

// Empty reports whether the rectangle fails to cover at least one pixel.
func (b Box2i) Empty() bool { return b.XMax < b.XMin || b.YMax < b.YMin }

func decodeBox2i(r *stream.Reader) (Box2i, error) {
	var b Box2i
	vals := make([]int32, 4)
	for i := range vals {
		v, err := r.ReadI32()
		if err != nil {
			return b, err
		}
		vals[i] = v
	}

	return Box2i{vals[0], vals[1], vals[2], vals[3]}, nil
}

// Box2f is a float rectangle, used for the screen-window family.
type Box2f struct{ XMin, YMin, XMax, YMax float32 }

func (Box2f) Tag() string { return "box2f" }

func (b Box2f) Encode(w *stream.Writer) error {
	for _, v := range []float32{b.XMin, b.YMin, b.XMax, b.YMax} {
		if err := w.WriteF32(v); err != nil {
			return err
		}
	}

	return nil
}

func decodeBox2f(r *stream.Reader) (Box2f, error) {
	vals := make([]float32, 4)
	for i := range vals {
		v, err := r.ReadF32()
		if err != nil {
			return Box2f{}, err
		}
		vals[i] = v
	}

	return Box2f{vals[0], vals[1], vals[2], vals[3]}, nil
}

// Channel describes one entry of a ChannelList.
type Channel struct {
	Name       string
	Type       PixelType
	PLinear    bool
	XSampling  int32
	YSampling  int32
}

// ChannelList is the chlist attribute: an ordered sequence of channel
// descriptors, terminated on the wire by an empty name.
type ChannelList []Channel

func (ChannelList) Tag() string { return "chlist" }

func (cl ChannelList) Encode(w *stream.Writer) error {
	for _, c := range cl {
		if err := w.WriteCString(c.Name); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(c.Type)); err != nil {
			return err
		}
		var pl byte
		if c.PLinear {
			pl = 1
		}
		if err := w.WriteByte(pl); err != nil {
			return err
		}
		if err := w.WriteBytes([]byte{0, 0, 0}); err != nil { // reserved
			return err
		}
		if err := w.WriteI32(c.XSampling); err != nil {
			return err
		}
		if err := w.WriteI32(c.YSampling); err != nil {
			return err
		}
	}

	return w.WriteByte(0) // terminator: empty name
}

func decodeChannelList(r *stream.Reader, maxNameLen int) (ChannelList, error) {
	var cl ChannelList
	for {
		name, err := r.ReadCString(maxNameLen)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return cl, nil
		}

		typeU, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		plByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if _, err := r.ReadBytes(3, 3); err != nil { // reserved
			return nil, err
		}
		xs, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		ys, err := r.ReadI32()
		if err != nil {
			return nil, err
		}

		cl = append(cl, Channel{
			Name:      name,
			Type:      PixelType(typeU),
			PLinear:   plByte != 0,
			XSampling: xs,
			YSampling: ys,
		})
	}
}

// Chromaticities records the CIE xy chromaticity coordinates used to
// interpret RGB channel samples.
type Chromaticities struct {
	RedX, RedY     float32
	GreenX, GreenY float32
	BlueX, BlueY   float32
	WhiteX, WhiteY float32
}

func (Chromaticities) Tag() string { return "chromaticities" }

func (c Chromaticities) Encode(w *stream.Writer) error {
	for _, v := range []float32{c.RedX, c.RedY, c.GreenX, c.GreenY, c.BlueX, c.BlueY, c.WhiteX, c.WhiteY} {
		if err := w.WriteF32(v); err != nil {
			return err
		}
	}

	return nil
}

func decodeChromaticities(r *stream.Reader) (Chromaticities, error) {
	vals := make([]float32, 8)
	for i := range vals {
		v, err := r.ReadF32()
		if err != nil {
			return Chromaticities{}, err
		}
		vals[i] = v
	}

	return Chromaticities{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], vals[7]}, nil
}

// CompressionAttr wraps the one-byte compression tag.
type CompressionAttr struct{ Value Compression }

func (CompressionAttr) Tag() string { return "compression" }
func (c CompressionAttr) Encode(w *stream.Writer) error {
	return w.WriteByte(byte(c.Value))
}

// Double is a float64 attribute.
type Double float64

func (Double) Tag() string             { return "double" }
func (d Double) Encode(w *stream.Writer) error { return w.WriteF64(float64(d)) }

// EnvMapAttr wraps the one-byte environment-map tag.
type EnvMapAttr struct{ Value EnvMap }

func (EnvMapAttr) Tag() string { return "envmap" }
func (e EnvMapAttr) Encode(w *stream.Writer) error {
	return w.WriteByte(byte(e.Value))
}

// Float is a float32 attribute.
type Float float32

func (Float) Tag() string             { return "float" }
func (f Float) Encode(w *stream.Writer) error { return w.WriteF32(float32(f)) }

// Int is an int32 attribute.
type Int int32

func (Int) Tag() string             { return "int" }
func (i Int) Encode(w *stream.Writer) error { return w.WriteI32(int32(i)) }

// KeyCode records film keycode metadata, per the format's fixed 28-byte
// layout of seven int32 fields.
type KeyCode struct {
	FilmMfcCode   int32
	FilmType      int32
	Prefix        int32
	Count         int32
	PerfOffset    int32
	PerfsPerFrame int32
	PerfsPerCount int32
}

func (KeyCode) Tag() string { return "keycode" }

func (k KeyCode) Encode(w *stream.Writer) error {
	for _, v := range []int32{k.FilmMfcCode, k.FilmType, k.Prefix, k.Count, k.PerfOffset, k.PerfsPerFrame, k.PerfsPerCount} {
		if err := w.WriteI32(v); err != nil {
			return err
		}
	}

	return nil
}

func decodeKeyCode(r *stream.Reader) (KeyCode, error) {
	vals := make([]int32, 7)
	for i := range vals {
		v, err := r.ReadI32()
		if err != nil {
			return KeyCode{}, err
		}
		vals[i] = v
	}

	return KeyCode{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6]}, nil
}

// LineOrderAttr wraps the one-byte line-order tag.
type LineOrderAttr struct{ Value LineOrder }

func (LineOrderAttr) Tag() string { return "lineOrder" }
func (l LineOrderAttr) Encode(w *stream.Writer) error {
	return w.WriteByte(byte(l.Value))
}

// M33f is a row-major 3x3 float matrix.
type M33f [9]float32

func (M33f) Tag() string { return "m33f" }
func (m M33f) Encode(w *stream.Writer) error {
	for _, v := range m {
		if err := w.WriteF32(v); err != nil {
			return err
		}
	}

	return nil
}

func decodeM33f(r *stream.Reader) (M33f, error) {
	var m M33f
	for i := range m {
		v, err := r.ReadF32()
		if err != nil {
			return m, err
		}
		m[i] = v
	}

	return m, nil
}

// M44f is a row-major 4x4 float matrix.
type M44f [16]float32

func (M44f) Tag() string { return "m44f" }
func (m M44f) Encode(w *stream.Writer) error {
	for _, v := range m {
		if err := w.WriteF32(v); err != nil {
			return err
		}
	}

	return nil
}

func decodeM44f(r *stream.Reader) (M44f, error) {
	var m M44f
	for i := range m {
		v, err := r.ReadF32()
		if err != nil {
			return m, err
		}
		m[i] = v
	}

	return m, nil
}

// Rational is a numerator/denominator pair.
type Rational struct {
	Num int32
	Den uint32
}

func (Rational) Tag() string { return "rational" }
func (r Rational) Encode(w *stream.Writer) error {
	if err := w.WriteI32(r.Num); err != nil {
		return err
	}

	return w.WriteU32(r.Den)
}

func decodeRational(r *stream.Reader) (Rational, error) {
	n, err := r.ReadI32()
	if err != nil {
		return Rational{}, err
	}
	d, err := r.ReadU32()
	if err != nil {
		return Rational{}, err
	}

	return Rational{n, d}, nil
}

// String is a variable-length ASCII string stored without a terminator;
// its length is the attribute's declared byte length.
type String string

func (String) Tag() string { return "string" }
func (s String) Encode(w *stream.Writer) error {
	return w.WriteBytes([]byte(s))
}

// StringVector is an ordered sequence of length-prefixed strings.
type StringVector []string

func (StringVector) Tag() string { return "stringvector" }
func (sv StringVector) Encode(w *stream.Writer) error {
	for _, s := range sv {
		if err := w.WriteI32(int32(len(s))); err != nil { //nolint: gosec
			return err
		}
		if err := w.WriteBytes([]byte(s)); err != nil {
			return err
		}
	}

	return nil
}

func decodeStringVector(r *stream.Reader, maxLen int) (StringVector, error) {
	var sv StringVector
	for r.Remaining() > 0 {
		n, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadBytes(int(n), maxLen)
		if err != nil {
			return nil, err
		}
		sv = append(sv, string(b))
	}

	return sv, nil
}

// TileDesc is the tiledesc attribute.
type TileDesc struct {
	XSize    uint32
	YSize    uint32
	Mode     LevelMode
	Rounding RoundingMode
}

func (TileDesc) Tag() string { return "tiledesc" }
func (t TileDesc) Encode(w *stream.Writer) error {
	if err := w.WriteU32(t.XSize); err != nil {
		return err
	}
	if err := w.WriteU32(t.YSize); err != nil {
		return err
	}

	return w.WriteByte(byte(t.Mode) | byte(t.Rounding)<<4)
}

func decodeTileDesc(r *stream.Reader) (TileDesc, error) {
	x, err := r.ReadU32()
	if err != nil {
		return TileDesc{}, err
	}
	y, err := r.ReadU32()
	if err != nil {
		return TileDesc{}, err
	}
	mb, err := r.ReadByte()
	if err != nil {
		return TileDesc{}, err
	}

	return TileDesc{
		XSize:    x,
		YSize:    y,
		Mode:     LevelMode(mb & 0x0F),
		Rounding: RoundingMode((mb >> 4) & 0x0F),
	}, nil
}

// TimeCode is the SMPTE time-and-control-code attribute: two packed
// 32-bit fields, stored and round-tripped opaquely by the codec.
type TimeCode struct {
	TimeAndFlags uint32
	UserData     uint32
}

func (TimeCode) Tag() string { return "timecode" }
func (t TimeCode) Encode(w *stream.Writer) error {
	if err := w.WriteU32(t.TimeAndFlags); err != nil {
		return err
	}

	return w.WriteU32(t.UserData)
}

func decodeTimeCode(r *stream.Reader) (TimeCode, error) {
	a, err := r.ReadU32()
	if err != nil {
		return TimeCode{}, err
	}
	b, err := r.ReadU32()
	if err != nil {
		return TimeCode{}, err
	}

	return TimeCode{a, b}, nil
}

// V2i is an integer 2-vector.
type V2i struct{ X, Y int32 }

func (V2i) Tag() string { return "v2i" }
func (v V2i) Encode(w *stream.Writer) error {
	if err := w.WriteI32(v.X); err != nil {
		return err
	}

	return w.WriteI32(v.Y)
}

func decodeV2i(r *stream.Reader) (V2i, error) {
	x, err := r.ReadI32()
	if err != nil {
		return V2i{}, err
	}
	y, err := r.ReadI32()

	return V2i{x, y}, err
}

// V2f is a float 2-vector.
type V2f struct{ X, Y float32 }

func (V2f) Tag() string { return "v2f" }
func (v V2f) Encode(w *stream.Writer) error {
	if err := w.WriteF32(v.X); err != nil {
		return err
	}

	return w.WriteF32(v.Y)
}

func decodeV2f(r *stream.Reader) (V2f, error) {
	x, err := r.ReadF32()
	if err != nil {
		return V2f{}, err
	}
	y, err := r.ReadF32()

	return V2f{x, y}, err
}

// V3i is an integer 3-vector.
type V3i struct{ X, Y, Z int32 }

func (V3i) Tag() string { return "v3i" }
func (v V3i) Encode(w *stream.Writer) error {
	for _, c := range []int32{v.X, v.Y, v.Z} {
		if err := w.WriteI32(c); err != nil {
			return err
		}
	}

	return nil
}

func decodeV3i(r *stream.Reader) (V3i, error) {
	vals := make([]int32, 3)
	for i := range vals {
		v, err := r.ReadI32()
		if err != nil {
			return V3i{}, err
		}
		vals[i] = v
	}

	return V3i{vals[0], vals[1], vals[2]}, nil
}

// V3f is a float 3-vector.
type V3f struct{ X, Y, Z float32 }

func (V3f) Tag() string { return "v3f" }
func (v V3f) Encode(w *stream.Writer) error {
	for _, c := range []float32{v.X, v.Y, v.Z} {
		if err := w.WriteF32(c); err != nil {
			return err
		}
	}

	return nil
}

func decodeV3f(r *stream.Reader) (V3f, error) {
	vals := make([]float32, 3)
	for i := range vals {
		v, err := r.ReadF32()
		if err != nil {
			return V3f{}, err
		}
		vals[i] = v
	}

	return V3f{vals[0], vals[1], vals[2]}, nil
}

// Opaque is the payload of an attribute whose type tag is not
// recognised; it round-trips byte-identical.
type Opaque struct {
	TypeTag string
	Bytes   []byte
}

func (o Opaque) Tag() string { return o.TypeTag }
func (o Opaque) Encode(w *stream.Writer) error {
	return w.WriteBytes(o.Bytes)
}
