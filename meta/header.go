package meta

import (
	"sort"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/stream"
)

// Required attribute names, per §4.3.
const (
	attrChannels           = "channels"
	attrCompression        = "compression"
	attrDataWindow         = "dataWindow"
	attrDisplayWindow      = "displayWindow"
	attrLineOrder          = "lineOrder"
	attrPixelAspectRatio   = "pixelAspectRatio"
	attrScreenWindowCenter = "screenWindowCenter"
	attrScreenWindowWidth  = "screenWindowWidth"
	attrTiles              = "tiles"
	attrName               = "name"
	attrType               = "type"
)

// Part type strings, per §3/§6.
const (
	TypeScanLineImage = "scanlineimage"
	TypeTiledImage    = "tiledimage"
	TypeDeepScanLine  = "deepscanline"
	TypeDeepTile      = "deeptile"
)

// Header is one part's attribute list, kept in the exact order read (or
// built) so that custom and unrecognised attributes round-trip
// byte-identical (§8 property 1). Required fields are pulled out by
// name on demand rather than duplicated into separate struct fields, so
// there is exactly one source of truth for what a header contains.
type Header struct {
	Attrs []*attr.Attribute
}

// NewHeader builds an empty header; callers append required and custom
// attributes with Set before handing it to Meta for writing.
func NewHeader() *Header {
	return &Header{}
}

// Attribute looks up an attribute by name.
func (h *Header) Attribute(name string) (*attr.Attribute, bool) {
	for _, a := range h.Attrs {
		if a.Name == name {
			return a, true
		}
	}

	return nil, false
}

// Set inserts or replaces an attribute, preserving its position if it
// already exists and appending otherwise.
func (h *Header) Set(name string, v attr.Value) {
	if a, ok := h.Attribute(name); ok {
		a.Value = v

		return
	}
	h.Attrs = append(h.Attrs, &attr.Attribute{Name: name, Value: v})
}

func (h *Header) required(name string) (attr.Value, error) {
	a, ok := h.Attribute(name)
	if !ok {
		return nil, exrerr.Missing("required attribute " + name)
	}

	return a.Value, nil
}

// Name returns the part's name attribute, if present.
func (h *Header) Name() (string, bool) {
	a, ok := h.Attribute(attrName)
	if !ok {
		return "", false
	}
	s, ok := a.Value.(attr.String)

	return string(s), ok
}

// Type returns the part's type-string attribute, if present.
func (h *Header) Type() (string, bool) {
	a, ok := h.Attribute(attrType)
	if !ok {
		return "", false
	}
	s, ok := a.Value.(attr.String)

	return string(s), ok
}

// DataWindow returns the required dataWindow attribute.
func (h *Header) DataWindow() (attr.Box2i, error) {
	v, err := h.required(attrDataWindow)
	if err != nil {
		return attr.Box2i{}, err
	}
	b, ok := v.(attr.Box2i)
	if !ok {
		return attr.Box2i{}, exrerr.Invalid("dataWindow has wrong attribute type")
	}

	return b, nil
}

// DisplayWindow returns the required displayWindow attribute.
func (h *Header) DisplayWindow() (attr.Box2i, error) {
	v, err := h.required(attrDisplayWindow)
	if err != nil {
		return attr.Box2i{}, err
	}
	b, ok := v.(attr.Box2i)
	if !ok {
		return attr.Box2i{}, exrerr.Invalid("displayWindow has wrong attribute type")
	}

	return b, nil
}

// PixelAspectRatio returns the required pixelAspectRatio attribute.
func (h *Header) PixelAspectRatio() (float32, error) {
	v, err := h.required(attrPixelAspectRatio)
	if err != nil {
		return 0, err
	}
	f, ok := v.(attr.Float)
	if !ok {
		return 0, exrerr.Invalid("pixelAspectRatio has wrong attribute type")
	}

	return float32(f), nil
}

// LineOrder returns the required lineOrder attribute.
func (h *Header) LineOrder() (attr.LineOrder, error) {
	v, err := h.required(attrLineOrder)
	if err != nil {
		return 0, err
	}
	l, ok := v.(attr.LineOrderAttr)
	if !ok {
		return 0, exrerr.Invalid("lineOrder has wrong attribute type")
	}

	return l.Value, nil
}

// Compression returns the required compression attribute.
func (h *Header) Compression() (attr.Compression, error) {
	v, err := h.required(attrCompression)
	if err != nil {
		return 0, err
	}
	c, ok := v.(attr.CompressionAttr)
	if !ok {
		return 0, exrerr.Invalid("compression has wrong attribute type")
	}

	return c.Value, nil
}

// Channels returns the required channels attribute, sorted by name
// ascending (§3: "sorted by name ascending at serialization").
func (h *Header) Channels() (attr.ChannelList, error) {
	v, err := h.required(attrChannels)
	if err != nil {
		return nil, err
	}
	cl, ok := v.(attr.ChannelList)
	if !ok {
		return nil, exrerr.Invalid("channels has wrong attribute type")
	}

	sorted := make(attr.ChannelList, len(cl))
	copy(sorted, cl)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	return sorted, nil
}

// Tiles returns the tiles attribute and whether it is present.
func (h *Header) Tiles() (attr.TileDesc, bool) {
	a, ok := h.Attribute(attrTiles)
	if !ok {
		return attr.TileDesc{}, false
	}
	t, ok := a.Value.(attr.TileDesc)

	return t, ok
}

// IsTiled reports whether this header carries a tiles attribute.
func (h *Header) IsTiled() bool {
	_, ok := h.Tiles()

	return ok
}

func readHeader(r *stream.Reader, maxNameLen int) (*Header, error) {
	h := NewHeader()
	for {
		a, err := attr.Read(r, maxNameLen)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return h, nil
		}
		h.Attrs = append(h.Attrs, a)
	}
}

func writeHeader(w *stream.Writer, h *Header) error {
	for _, a := range h.Attrs {
		if err := attr.Write(w, a); err != nil {
			return err
		}
	}

	return w.WriteByte(0) // header terminator: empty name
}
