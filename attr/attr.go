// Package attr implements the OpenEXR header attribute model: the
// tagged (name, type, length, payload) universe used by every header.
// Recognised type tags decode to structured Go values; unrecognised
// tags decode to Opaque and round-trip byte-identical.
package attr

import (
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/stream"
)

// Attribute is one (name, value) pair from a part header.
type Attribute struct {
	Name  string
	Value Value
}

// Read decodes one attribute: name, type tag, length, then a dispatch on
// the tag. maxNameLen bounds both the name and the type tag per the
// long-name bit (31 or 255 bytes, §3). A zero-length name signals the
// header terminator and is reported by returning (nil, nil).
func Read(r *stream.Reader, maxNameLen int) (*Attribute, error) {
	name, err := r.ReadCString(maxNameLen)
	if err != nil {
		return nil, exrerr.Wrap(exrerr.KindInvalid, "attribute name", err)
	}
	if name == "" {
		return nil, nil
	}

	typeTag, err := r.ReadCString(maxNameLen)
	if err != nil {
		return nil, exrerr.Wrap(exrerr.KindInvalid, "attribute type", err)
	}

	length, err := r.ReadI32()
	if err != nil {
		return nil, exrerr.Wrap(exrerr.KindInvalid, "attribute length", err)
	}
	if length < 0 {
		return nil, exrerr.Invalid("attribute length is negative")
	}
	if err := r.CheckLength(int64(length)); err != nil {
		return nil, err
	}

	payload, err := r.ReadBytes(int(length), int(length))
	if err != nil {
		return nil, exrerr.Wrap(exrerr.KindInvalid, "attribute payload", err)
	}

	value, err := decodeValue(typeTag, payload, maxNameLen)
	if err != nil {
		return nil, err
	}

	return &Attribute{Name: name, Value: value}, nil
}

// decodeValue dispatches on typeTag over the attribute's exact payload
// bytes. Unrecognised tags decode to Opaque, preserving the raw bytes
// and the original tag so Write round-trips them unchanged.
func decodeValue(typeTag string, payload []byte, maxNameLen int) (Value, error) {
	sub := stream.NewBytesReader(payload)

	switch typeTag {
	case "box2i":
		return decodeBox2i(sub)
	case "box2f":
		return decodeBox2f(sub)
	case "chlist":
		return decodeChannelList(sub, maxNameLen)
	case "chromaticities":
		return decodeChromaticities(sub)
	case "compression":
		b, err := sub.ReadByte()
		if err != nil {
			return nil, err
		}

		return CompressionAttr{Value: Compression(b)}, nil
	case "double":
		v, err := sub.ReadF64()

		return Double(v), err
	case "envmap":
		b, err := sub.ReadByte()
		if err != nil {
			return nil, err
		}

		return EnvMapAttr{Value: EnvMap(b)}, nil
	case "float":
		v, err := sub.ReadF32()

		return Float(v), err
	case "int":
		v, err := sub.ReadI32()

		return Int(v), err
	case "keycode":
		return decodeKeyCode(sub)
	case "lineOrder":
		b, err := sub.ReadByte()
		if err != nil {
			return nil, err
		}

		return LineOrderAttr{Value: LineOrder(b)}, nil
	case "m33f":
		return decodeM33f(sub)
	case "m44f":
		return decodeM44f(sub)
	case "rational":
		return decodeRational(sub)
	case "string":
		return String(payload), nil
	case "stringvector":
		return decodeStringVector(sub, len(payload))
	case "tiledesc":
		return decodeTileDesc(sub)
	case "timecode":
		return decodeTimeCode(sub)
	case "v2i":
		return decodeV2i(sub)
	case "v2f":
		return decodeV2f(sub)
	case "v3i":
		return decodeV3i(sub)
	case "v3f":
		return decodeV3f(sub)
	default:
		return Opaque{TypeTag: typeTag, Bytes: payload}, nil
	}
}

// Write encodes one attribute: name, type tag, length, payload. The
// payload is first encoded to a scratch buffer so its length can be
// written before the bytes themselves.
func Write(w *stream.Writer, a *Attribute) error {
	if err := w.WriteCString(a.Name); err != nil {
		return exrerr.IO("attribute name", err)
	}
	if err := w.WriteCString(a.Value.Tag()); err != nil {
		return exrerr.IO("attribute type", err)
	}

	var buf valueBuffer
	vw := stream.NewWriter(&buf)
	if err := a.Value.Encode(vw); err != nil {
		return exrerr.Wrap(exrerr.KindInvalid, "attribute payload", err)
	}

	if err := w.WriteI32(int32(len(buf))); err != nil { //nolint: gosec
		return exrerr.IO("attribute length", err)
	}

	return w.WriteBytes(buf)
}

// valueBuffer is a minimal io.Writer backed by a growable byte slice,
// used to compute an attribute payload's encoded length before writing
// the length field.
type valueBuffer []byte

func (b *valueBuffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)

	return len(p), nil
}
