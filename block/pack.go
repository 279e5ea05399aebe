package block

import (
	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/internal/exrerr"
)

// PackedSize returns the canonical packed byte length of rect under
// channels: rect's pixel count times the sum of each channel's native
// byte width.
func PackedSize(channels attr.ChannelList, rect attr.Box2i) int {
	pixels := rect.Width() * rect.Height()

	rowBytes := 0
	for _, c := range channels {
		rowBytes += c.Type.ByteWidth()
	}

	return pixels * rowBytes
}

// PackRegion writes rect's pixels, scanline by scanline and channel by
// channel in the order channels lists them (ascending name order, as
// meta.Header.Channels returns it), into the canonical packed layout
// (§4.6). bufs holds the full per-part sample buffers indexed against
// dataWindow; rect must lie within dataWindow.
func PackRegion(channels attr.ChannelList, rect, dataWindow attr.Box2i, bufs PartBuffers) ([]byte, error) {
	out := make([]byte, PackedSize(channels, rect))
	pos := 0

	dwWidth := dataWindow.Width()
	rowWidth := rect.Width()

	for y := rect.YMin; y <= rect.YMax; y++ {
		for _, c := range channels {
			buf, ok := bufs[c.Name]
			if !ok {
				return nil, exrerr.Invalid("missing sample buffer for channel " + c.Name)
			}

			rowStart := int(y-dataWindow.YMin)*dwWidth + int(rect.XMin-dataWindow.XMin)
			if rowStart < 0 || rowStart+rowWidth > buf.Len() {
				return nil, exrerr.Invalid("block rectangle exceeds channel buffer bounds")
			}

			n, err := packRow(out[pos:], buf, rowStart, rowWidth)
			if err != nil {
				return nil, err
			}
			pos += n
		}
	}

	return out, nil
}

func packRow(dst []byte, buf Buffer, start, n int) (int, error) {
	switch buf.Type {
	case attr.PixelFloat:
		for i := 0; i < n; i++ {
			putU32(dst[i*4:], floatBits(buf.Float[start+i]))
		}

		return n * 4, nil
	case attr.PixelUint:
		for i := 0; i < n; i++ {
			putU32(dst[i*4:], buf.Uint[start+i])
		}

		return n * 4, nil
	case attr.PixelHalf:
		for i := 0; i < n; i++ {
			putU16(dst[i*2:], buf.Half[start+i].Bits())
		}

		return n * 2, nil
	default:
		return 0, exrerr.Invalid("unknown pixel type")
	}
}

// UnpackRegion is PackRegion's inverse: it reads rect's packed bytes and
// fills the matching slots of bufs.
func UnpackRegion(channels attr.ChannelList, rect, dataWindow attr.Box2i, data []byte, bufs PartBuffers) error {
	if len(data) != PackedSize(channels, rect) {
		return exrerr.InvalidSize("packed block has unexpected length")
	}

	pos := 0
	dwWidth := dataWindow.Width()
	rowWidth := rect.Width()

	for y := rect.YMin; y <= rect.YMax; y++ {
		for _, c := range channels {
			buf, ok := bufs[c.Name]
			if !ok {
				return exrerr.Invalid("missing sample buffer for channel " + c.Name)
			}

			rowStart := int(y-dataWindow.YMin)*dwWidth + int(rect.XMin-dataWindow.XMin)
			if rowStart < 0 || rowStart+rowWidth > buf.Len() {
				return exrerr.Invalid("block rectangle exceeds channel buffer bounds")
			}

			n, err := unpackRow(data[pos:], buf, rowStart, rowWidth)
			if err != nil {
				return err
			}
			pos += n
		}
	}

	return nil
}

func unpackRow(src []byte, buf Buffer, start, n int) (int, error) {
	switch buf.Type {
	case attr.PixelFloat:
		for i := 0; i < n; i++ {
			buf.Float[start+i] = floatFromBits(getU32(src[i*4:]))
		}

		return n * 4, nil
	case attr.PixelUint:
		for i := 0; i < n; i++ {
			buf.Uint[start+i] = getU32(src[i*4:])
		}

		return n * 4, nil
	case attr.PixelHalf:
		for i := 0; i < n; i++ {
			buf.Half[start+i] = halfFromBits(getU16(src[i*2:]))
		}

		return n * 2, nil
	default:
		return 0, exrerr.Invalid("unknown pixel type")
	}
}
