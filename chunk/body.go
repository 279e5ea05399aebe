package chunk

import (
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/stream"
)

// ScanLineBody is one scan-line chunk's framing plus compressed payload,
// per §4.4's layout: partNumber? · yCoordinate · dataSize · data.
type ScanLineBody struct {
	PartNumber int32 // only meaningful, and only present on the wire, in multi-part files
	Y          int32
	Data       []byte
}

// TileBody is one tile chunk's framing plus compressed payload:
// partNumber? · tileX · tileY · levelX · levelY · dataSize · data.
type TileBody struct {
	PartNumber int32
	TileX      int32
	TileY      int32
	LevelX     int32
	LevelY     int32
	Data       []byte
}

// WriteScanLineBody emits one scan-line chunk. omitPartNumber is true
// for single-part files, where the partNumber field does not appear on
// the wire at all.
func WriteScanLineBody(w *stream.Writer, b ScanLineBody, omitPartNumber bool) error {
	if !omitPartNumber {
		if err := w.WriteI32(b.PartNumber); err != nil {
			return exrerr.Wrap(exrerr.KindIO, "chunk part number", err)
		}
	}
	if err := w.WriteI32(b.Y); err != nil {
		return exrerr.Wrap(exrerr.KindIO, "chunk y coordinate", err)
	}
	if err := w.WriteI32(int32(len(b.Data))); err != nil { //nolint: gosec
		return exrerr.Wrap(exrerr.KindIO, "chunk data size", err)
	}

	return w.WriteBytes(b.Data)
}

// ReadScanLineBody reads one scan-line chunk's framing and payload.
// maxDataSize bounds the allocation driven by the decoded dataSize field.
func ReadScanLineBody(r *stream.Reader, omitPartNumber bool, maxDataSize int) (ScanLineBody, error) {
	var b ScanLineBody

	if !omitPartNumber {
		p, err := r.ReadI32()
		if err != nil {
			return b, exrerr.Wrap(exrerr.KindIO, "chunk part number", err)
		}
		b.PartNumber = p
	}

	y, err := r.ReadI32()
	if err != nil {
		return b, exrerr.Wrap(exrerr.KindIO, "chunk y coordinate", err)
	}
	b.Y = y

	size, err := r.ReadI32()
	if err != nil {
		return b, exrerr.Wrap(exrerr.KindIO, "chunk data size", err)
	}
	if size < 0 {
		return b, exrerr.Invalid("negative chunk data size")
	}

	data, err := r.ReadBytes(int(size), maxDataSize)
	if err != nil {
		return b, exrerr.Wrap(exrerr.KindInvalid, "chunk data", err)
	}
	b.Data = data

	return b, nil
}

// WriteTileBody emits one tile chunk.
func WriteTileBody(w *stream.Writer, b TileBody, omitPartNumber bool) error {
	if !omitPartNumber {
		if err := w.WriteI32(b.PartNumber); err != nil {
			return exrerr.Wrap(exrerr.KindIO, "chunk part number", err)
		}
	}
	for _, v := range []int32{b.TileX, b.TileY, b.LevelX, b.LevelY} {
		if err := w.WriteI32(v); err != nil {
			return exrerr.Wrap(exrerr.KindIO, "tile coordinate", err)
		}
	}
	if err := w.WriteI32(int32(len(b.Data))); err != nil { //nolint: gosec
		return exrerr.Wrap(exrerr.KindIO, "chunk data size", err)
	}

	return w.WriteBytes(b.Data)
}

// ReadTileBody reads one tile chunk's framing and payload.
func ReadTileBody(r *stream.Reader, omitPartNumber bool, maxDataSize int) (TileBody, error) {
	var b TileBody

	if !omitPartNumber {
		p, err := r.ReadI32()
		if err != nil {
			return b, exrerr.Wrap(exrerr.KindIO, "chunk part number", err)
		}
		b.PartNumber = p
	}

	vals := make([]int32, 4)
	for i := range vals {
		v, err := r.ReadI32()
		if err != nil {
			return b, exrerr.Wrap(exrerr.KindIO, "tile coordinate", err)
		}
		vals[i] = v
	}
	b.TileX, b.TileY, b.LevelX, b.LevelY = vals[0], vals[1], vals[2], vals[3]

	size, err := r.ReadI32()
	if err != nil {
		return b, exrerr.Wrap(exrerr.KindIO, "chunk data size", err)
	}
	if size < 0 {
		return b, exrerr.Invalid("negative chunk data size")
	}

	data, err := r.ReadBytes(int(size), maxDataSize)
	if err != nil {
		return b, exrerr.Wrap(exrerr.KindInvalid, "chunk data", err)
	}
	b.Data = data

	return b, nil
}
