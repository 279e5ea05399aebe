// Package meta implements the meta-data model: the file's fixed prefix,
// one Header per part, the cross-attribute validations of §3, and the
// derived accessors (resolution levels, chunk counts, byte widths) every
// later layer depends on.
package meta

import (
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/stream"
)

// MagicNumber is the fixed four-byte signature at the start of every
// file.
const MagicNumber uint32 = 0x01312F76

const (
	versionMask    = 0xFF
	tiledBit       = 1 << 9
	longNameBit    = 1 << 10
	deepDataBit    = 1 << 11
	multiPartBit   = 1 << 12
	supportedMajor = 2
)

// Prefix is the file's fixed 8-byte opening: a magic number and a
// version field carrying the major version plus four feature bits.
type Prefix struct {
	Tiled     bool
	LongName  bool
	DeepData  bool
	MultiPart bool
}

// MaxNameLen returns the attribute/part name bound this prefix implies:
// 255 bytes with the long-name bit set, 31 otherwise.
func (p Prefix) MaxNameLen() int {
	if p.LongName {
		return stream.MaxLongName
	}

	return stream.MaxShortName
}

// ReadPrefix reads and validates the magic number and version field.
func ReadPrefix(r *stream.Reader) (Prefix, error) {
	magic, err := r.ReadU32()
	if err != nil {
		return Prefix{}, exrerr.Wrap(exrerr.KindIO, "magic number", err)
	}
	if magic != MagicNumber {
		return Prefix{}, exrerr.NotExr("bad magic number")
	}

	version, err := r.ReadU32()
	if err != nil {
		return Prefix{}, exrerr.Wrap(exrerr.KindIO, "version field", err)
	}
	if version&versionMask != supportedMajor {
		return Prefix{}, exrerr.NotExr("unsupported version")
	}

	return Prefix{
		Tiled:     version&tiledBit != 0,
		LongName:  version&longNameBit != 0,
		DeepData:  version&deepDataBit != 0,
		MultiPart: version&multiPartBit != 0,
	}, nil
}

// Write emits the magic number and version field.
func (p Prefix) Write(w *stream.Writer) error {
	if err := w.WriteU32(MagicNumber); err != nil {
		return exrerr.Wrap(exrerr.KindIO, "magic number", err)
	}

	version := uint32(supportedMajor)
	if p.Tiled {
		version |= tiledBit
	}
	if p.LongName {
		version |= longNameBit
	}
	if p.DeepData {
		version |= deepDataBit
	}
	if p.MultiPart {
		version |= multiPartBit
	}

	if err := w.WriteU32(version); err != nil {
		return exrerr.Wrap(exrerr.KindIO, "version field", err)
	}

	return nil
}
