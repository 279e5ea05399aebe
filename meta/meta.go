package meta

import (
	"errors"

	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/stream"
)

var errNeedsSeek = errors.New("reader must be seekable to detect the multi-part terminator")

// Meta is the full meta-data model for one file: the fixed prefix plus
// one Header per part. Offset tables are the chunk package's concern,
// not this one's - Meta stops at "what is this file, and what does each
// part's header say", per §4.3.
type Meta struct {
	Prefix Prefix
	Parts  []*Header
}

// PartByName returns the part whose name attribute equals name.
func (m *Meta) PartByName(name string) (*Header, bool) {
	for _, p := range m.Parts {
		if n, ok := p.Name(); ok && n == name {
			return p, true
		}
	}

	return nil, false
}

// PartIndex returns the index of the part named name.
func (m *Meta) PartIndex(name string) (int, bool) {
	for i, p := range m.Parts {
		if n, ok := p.Name(); ok && n == name {
			return i, true
		}
	}

	return 0, false
}

// ReadMeta parses the fixed prefix and every part header, validates the
// result, and stops before the offset tables.
func ReadMeta(r *stream.Reader) (*Meta, error) {
	prefix, err := ReadPrefix(r)
	if err != nil {
		return nil, err
	}

	if prefix.MultiPart && !r.Seekable() {
		return nil, exrerr.IO("multi-part header parsing", errNeedsSeek)
	}

	m := &Meta{Prefix: prefix}
	maxNameLen := prefix.MaxNameLen()

	for {
		h, err := readHeader(r, maxNameLen)
		if err != nil {
			return nil, err
		}
		m.Parts = append(m.Parts, h)

		if !prefix.MultiPart {
			break
		}

		// In multi-part files, an extra empty header (a lone
		// terminator byte) follows the last part's own terminator.
		peek, err := r.ReadByte()
		if err != nil {
			return nil, exrerr.Wrap(exrerr.KindIO, "multi-part terminator", err)
		}
		if peek == 0 {
			break
		}
		if err := r.Seek(r.Offset() - 1); err != nil {
			return nil, err
		}
	}

	if len(m.Parts) == 0 {
		return nil, exrerr.Invalid("file declares no parts")
	}

	if err := Validate(m); err != nil {
		return nil, err
	}

	return m, nil
}

// Write emits the fixed prefix and every part header, followed by the
// multi-part double-null terminator when applicable. It does not write
// offset tables or chunk bodies.
func Write(w *stream.Writer, m *Meta) error {
	if err := Validate(m); err != nil {
		return err
	}

	if err := m.Prefix.Write(w); err != nil {
		return err
	}

	for _, h := range m.Parts {
		if err := writeHeader(w, h); err != nil {
			return err
		}
	}

	if m.Prefix.MultiPart {
		if err := w.WriteByte(0); err != nil {
			return exrerr.Wrap(exrerr.KindIO, "multi-part terminator", err)
		}
	}

	return nil
}
