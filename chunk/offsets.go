package chunk

import (
	"errors"

	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/meta"
	"github.com/go-openexr/openexr/stream"
)

var errNotSeekable = errors.New("sink does not support seeking")

// Table is one part's offset table: the absolute file offset of each of
// its chunks, indexed in the same order Layout returns.
type Table []int64

// ReadOffsetTables reads one Table per part, immediately following the
// part headers, in part order.
//
// A chunk whose writer crashed or was killed before flushing the final
// offset patch (§4.4's two-pass write) leaves its table entry at its
// placeholder value of 0 - never a real file offset, since every file
// opens with the magic number and version first. pedantic controls how
// that's handled: pedantic mode treats it as the corrupt/incomplete file
// it is and fails here, at the table, with a clear error; non-pedantic
// mode tolerates it, leaving the entry at 0 so the caller can still
// recover every chunk the file does have valid data for (§6 "pedantic").
func ReadOffsetTables(r *stream.Reader, parts []*meta.Header, pedantic bool) ([]Table, error) {
	tables := make([]Table, len(parts))

	for i, p := range parts {
		count, err := p.ChunkCount()
		if err != nil {
			return nil, err
		}
		if err := r.CheckLength(int64(count) * 8); err != nil {
			return nil, err
		}

		t := make(Table, count)
		for j := range t {
			off, err := r.ReadI64()
			if err != nil {
				return nil, exrerr.Wrap(exrerr.KindIO, "offset table entry", err)
			}
			if off <= 0 {
				if pedantic {
					return nil, exrerr.Invalid("offset table entry is unwritten or corrupt")
				}
				off = 0
			}
			t[j] = off
		}
		tables[i] = t
	}

	return tables, nil
}

// WritePlaceholder reserves the offset table's space with zeroed
// entries, to be back-patched once chunk bodies have been written and
// their real offsets are known (the writer needs a seekable sink for
// this two-pass approach, per §4.4).
func WritePlaceholder(w *stream.Writer, count int) error {
	for i := 0; i < count; i++ {
		if err := w.WriteI64(0); err != nil {
			return exrerr.Wrap(exrerr.KindIO, "offset table placeholder", err)
		}
	}

	return nil
}

// WriteTable writes a fully resolved offset table in place, for direct
// writes where the caller already knows every chunk's offset (e.g. when
// chunk bodies are buffered in memory before any of the file is
// emitted).
func WriteTable(w *stream.Writer, t Table) error {
	for _, off := range t {
		if err := w.WriteI64(off); err != nil {
			return exrerr.Wrap(exrerr.KindIO, "offset table entry", err)
		}
	}

	return nil
}

// Patch overwrites one part's offset table at its reserved file
// position. pos is the absolute offset the table starts at (the
// position the writer was at right before calling WritePlaceholder for
// this part).
func Patch(w *stream.Writer, pos int64, t Table) error {
	if !w.Seekable() {
		return exrerr.IO("offset table patch", errNotSeekable)
	}
	if err := w.Seek(pos); err != nil {
		return err
	}

	return WriteTable(w, t)
}
