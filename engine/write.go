package engine

import (
	"io"
	"sync"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/block"
	"github.com/go-openexr/openexr/chunk"
	"github.com/go-openexr/openexr/compress"
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/internal/options"
	"github.com/go-openexr/openexr/meta"
	"github.com/go-openexr/openexr/stream"
)

// Write validates m, packs and compresses every part's samples, and emits
// the complete file to w: prefix, headers, offset tables, chunk bodies
// (§4.7 "write path"). Compression is fanned out across a worker pool in
// parallel mode; regardless of mode the chunk order - and therefore the
// emitted bytes - is always the layout order, so parallel and sequential
// writes of the same image are byte-identical (§8 property 6).
//
// If CompressionOverride is set, every part's compression attribute is
// rewritten in place on m before anything is packed, so the written file
// is internally consistent with the codec actually used.
func Write(w io.Writer, m *meta.Meta, parts []*PartData, opts ...WriteOption) error {
	o := defaultWriteOptions()
	if err := options.Apply(o, opts...); err != nil {
		return err
	}

	if o.CompressionOverride != nil {
		for _, h := range m.Parts {
			h.Set("compression", attr.CompressionAttr{Value: *o.CompressionOverride})
		}
	}

	pcs, err := buildPartCodecs(m.Parts)
	if err != nil {
		return err
	}

	allItems := make([][]workItem, len(m.Parts))
	for pi, h := range m.Parts {
		ids, err := chunk.Layout(h, pi)
		if err != nil {
			return err
		}
		its, err := buildItems(h, pi, ids, pcs[pi].dw, nil)
		if err != nil {
			return err
		}
		allItems[pi] = its
	}

	results := make([][][]byte, len(m.Parts))
	for pi := range results {
		results[pi] = make([][]byte, len(allItems[pi]))
	}

	if o.Parallel {
		err = compressParallel(parts, pcs, allItems, results, o)
	} else {
		err = compressSequential(parts, pcs, allItems, results, o)
	}
	if err != nil {
		return err
	}

	return emit(w, m, allItems, results)
}

func packAndCompress(pc partCodec, pd *PartData, item workItem) ([]byte, error) {
	bufs := pd.Levels[LevelKey{item.id.LevelX, item.id.LevelY}]

	packed, err := block.PackRegion(pc.channels, item.rect, item.levelBox, bufs)
	if err != nil {
		return nil, err
	}

	data, _, err := compress.CompressChunk(pc.codec, packed)

	return data, err
}

func compressSequential(parts []*PartData, pcs []partCodec, allItems [][]workItem, results [][][]byte, o *WriteOptions) error {
	for pi, items := range allItems {
		for ci, item := range items {
			if o.Cancel.Cancelled() {
				return exrerr.Cancelled("write")
			}

			data, err := packAndCompress(pcs[pi], parts[pi], item)
			if o.OnChunkDone != nil {
				o.OnChunkDone(pi, ci, err)
			}
			if err != nil {
				return err
			}
			results[pi][ci] = data
		}
	}

	return nil
}

// compressParallel fans packing+compression out across a worker pool;
// every worker operates on a distinct (part, chunk) slot of results, so no
// locking is needed on the destination (mirrors the read path's disjoint
// sample-buffer writes).
func compressParallel(parts []*PartData, pcs []partCodec, allItems [][]workItem, results [][][]byte, o *WriteOptions) error {
	type slot struct{ pi, ci int }

	var slots []slot
	for pi, items := range allItems {
		for ci := range items {
			slots = append(slots, slot{pi, ci})
		}
	}

	n := o.Parallelism
	if n < 1 {
		n = 1
	}
	if n > len(slots) {
		n = len(slots)
	}
	if n == 0 {
		return nil
	}

	queue := make(chan int, len(slots))
	for i := range slots {
		queue <- i
	}
	close(queue)

	var (
		errMu    sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}
	failed := func() bool {
		errMu.Lock()
		defer errMu.Unlock()

		return firstErr != nil
	}

	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range queue {
				if o.Cancel.Cancelled() {
					fail(exrerr.Cancelled("write"))

					return
				}
				if failed() {
					return
				}

				s := slots[idx]
				item := allItems[s.pi][s.ci]
				data, err := packAndCompress(pcs[s.pi], parts[s.pi], item)
				if o.OnChunkDone != nil {
					o.OnChunkDone(s.pi, s.ci, err)
				}
				if err != nil {
					fail(err)

					return
				}
				results[s.pi][s.ci] = data
			}
		}()
	}

	wg.Wait()

	return firstErr
}

func bodyFrameSize(tiled, omitPartNumber bool, dataLen int) int {
	n := 4 + dataLen // size field + data
	if !omitPartNumber {
		n += 4
	}
	if tiled {
		n += 16 // tileX, tileY, levelX, levelY
	} else {
		n += 4 // y
	}

	return n
}

// emit writes the prefix, headers, offset tables and chunk bodies to w in
// a single pass: since every chunk is already compressed, each part's
// table of absolute offsets can be computed directly (§4.4), with no
// placeholder-then-seek-back step needed.
func emit(w io.Writer, m *meta.Meta, allItems [][]workItem, results [][][]byte) error {
	sw := stream.NewWriter(w)

	if err := meta.Write(sw, m); err != nil {
		return err
	}

	omitPartNumber := len(m.Parts) == 1 && !m.Prefix.MultiPart

	tables := make([]chunk.Table, len(m.Parts))
	for pi := range tables {
		tables[pi] = make(chunk.Table, len(allItems[pi]))
	}

	pos := sw.Pos()
	for _, t := range tables {
		pos += int64(len(t)) * 8
	}

	for pi, items := range allItems {
		for ci, item := range items {
			tables[pi][ci] = pos
			pos += int64(bodyFrameSize(item.id.Tiled, omitPartNumber, len(results[pi][ci])))
		}
	}

	for _, t := range tables {
		if err := chunk.WriteTable(sw, t); err != nil {
			return err
		}
	}

	for pi, items := range allItems {
		for ci, item := range items {
			data := results[pi][ci]
			if item.id.Tiled {
				b := chunk.TileBody{
					PartNumber: int32(item.partIdx), //nolint: gosec
					TileX:      int32(item.id.TileX), //nolint: gosec
					TileY:      int32(item.id.TileY), //nolint: gosec
					LevelX:     int32(item.id.LevelX), //nolint: gosec
					LevelY:     int32(item.id.LevelY), //nolint: gosec
					Data:       data,
				}
				if err := chunk.WriteTileBody(sw, b, omitPartNumber); err != nil {
					return err
				}

				continue
			}

			b := chunk.ScanLineBody{
				PartNumber: int32(item.partIdx), //nolint: gosec
				Y:          int32(item.id.Y),     //nolint: gosec
				Data:       data,
			}
			if err := chunk.WriteScanLineBody(sw, b, omitPartNumber); err != nil {
				return err
			}
		}
	}

	return nil
}
