package engine

import (
	"io"
	"sort"
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

// partCodec bundles the per-part decode context a chunk worker needs, so
// it is computed once per part rather than once per chunk.
type partCodec struct {
	channels attr.ChannelList
	comp     attr.Compression
	codec    compress.Codec
	dw       attr.Box2i
}

func buildPartCodecs(parts []*meta.Header) ([]partCodec, error) {
	pcs := make([]partCodec, len(parts))
	for i, h := range parts {
		channels, err := h.Channels()
		if err != nil {
			return nil, err
		}
		comp, err := h.Compression()
		if err != nil {
			return nil, err
		}
		if !comp.Supported() {
			return nil, exrerr.Unsupported("compression " + comp.String())
		}
		codec, err := compress.CreateCodec(comp)
		if err != nil {
			return nil, err
		}
		dw, err := h.DataWindow()
		if err != nil {
			return nil, err
		}
		pcs[i] = partCodec{channels: channels, comp: comp, codec: codec, dw: dw}
	}

	return pcs, nil
}

// Read parses meta-data, offset tables, and chunk bodies from r, returning
// the parsed Meta alongside one PartData per part (§4.7 "read path").
func Read(r io.Reader, opts ...ReadOption) (*meta.Meta, []*PartData, error) {
	o := defaultReadOptions()
	if err := options.Apply(o, opts...); err != nil {
		return nil, nil, err
	}

	sr := stream.NewReader(r)

	m, err := meta.ReadMeta(sr)
	if err != nil {
		return nil, nil, err
	}

	tables, err := chunk.ReadOffsetTables(sr, m.Parts, o.Pedantic)
	if err != nil {
		return nil, nil, err
	}

	pcs, err := buildPartCodecs(m.Parts)
	if err != nil {
		return nil, nil, err
	}

	omitPartNumber := len(m.Parts) == 1 && !m.Prefix.MultiPart

	parts := make([]*PartData, len(m.Parts))
	var items []workItem
	for pi, h := range m.Parts {
		ids, err := chunk.Layout(h, pi)
		if err != nil {
			return nil, nil, err
		}
		pd, err := newPartData(h, pcs[pi].channels, ids)
		if err != nil {
			return nil, nil, err
		}
		parts[pi] = pd

		its, err := buildItems(h, pi, ids, pcs[pi].dw, o.ChunkFilter)
		if err != nil {
			return nil, nil, err
		}
		for i := range its {
			its[i].offset = tables[pi][its[i].chunkIdx]
		}
		items = append(items, its...)
	}

	// A zero offset only reaches here in non-pedantic mode (pedantic
	// ReadOffsetTables already failed the read): the chunk was never
	// written, so there is nothing to seek to. Skip it rather than read
	// garbage from file offset 0 - its sample buffer is left at its
	// zero-value default.
	if !o.Pedantic {
		kept := items[:0]
		for _, it := range items {
			if it.offset > 0 {
				kept = append(kept, it)
			}
		}
		items = kept
	}

	// File-order traversal: sorting by recorded offset keeps seeks
	// monotonic and matches "for each chunk in file order" (§4.7),
	// regardless of the part/chunk-index order buildItems produced them
	// in (partial reads may reorder parts relative to each other).
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	if o.Parallel && sr.Seekable() {
		err = readParallel(sr, pcs, parts, items, omitPartNumber, o)
	} else {
		err = readSequential(sr, pcs, parts, items, omitPartNumber, o)
	}
	if err != nil {
		return nil, nil, err
	}

	return m, parts, nil
}

func readOneChunk(sr *stream.Reader, pc partCodec, item workItem, omitPartNumber bool, bufs block.PartBuffers) error {
	packedSize := block.PackedSize(pc.channels, item.rect)

	var compressed []byte
	if item.id.Tiled {
		b, err := chunk.ReadTileBody(sr, omitPartNumber, packedSize)
		if err != nil {
			return err
		}
		compressed = b.Data
	} else {
		b, err := chunk.ReadScanLineBody(sr, omitPartNumber, packedSize)
		if err != nil {
			return err
		}
		compressed = b.Data
	}

	packed, err := compress.DecompressChunk(pc.codec, pc.comp, compressed, packedSize)
	if err != nil {
		return err
	}

	return block.UnpackRegion(pc.channels, item.rect, item.levelBox, packed, bufs)
}

func readSequential(sr *stream.Reader, pcs []partCodec, parts []*PartData, items []workItem, omitPartNumber bool, o *ReadOptions) error {
	for _, item := range items {
		if o.Cancel.Cancelled() {
			return exrerr.Cancelled("read")
		}

		if err := sr.Seek(item.offset); err != nil {
			return err
		}

		pc := pcs[item.partIdx]
		bufs := parts[item.partIdx].Levels[LevelKey{item.id.LevelX, item.id.LevelY}]
		err := readOneChunk(sr, pc, item, omitPartNumber, bufs)
		if o.OnChunkDone != nil {
			o.OnChunkDone(item.partIdx, item.chunkIdx, err)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// readParallel mirrors §4.7's parallel read path: a bounded pool of
// workers pulls items from a shared queue. Since the source here is a
// single non-clonable handle, reads are serialized through srMu while
// decompress/unpack - the expensive part - run outside the lock. Writes
// into per-level sample buffers are disjoint by construction (distinct
// rectangles), so no destination locking is needed.
func readParallel(sr *stream.Reader, pcs []partCodec, parts []*PartData, items []workItem, omitPartNumber bool, o *ReadOptions) error {
	n := o.Parallelism
	if n < 1 {
		n = 1
	}
	if n > len(items) {
		n = len(items)
	}
	if n == 0 {
		return nil
	}

	queue := make(chan int, len(items))
	for i := range items {
		queue <- i
	}
	close(queue)

	var (
		srMu     sync.Mutex
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
					fail(exrerr.Cancelled("read"))

					return
				}
				if failed() {
					return
				}

				item := items[idx]
				pc := pcs[item.partIdx]
				packedSize := block.PackedSize(pc.channels, item.rect)

				var compressed []byte
				var readErr error

				srMu.Lock()
				if err := sr.Seek(item.offset); err != nil {
					readErr = err
				} else if item.id.Tiled {
					b, err := chunk.ReadTileBody(sr, omitPartNumber, packedSize)
					readErr = err
					compressed = b.Data
				} else {
					b, err := chunk.ReadScanLineBody(sr, omitPartNumber, packedSize)
					readErr = err
					compressed = b.Data
				}
				srMu.Unlock()

				var chunkErr error
				if readErr != nil {
					chunkErr = readErr
				} else {
					packed, err := compress.DecompressChunk(pc.codec, pc.comp, compressed, packedSize)
					if err != nil {
						chunkErr = err
					} else {
						bufs := parts[item.partIdx].Levels[LevelKey{item.id.LevelX, item.id.LevelY}]
						chunkErr = block.UnpackRegion(pc.channels, item.rect, item.levelBox, packed, bufs)
					}
				}

				if o.OnChunkDone != nil {
					o.OnChunkDone(item.partIdx, item.chunkIdx, chunkErr)
				}
				if chunkErr != nil {
					fail(chunkErr)

					return
				}
			}
		}()
	}

	wg.Wait()

	return firstErr
}
