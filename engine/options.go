// Package engine implements §4.7/§5: the parallel scheduler that drives
// chunk-level read and write over a parsed Meta, plus the sequential
// fallback path. It owns the work queue, the write-side reorder buffer,
// and cancellation; it knows nothing about the public Image/Part types,
// which the root package builds from what Read returns.
package engine

import (
	"runtime"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/internal/options"
)

// ChunkDoneFunc reports completion of one chunk, for progress reporting
// during long parallel reads/writes (§A.2). err is non-nil only when that
// chunk itself failed; the scheduler still surfaces the first error from
// the call as a whole.
type ChunkDoneFunc func(partIndex, chunkIndex int, err error)

// ChunkFilter selects which chunks to materialise on a partial read (§4.7):
// it is evaluated over a chunk's part index, pixel rectangle, and
// (levelX, levelY) pair.
type ChunkFilter func(part int, rect attr.Box2i, level [2]int) bool

// ReadOptions configures Read.
type ReadOptions struct {
	Parallel    bool
	Parallelism int
	Pedantic    bool // see WithPedantic
	ChunkFilter ChunkFilter
	OnChunkDone ChunkDoneFunc
	Cancel      *CancelFlag
}

func defaultReadOptions() *ReadOptions {
	return &ReadOptions{Parallelism: runtime.NumCPU()}
}

// ReadOption configures a ReadOptions.
type ReadOption = options.Option[*ReadOptions]

// WithParallel toggles the parallel read path.
func WithParallel(v bool) ReadOption {
	return options.NoError(func(o *ReadOptions) { o.Parallel = v })
}

// WithParallelism overrides the worker pool size (default: logical CPU
// count, per §5).
func WithParallelism(n int) ReadOption {
	return options.NoError(func(o *ReadOptions) {
		if n > 0 {
			o.Parallelism = n
		}
	})
}

// WithPedantic controls how Read treats a chunk whose offset-table entry
// was never patched in (still its zero placeholder, e.g. the writer
// crashed before finishing §4.4's two-pass write). Pedantic mode rejects
// the file outright, at the offset table, before any chunk data is
// touched. The default, non-pedantic mode tolerates it: that one chunk is
// skipped and every other chunk with a valid offset is still read.
func WithPedantic(v bool) ReadOption {
	return options.NoError(func(o *ReadOptions) { o.Pedantic = v })
}

// WithChunkFilter restricts a read to the chunks f selects (§4.7 "partial
// read").
func WithChunkFilter(f ChunkFilter) ReadOption {
	return options.NoError(func(o *ReadOptions) { o.ChunkFilter = f })
}

// WithOnChunkDone installs a progress callback.
func WithOnChunkDone(f ChunkDoneFunc) ReadOption {
	return options.NoError(func(o *ReadOptions) { o.OnChunkDone = f })
}

// WithCancel installs a cancellation flag the scheduler polls between
// chunks (§5).
func WithCancel(c *CancelFlag) ReadOption {
	return options.NoError(func(o *ReadOptions) { o.Cancel = c })
}

// WriteOptions configures Write.
type WriteOptions struct {
	Parallel            bool
	Parallelism         int
	CompressionOverride *attr.Compression
	OnChunkDone         ChunkDoneFunc
	Cancel              *CancelFlag
}

func defaultWriteOptions() *WriteOptions {
	return &WriteOptions{Parallelism: runtime.NumCPU()}
}

// WriteOption configures a WriteOptions.
type WriteOption = options.Option[*WriteOptions]

// WithWriteParallel toggles the parallel write path.
func WithWriteParallel(v bool) WriteOption {
	return options.NoError(func(o *WriteOptions) { o.Parallel = v })
}

// WithWriteParallelism overrides the worker pool size.
func WithWriteParallelism(n int) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		if n > 0 {
			o.Parallelism = n
		}
	})
}

// WithCompressionOverride replaces every part's declared compression with
// c for this write only; the header attribute itself is also rewritten to
// match, so the file is internally consistent.
func WithCompressionOverride(c attr.Compression) WriteOption {
	return options.NoError(func(o *WriteOptions) { o.CompressionOverride = &c })
}

// WithWriteOnChunkDone installs a progress callback for the write path.
func WithWriteOnChunkDone(f ChunkDoneFunc) WriteOption {
	return options.NoError(func(o *WriteOptions) { o.OnChunkDone = f })
}

// WithWriteCancel installs a cancellation flag for the write path.
func WithWriteCancel(c *CancelFlag) WriteOption {
	return options.NoError(func(o *WriteOptions) { o.Cancel = c })
}
