// Package openexr implements an OpenEXR file reader/writer: meta-data
// parsing and validation, chunk layout and offset tables, the RLE/ZIP/
// ZIPS block codecs, and a parallel chunk scheduler for read and write
// (see DESIGN.md for how each package maps onto the spec).
package openexr

import (
	"io"
	"math"
	"sort"

	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/block"
	"github.com/go-openexr/openexr/chunk"
	"github.com/go-openexr/openexr/engine"
	"github.com/go-openexr/openexr/internal/exrerr"
	"github.com/go-openexr/openexr/internal/hash"
	"github.com/go-openexr/openexr/meta"
	"github.com/go-openexr/openexr/stream"
)

// Part is one part of an Image: its header (name, windows, channels,
// compression, tiling, custom attributes - §3) and its decoded sample
// data, one buffer set per resolution level.
type Part struct {
	Header *meta.Header
	Levels map[engine.LevelKey]block.PartBuffers
}

// Samples returns the base (level 0,0) level's buffers - the common case
// for flat scan-line and LevelModeOne tiled parts.
func (p *Part) Samples() block.PartBuffers {
	return p.Levels[engine.LevelKey{}]
}

// Image is the top-level decoded entity: file-level flags plus an
// ordered list of Parts (§3).
type Image struct {
	Prefix meta.Prefix
	Parts  []*Part
}

// Hash computes an implementation-defined, non-persisted content
// signature over each part's name, channel names and pixel types, and
// every resolution level's indices and sample values - useful
// for cache keys and change detection, never for on-disk identity (§3).
func (img *Image) Hash() uint64 {
	d := hash.New()
	d.WriteUint64(uint64(len(img.Parts)))

	for _, p := range img.Parts {
		if name, ok := p.Header.Name(); ok {
			d.Write([]byte(name))
		}
		channels, _ := p.Header.Channels()
		hashChannels(d, channels)

		keys := make([]engine.LevelKey, 0, len(p.Levels))
		for k := range p.Levels {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].X != keys[j].X {
				return keys[i].X < keys[j].X
			}

			return keys[i].Y < keys[j].Y
		})

		for _, k := range keys {
			d.WriteUint64(uint64(k.X))
			d.WriteUint64(uint64(k.Y))
			hashBuffers(d, channels, p.Levels[k])
		}
	}

	return d.Sum64()
}

func hashChannels(d *hash.Digest, channels attr.ChannelList) {
	for _, c := range channels {
		d.Write([]byte(c.Name))
		d.WriteUint64(uint64(c.Type))
	}
}

func hashBuffers(d *hash.Digest, channels attr.ChannelList, bufs block.PartBuffers) {
	for _, c := range channels {
		b := bufs[c.Name]
		switch b.Type {
		case attr.PixelHalf:
			for _, v := range b.Half {
				d.WriteUint64(uint64(v))
			}
		case attr.PixelFloat:
			for _, v := range b.Float {
				d.WriteUint64(uint64(math.Float32bits(v)))
			}
		case attr.PixelUint:
			for _, v := range b.Uint {
				d.WriteUint64(uint64(v))
			}
		}
	}
}

// ReadMeta parses only the prefix, per-part headers, and offset tables
// of r - the library-surface `readMeta` entry point (§6). The offset
// tables are read and checked for truncation but not returned.
func ReadMeta(r io.Reader) (*meta.Meta, error) {
	sr := stream.NewReader(r)
	m, err := meta.ReadMeta(sr)
	if err != nil {
		return nil, err
	}
	if _, err := chunk.ReadOffsetTables(sr, m.Parts, false); err != nil {
		return nil, err
	}

	return m, nil
}

// Read fully decodes r into an Image: headers, offset tables, and every
// selected chunk's pixel data (§6 `read`).
func Read(r io.Reader, opts ...ReadOption) (*Image, error) {
	m, parts, err := engine.Read(r, opts...)
	if err != nil {
		return nil, err
	}

	img := &Image{Prefix: m.Prefix, Parts: make([]*Part, len(m.Parts))}
	for i, h := range m.Parts {
		img.Parts[i] = &Part{Header: h, Levels: parts[i].Levels}
	}

	return img, nil
}

// Write validates img and emits it to w: headers, offset tables, and
// every chunk body (§6 `write`).
func Write(w io.Writer, img *Image, opts ...WriteOption) error {
	m := &meta.Meta{Prefix: img.Prefix, Parts: make([]*meta.Header, len(img.Parts))}
	parts := make([]*engine.PartData, len(img.Parts))
	for i, p := range img.Parts {
		m.Parts[i] = p.Header
		parts[i] = &engine.PartData{Levels: p.Levels}
	}

	return engine.Write(w, m, parts, opts...)
}

// Re-exported so callers configure Read/Write without importing engine
// directly (§A.3: functional options are the only configuration
// surface).
type (
	ReadOption    = engine.ReadOption
	WriteOption   = engine.WriteOption
	ChunkFilter   = engine.ChunkFilter
	ChunkDoneFunc = engine.ChunkDoneFunc
	CancelFlag    = engine.CancelFlag
	Error         = exrerr.Error
	Kind          = exrerr.Kind
)

const (
	KindIO          = exrerr.KindIO
	KindNotExr      = exrerr.KindNotExr
	KindInvalid     = exrerr.KindInvalid
	KindMissing     = exrerr.KindMissing
	KindUnsupported = exrerr.KindUnsupported
	KindInvalidSize = exrerr.KindInvalidSize
	KindCancelled   = exrerr.KindCancelled
)

var (
	WithParallel            = engine.WithParallel
	WithParallelism         = engine.WithParallelism
	WithPedantic            = engine.WithPedantic
	WithChunkFilter         = engine.WithChunkFilter
	WithOnChunkDone         = engine.WithOnChunkDone
	WithCancel              = engine.WithCancel
	WithWriteParallel       = engine.WithWriteParallel
	WithWriteParallelism    = engine.WithWriteParallelism
	WithCompressionOverride = engine.WithCompressionOverride
	WithWriteOnChunkDone    = engine.WithWriteOnChunkDone
	WithWriteCancel         = engine.WithWriteCancel
)
