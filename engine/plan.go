package engine

import (
	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/block"
	"github.com/go-openexr/openexr/chunk"
	"github.com/go-openexr/openexr/meta"
)

// LevelKey identifies one resolution level within a part. Scan-line parts
// and LevelModeOne tiled parts use the zero value; MIPMAP/RIPMAP parts
// have one PartData.Levels entry per (LevelX, LevelY) pair chunk.Layout
// produces.
type LevelKey struct{ X, Y int }

// PartData holds one part's decoded (or soon-to-be-encoded) channel
// samples, keyed by resolution level.
type PartData struct {
	Levels map[LevelKey]block.PartBuffers
}

// newPartData allocates one PartBuffers per distinct level referenced by
// ids - a single (0,0) entry for scan-line and LevelModeOne parts, one
// entry per level pair otherwise.
func newPartData(h *meta.Header, channels attr.ChannelList, ids []chunk.ID) (*PartData, error) {
	pd := &PartData{Levels: make(map[LevelKey]block.PartBuffers)}

	if !h.IsTiled() {
		dw, err := h.DataWindow()
		if err != nil {
			return nil, err
		}
		bufs, err := block.NewPartBuffers(channels, dw)
		if err != nil {
			return nil, err
		}
		pd.Levels[LevelKey{}] = bufs

		return pd, nil
	}

	seen := make(map[LevelKey]bool)
	for _, id := range ids {
		k := LevelKey{id.LevelX, id.LevelY}
		if seen[k] {
			continue
		}
		seen[k] = true

		lw, err := h.LevelWidth(id.LevelX)
		if err != nil {
			return nil, err
		}
		lh, err := h.LevelHeight(id.LevelY)
		if err != nil {
			return nil, err
		}

		box := attr.Box2i{XMin: 0, YMin: 0, XMax: int32(lw - 1), YMax: int32(lh - 1)} //nolint: gosec
		bufs, err := block.NewPartBuffers(channels, box)
		if err != nil {
			return nil, err
		}
		pd.Levels[k] = bufs
	}

	return pd, nil
}

// chunkRect returns id's pixel rectangle and the coordinate box its
// buffer is addressed against. Scan-line chunks are addressed in the
// part's own data-window coordinates; tile chunks are addressed in their
// level's local (0-based) coordinates, since each level has its own,
// smaller, pixel grid.
func chunkRect(h *meta.Header, dw attr.Box2i, id chunk.ID) (rect, levelBox attr.Box2i, err error) {
	if !id.Tiled {
		rect = attr.Box2i{
			XMin: dw.XMin, XMax: dw.XMax,
			YMin: int32(id.Y), YMax: int32(id.Y + id.Height - 1), //nolint: gosec
		}

		return rect, dw, nil
	}

	td, _ := h.Tiles()

	lw, err := h.LevelWidth(id.LevelX)
	if err != nil {
		return attr.Box2i{}, attr.Box2i{}, err
	}
	lh, err := h.LevelHeight(id.LevelY)
	if err != nil {
		return attr.Box2i{}, attr.Box2i{}, err
	}
	levelBox = attr.Box2i{XMin: 0, YMin: 0, XMax: int32(lw - 1), YMax: int32(lh - 1)} //nolint: gosec

	x0 := int32(id.TileX) * int32(td.XSize) //nolint: gosec
	y0 := int32(id.TileY) * int32(td.YSize) //nolint: gosec
	rect = attr.Box2i{
		XMin: x0, YMin: y0,
		XMax: x0 + int32(id.TileW) - 1, //nolint: gosec
		YMax: y0 + int32(id.TileH) - 1, //nolint: gosec
	}

	return rect, levelBox, nil
}

// workItem is one chunk's unit of scheduling: its logical id, its pixel
// rectangle and addressing box, and (read path only) its recorded file
// offset.
type workItem struct {
	partIdx  int
	chunkIdx int
	id       chunk.ID
	rect     attr.Box2i
	levelBox attr.Box2i
	offset   int64
}

// buildItems lays out every chunk of every part in file order (the order
// chunk.Layout and the offset tables agree on), applying filter if
// non-nil.
func buildItems(m *meta.Header, partIdx int, ids []chunk.ID, dw attr.Box2i, filter ChunkFilter) ([]workItem, error) {
	items := make([]workItem, 0, len(ids))
	for ci, id := range ids {
		rect, levelBox, err := chunkRect(m, dw, id)
		if err != nil {
			return nil, err
		}
		if filter != nil && !filter(partIdx, rect, [2]int{id.LevelX, id.LevelY}) {
			continue
		}
		items = append(items, workItem{
			partIdx: partIdx, chunkIdx: ci, id: id,
			rect: rect, levelBox: levelBox,
		})
	}

	return items, nil
}
