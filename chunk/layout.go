// Package chunk implements §4.4: chunk counting, chunk ordering by line
// order, offset-table I/O, and chunk-body framing (scan-line and tiled).
// It maps (part, y, level, tile) coordinates to file order and back.
package chunk

import (
	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/meta"
)

// ID identifies one chunk's logical position within its part: either a
// scan-line block starting at Y, or one tile at (TileX,TileY) of level
// (LevelX,LevelY). Tiled is the discriminant.
type ID struct {
	Part  int
	Tiled bool

	Y      int // scan-line chunks: y of the first scanline in the block
	Height int // scan-line chunks: number of scanlines actually present (clamped at the data window edge)

	TileX, TileY   int
	LevelX, LevelY int
	TileW, TileH   int // tiled chunks: actual pixel dimensions of this tile (clamped at level edges)
}

// Layout returns every chunk of part (index partIdx in its Meta) in file
// order, i.e. the order the writer emits chunk bodies in and the order
// ReadOffsetTables's slice is indexed by.
func Layout(h *meta.Header, partIdx int) ([]ID, error) {
	if h.IsTiled() {
		return tiledLayout(h, partIdx)
	}

	return scanLineLayout(h, partIdx)
}

func scanLineLayout(h *meta.Header, partIdx int) ([]ID, error) {
	dw, err := h.DataWindow()
	if err != nil {
		return nil, err
	}
	comp, err := h.Compression()
	if err != nil {
		return nil, err
	}
	lo, err := h.LineOrder()
	if err != nil {
		return nil, err
	}

	blockHeight := comp.ScanlinesPerChunk()
	height := dw.Height()

	var ids []ID
	for y := 0; y < height; y += blockHeight {
		h := blockHeight
		if y+h > height {
			h = height - y
		}
		ids = append(ids, ID{
			Part:   partIdx,
			Y:      int(dw.YMin) + y,
			Height: h,
		})
	}

	if lo == attr.LineOrderDecreasingY {
		reverseIDs(ids)
	}

	return ids, nil
}

func tiledLayout(h *meta.Header, partIdx int) ([]ID, error) {
	td, _ := h.Tiles()
	lo, err := h.LineOrder()
	if err != nil {
		return nil, err
	}

	levels, err := levelPairs(h, td)
	if err != nil {
		return nil, err
	}

	var ids []ID
	for _, lvl := range levels {
		lw, err := h.LevelWidth(lvl.lx)
		if err != nil {
			return nil, err
		}
		lh, err := h.LevelHeight(lvl.ly)
		if err != nil {
			return nil, err
		}

		tilesX := ceilDiv(lw, int(td.XSize))
		tilesY := ceilDiv(lh, int(td.YSize))

		rows := make([]ID, 0, tilesX*tilesY)
		for ty := 0; ty < tilesY; ty++ {
			tileH := int(td.YSize)
			if (ty+1)*int(td.YSize) > lh {
				tileH = lh - ty*int(td.YSize)
			}
			for tx := 0; tx < tilesX; tx++ {
				tileW := int(td.XSize)
				if (tx+1)*int(td.XSize) > lw {
					tileW = lw - tx*int(td.XSize)
				}
				rows = append(rows, ID{
					Part: partIdx, Tiled: true,
					TileX: tx, TileY: ty,
					LevelX: lvl.lx, LevelY: lvl.ly,
					TileW: tileW, TileH: tileH,
				})
			}
		}

		if lo == attr.LineOrderDecreasingY {
			reverseIDs(rows)
		}
		ids = append(ids, rows...)
	}

	return ids, nil
}

type levelPair struct{ lx, ly int }

func levelPairs(h *meta.Header, td attr.TileDesc) ([]levelPair, error) {
	switch td.Mode {
	case attr.LevelModeOne:
		return []levelPair{{0, 0}}, nil
	case attr.LevelModeMipmap:
		nx, err := h.NumXLevels()
		if err != nil {
			return nil, err
		}
		pairs := make([]levelPair, nx)
		for i := range pairs {
			pairs[i] = levelPair{i, i}
		}

		return pairs, nil
	default: // RIPMAP
		nx, err := h.NumXLevels()
		if err != nil {
			return nil, err
		}
		ny, err := h.NumYLevels()
		if err != nil {
			return nil, err
		}
		var pairs []levelPair
		for lx := 0; lx < nx; lx++ {
			for ly := 0; ly < ny; ly++ {
				pairs = append(pairs, levelPair{lx, ly})
			}
		}

		return pairs, nil
	}
}

func reverseIDs(ids []ID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}

	return (a + b - 1) / b
}
