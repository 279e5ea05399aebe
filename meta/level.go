package meta

import (
	"math/bits"

	"github.com/go-openexr/openexr/attr"
)

// numLevels implements §4.3's "levels = floor(log2(max(w,h))) + 1" for a
// single dimension: bits.Len(n) already equals floor(log2(n))+1 for any
// n >= 1.
func numLevels(size int) int {
	if size < 1 {
		size = 1
	}

	return bits.Len(uint(size)) //nolint: gosec
}

func levelSize(base, level int, roundUp bool) int {
	if level <= 0 {
		return base
	}

	s := base >> level
	if roundUp && base%(1<<level) != 0 {
		s++
	}
	if s < 1 {
		s = 1
	}

	return s
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}

	return (a + b - 1) / b
}

// NumXLevels returns the number of resolution levels along x: 1 for
// LevelModeOne, max(w,h)-derived for MIPMAP, w-derived for RIPMAP.
func (h *Header) NumXLevels() (int, error) {
	td, ok := h.Tiles()
	if !ok {
		return 1, nil
	}
	dw, err := h.DataWindow()
	if err != nil {
		return 0, err
	}

	switch td.Mode {
	case attr.LevelModeOne:
		return 1, nil
	case attr.LevelModeMipmap:
		return numLevels(max(dw.Width(), dw.Height())), nil
	default: // RIPMAP
		return numLevels(dw.Width()), nil
	}
}

// NumYLevels mirrors NumXLevels for the y dimension.
func (h *Header) NumYLevels() (int, error) {
	td, ok := h.Tiles()
	if !ok {
		return 1, nil
	}
	dw, err := h.DataWindow()
	if err != nil {
		return 0, err
	}

	switch td.Mode {
	case attr.LevelModeOne:
		return 1, nil
	case attr.LevelModeMipmap:
		return numLevels(max(dw.Width(), dw.Height())), nil
	default: // RIPMAP
		return numLevels(dw.Height()), nil
	}
}

// LevelWidth returns the pixel width of resolution level lx.
func (h *Header) LevelWidth(lx int) (int, error) {
	dw, err := h.DataWindow()
	if err != nil {
		return 0, err
	}
	td, _ := h.Tiles()

	return levelSize(dw.Width(), lx, td.Rounding == attr.RoundUp), nil
}

// LevelHeight returns the pixel height of resolution level ly.
func (h *Header) LevelHeight(ly int) (int, error) {
	dw, err := h.DataWindow()
	if err != nil {
		return 0, err
	}
	td, _ := h.Tiles()

	return levelSize(dw.Height(), ly, td.Rounding == attr.RoundUp), nil
}

// ChunkCount returns the number of chunks this part's geometry and
// compression imply, per §4.4's formula.
func (h *Header) ChunkCount() (int, error) {
	dw, err := h.DataWindow()
	if err != nil {
		return 0, err
	}

	if !h.IsTiled() {
		comp, err := h.Compression()
		if err != nil {
			return 0, err
		}

		return ceilDiv(dw.Height(), comp.ScanlinesPerChunk()), nil
	}

	td, _ := h.Tiles()
	roundUp := td.Rounding == attr.RoundUp

	switch td.Mode {
	case attr.LevelModeOne:
		tx := ceilDiv(dw.Width(), int(td.XSize))
		ty := ceilDiv(dw.Height(), int(td.YSize))

		return tx * ty, nil
	case attr.LevelModeMipmap:
		levels := numLevels(max(dw.Width(), dw.Height()))
		total := 0
		for l := 0; l < levels; l++ {
			lw := levelSize(dw.Width(), l, roundUp)
			lh := levelSize(dw.Height(), l, roundUp)
			total += ceilDiv(lw, int(td.XSize)) * ceilDiv(lh, int(td.YSize))
		}

		return total, nil
	default: // RIPMAP
		nx := numLevels(dw.Width())
		ny := numLevels(dw.Height())
		total := 0
		for lx := 0; lx < nx; lx++ {
			lw := levelSize(dw.Width(), lx, roundUp)
			for ly := 0; ly < ny; ly++ {
				lh := levelSize(dw.Height(), ly, roundUp)
				total += ceilDiv(lw, int(td.XSize)) * ceilDiv(lh, int(td.YSize))
			}
		}

		return total, nil
	}
}
