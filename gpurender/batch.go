package gpurender

import (
	"github.com/junkdog/term-webgl2/assert"
	"github.com/junkdog/term-webgl2/rasterize"
)

// Batch is a mutation handle over a TerminalGrid's CellDynamic host
// shadow. Only one Batch may be outstanding per grid at a time; Flush
// releases it. Writes are last-write-wins within a batch; out-of-bound
// coordinates fail the individual call without touching the shadow.
type Batch struct {
	grid *TerminalGrid

	dirtyMin int
	dirtyMax int // exclusive
}

func newBatch(g *TerminalGrid) *Batch {
	return &Batch{grid: g, dirtyMin: -1, dirtyMax: -1}
}

func (b *Batch) markDirty(byteOffset, size int) {
	end := byteOffset + size
	if b.dirtyMin < 0 || byteOffset < b.dirtyMin {
		b.dirtyMin = byteOffset
	}
	if end > b.dirtyMax {
		b.dirtyMax = end
	}
}

func (b *Batch) index(x, y int) (int, error) {
	if x < 0 || x >= b.grid.cellsWide || y < 0 || y >= b.grid.cellsHigh {
		return 0, &OutOfBoundsError{X: x, Y: y, Width: b.grid.cellsWide, Height: b.grid.cellsHigh}
	}
	offset := (y*b.grid.cellsWide + x) * cellDynamicSize
	assert.T(offset+cellDynamicSize <= len(b.grid.dynamicShadow), "cell (%d,%d) offset %d overruns a %d-byte shadow", x, y, offset, len(b.grid.dynamicShadow))
	return offset, nil
}

// Clear writes {id: space, fg: bg, bg: bg} to every cell, as if the
// whole grid were "empty" with the given background. Marks the entire
// buffer dirty.
func (b *Batch) Clear(bg Color) {
	spaceID := b.grid.resolver.Resolve(" ", 0, false, false)
	shadow := b.grid.dynamicShadow
	for i := 0; i < b.grid.cellsWide*b.grid.cellsHigh; i++ {
		encodeCellDynamic(shadow, i*cellDynamicSize, spaceID, bg, bg)
	}
	b.dirtyMin = 0
	b.dirtyMax = len(shadow)
}

// Cell resolves v's glyph and writes its 8-byte record at (x, y).
// Fails with *OutOfBoundsError if the coordinate is outside the grid;
// the batch and grid remain valid for further writes.
func (b *Batch) Cell(x, y int, v CellValue) error {
	offset, err := b.index(x, y)
	if err != nil {
		return err
	}
	id := b.grid.resolver.Resolve(v.Grapheme, v.Style, v.Underline, v.Strikethrough)
	encodeCellDynamic(b.grid.dynamicShadow, offset, id, v.Fg, v.Bg)
	b.markDirty(offset, cellDynamicSize)
	return nil
}

// CellWrite is one (x, y, CellValue) triple, the unit Cells operates
// over in bulk.
type CellWrite struct {
	X, Y  int
	Value CellValue
}

// Cells applies writes in order, tracking the union of touched byte
// ranges. The first out-of-bounds write aborts the remaining writes
// and returns its error; writes applied before the failure stand.
func (b *Batch) Cells(writes []CellWrite) error {
	for _, w := range writes {
		if err := b.Cell(w.X, w.Y, w.Value); err != nil {
			return err
		}
	}
	return nil
}

// Text segments str into grapheme clusters and writes one cell per
// cluster, left to right starting at (x, y). Stops at the end of the
// row without wrapping; tab and newline are not special and are
// rendered as their own (likely missing) glyph like any other cluster.
func (b *Batch) Text(x, y int, str string, style CellStyle, fg, bg Color) error {
	clusters := rasterize.SplitGraphemeClusters(str)
	col := x
	for _, cluster := range clusters {
		if col >= b.grid.cellsWide {
			break
		}
		v := CellValue{Grapheme: cluster, Style: style.Style, Underline: style.Underline, Strikethrough: style.Strikethrough, Fg: fg, Bg: bg}
		if err := b.Cell(col, y, v); err != nil {
			return err
		}
		col++
	}
	return nil
}

// Fill writes value to every cell in the rectangle [x, x+w) x [y, y+h).
// The region must fit entirely inside the grid; if it does not, the
// first out-of-bounds cell's error is returned and no cell in the
// rectangle is written.
func (b *Batch) Fill(x, y, w, h int, value CellValue) error {
	if x < 0 || y < 0 || x+w > b.grid.cellsWide || y+h > b.grid.cellsHigh {
		return &OutOfBoundsError{X: x + w - 1, Y: y + h - 1, Width: b.grid.cellsWide, Height: b.grid.cellsHigh}
	}
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if err := b.Cell(col, row, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush uploads the smallest contiguous byte range covering every
// dirty cell since the batch was obtained (or since the last Flush)
// in one call, then releases the batch so a new one may be obtained.
// Implementations MAY upload more than strictly necessary; correctness
// is unaffected, only bandwidth.
func (b *Batch) Flush() {
	if b.dirtyMin >= 0 {
		b.grid.uploadDynamicRange(b.dirtyMin, b.dirtyMax)
	}
	b.dirtyMin = -1
	b.dirtyMax = -1
	b.grid.activeBatch = nil
}
