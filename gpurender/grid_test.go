package gpurender

import "testing"

// computeGridSize is pure arithmetic over the atlas's cell geometry;
// these tests cover it directly since Resize itself touches GL.
func TestComputeGridSizeFloorsAtOneCell(t *testing.T) {
	g := &TerminalGrid{atlas: &GpuAtlas{CellWidth: 10, CellHeight: 18}}

	w, h := g.computeGridSize(0, 180)
	Check(t, 1, w)
	Check(t, 10, h)

	w, h = g.computeGridSize(200, 0)
	Check(t, 20, w)
	Check(t, 1, h)

	// A minimized surface may report negative dimensions.
	w, h = g.computeGridSize(-5, -5)
	Check(t, 1, w)
	Check(t, 1, h)
}

func TestComputeGridSizeFloorsPartialCells(t *testing.T) {
	g := &TerminalGrid{atlas: &GpuAtlas{CellWidth: 10, CellHeight: 18}}

	// 205x185 px fits 20 whole columns and 10 whole rows; the partial
	// trailing cell in each axis is dropped.
	w, h := g.computeGridSize(205, 185)
	Check(t, 20, w)
	Check(t, 10, h)
}
