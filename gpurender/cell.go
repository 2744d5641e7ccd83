package gpurender

import (
	"encoding/binary"

	"github.com/junkdog/term-webgl2/glyphid"
)

// Color is an 8-bit-per-channel RGB color; alpha is never transmitted
// to the GPU, matching CellDynamic's 8-byte layout.
type Color struct {
	R, G, B uint8
}

// CellStyle bundles the style and effect flags Batch.Text applies
// uniformly to every cluster it writes, alongside the per-call colors.
type CellStyle struct {
	Style         glyphid.Style
	Underline     bool
	Strikethrough bool
}

// CellValue is the caller-facing description of one cell's contents,
// before glyph resolution. Underline and strikethrough are independent
// bits; both may be set.
type CellValue struct {
	Grapheme      string
	Style         glyphid.Style
	Underline     bool
	Strikethrough bool
	Fg            Color
	Bg            Color
}

// cellDynamicSize is the byte width of one CellDynamic instance
// record: glyph_id (u16) + fg (3 bytes) + bg (3 bytes).
const cellDynamicSize = 8

// cellStaticSize is the byte width of one CellStatic instance record:
// grid_x, grid_y (u16 each).
const cellStaticSize = 4

// encodeCellDynamic writes one CellDynamic record (8 bytes) into dst
// at the given byte offset.
func encodeCellDynamic(dst []byte, offset int, id glyphid.ID, fg, bg Color) {
	binary.LittleEndian.PutUint16(dst[offset:offset+2], uint16(id))
	dst[offset+2] = fg.R
	dst[offset+3] = fg.G
	dst[offset+4] = fg.B
	dst[offset+5] = bg.R
	dst[offset+6] = bg.G
	dst[offset+7] = bg.B
}

// decodeCellDynamic reads one CellDynamic record back out of src at
// the given byte offset. Exposed for tests that assert on the host
// shadow buffer's contents.
func decodeCellDynamic(src []byte, offset int) (id glyphid.ID, fg, bg Color) {
	id = glyphid.ID(binary.LittleEndian.Uint16(src[offset : offset+2]))
	fg = Color{src[offset+2], src[offset+3], src[offset+4]}
	bg = Color{src[offset+5], src[offset+6], src[offset+7]}
	return
}

// encodeCellStatic writes one CellStatic record (4 bytes) into dst at
// the given byte offset.
func encodeCellStatic(dst []byte, offset int, gridX, gridY uint16) {
	binary.LittleEndian.PutUint16(dst[offset:offset+2], gridX)
	binary.LittleEndian.PutUint16(dst[offset+2:offset+4], gridY)
}
