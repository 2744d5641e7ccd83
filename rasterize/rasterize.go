// Package rasterize turns a grapheme cluster plus a style into a pixel
// bitmap sized for one atlas cell. The injected-capability boundary
// named by the renderer's external interfaces lives here: a system
// font engine is the expected real backend, wired through the
// TTFRasterizer in this package.
package rasterize

import (
	"image"

	"github.com/junkdog/term-webgl2/glyphid"
)

// CellMetrics are the cell dimensions a Rasterizer has committed to,
// derived once from the full-block character U+2588 at the configured
// pixel size. Width/Height are the content-only cell size (no
// padding); the border is added by the caller (the layout planner).
type CellMetrics struct {
	Width, Height int

	// UnderlinePos/StrikethroughPos are vertical positions, expressed
	// as a fraction of cell height from the top. The wire-format atlas
	// has no header slot to carry a per-font value, so every backend
	// reports the same fixed fractions: DefaultUnderlinePos and
	// friends, below, are the single definition shared with
	// gpurender's runtime default.
	UnderlinePos, UnderlineThickness         float32
	StrikethroughPos, StrikethroughThickness float32
}

// Default{Underline,Strikethrough}{Pos,Thickness} are the decoration
// metrics every Rasterizer backend reports in its CellMetrics, and the
// values gpurender.GpuAtlas uses for every loaded atlas, since the wire
// format carries no decoration metrics. Underline sits just under the
// baseline; strikethrough at roughly mid-x-height.
const (
	DefaultUnderlinePos           = 0.85
	DefaultUnderlineThickness     = 0.06
	DefaultStrikethroughPos       = 0.5
	DefaultStrikethroughThickness = 0.06
)

// RasterResult is the outcome of rasterizing one (grapheme, style)
// pair: an RGBA8 bitmap, the pixel offset of its drawing origin within
// the bitmap, and whether it was rasterized as a color emoji glyph.
type RasterResult struct {
	Pixels    *image.RGBA
	BaselineX int
	BaselineY int
	IsEmoji   bool
}

// Rasterizer renders one grapheme cluster at a time into a bitmap
// aligned to the cell grid. Implementations must be deterministic: the
// same (cluster, style) pair always produces the same bitmap.
type Rasterizer interface {
	// CellMetrics returns the fixed cell geometry this rasterizer
	// produces bitmaps for. Must be stable across calls.
	CellMetrics() CellMetrics

	// Rasterize renders cluster at the given style. ok is false if the
	// font cannot render the cluster (a missing glyph); callers must
	// not treat that as an error, only as an absence to record.
	Rasterize(cluster string, style glyphid.Style) (result RasterResult, ok bool)
}

// DoubleSizeRasterizer is an optional capability a Rasterizer backend
// may implement: rendering a cluster into a bitmap twice the nominal
// (padded) cell size. EmojiRasterizer uses this, where available, to
// supersample color glyphs before scaling them back down into the
// cell, rather than scaling a normal-size bitmap with nothing to gain.
type DoubleSizeRasterizer interface {
	RasterizeDouble(cluster string) (result RasterResult, ok bool)
}
