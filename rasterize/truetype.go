package rasterize

import (
	"image"
	"image/draw"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/junkdog/term-webgl2/glyphid"
)

// TTFRasterizer rasterizes grapheme clusters from a monospaced
// TrueType font, one face per style variant. Only single-codepoint
// clusters are supported directly by the font backend; multi-rune
// grapheme clusters (combining sequences, ZWJ emoji) are rasterized
// from their first codepoint, which is the common case for fonts that
// carry a precomposed glyph, and reported as missing otherwise.
type TTFRasterizer struct {
	faces     [4]font.Face // indexed by glyphid.Style
	fonts     [4]*truetype.Font
	pointSize float64
	metrics   CellMetrics
	ascent    int // baseline offset from the cell top, in pixels

	// emoji2xFace/emoji2xFont back RasterizeDouble: the same Normal-
	// style font, rendered at twice pointSize, used to supersample
	// color glyphs before EmojiRasterizer scales them back down.
	emoji2xFace font.Face
	emoji2xFont *truetype.Font
}

// NewTTFRasterizerFromFiles loads up to four TrueType font files (one
// per style; bold/italic/boldItalic may repeat the regular file if a
// synthetic variant is not available) and computes cell metrics from
// U+2588 (full block) at pointSize.
func NewTTFRasterizerFromFiles(files [4]string, pointSize float64) (*TTFRasterizer, error) {
	var fonts [4]*truetype.Font
	var faces [4]font.Face

	for i, path := range files {
		fBytes, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		f, err := truetype.Parse(fBytes)
		if err != nil {
			return nil, err
		}
		fonts[i] = f
		faces[i] = truetype.NewFace(f, &truetype.Options{
			Size:    pointSize,
			Hinting: font.HintingFull,
		})
	}

	r := &TTFRasterizer{faces: faces, fonts: fonts, pointSize: pointSize}
	r.metrics, r.ascent = computeCellMetrics(faces[glyphid.Normal])

	r.emoji2xFont = fonts[glyphid.Normal]
	r.emoji2xFace = truetype.NewFace(fonts[glyphid.Normal], &truetype.Options{
		Size:    pointSize * 2,
		Hinting: font.HintingFull,
	})

	return r, nil
}

// computeCellMetrics derives cell geometry from the full-block
// character's advance and bounds rather than trusting face.Metrics(),
// which some monospace fonts report loosely.
func computeCellMetrics(face font.Face) (CellMetrics, int) {
	const fullBlock = '█'

	advFixed, _ := face.GlyphAdvance(fullBlock)
	width := advFixed.Ceil()

	bounds, _, _ := face.GlyphBounds(fullBlock)
	ascent := absFixed(bounds.Min.Y)
	descent := absFixed(bounds.Max.Y)
	height := (ascent + descent).Ceil()

	m := CellMetrics{
		Width:                  width,
		Height:                 height,
		UnderlinePos:           DefaultUnderlinePos,
		UnderlineThickness:     DefaultUnderlineThickness,
		StrikethroughPos:       DefaultStrikethroughPos,
		StrikethroughThickness: DefaultStrikethroughThickness,
	}
	return m, ascent.Ceil()
}

func (r *TTFRasterizer) CellMetrics() CellMetrics {
	return r.metrics
}

func (r *TTFRasterizer) Rasterize(cluster string, style glyphid.Style) (RasterResult, bool) {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return RasterResult{}, false
	}
	g := runes[0]

	face := r.faces[style]

	idx := r.fonts[style].Index(g)
	if idx == 0 {
		return RasterResult{}, false
	}

	w := r.metrics.Width + 2
	h := r.metrics.Height + 2

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// Baseline sits ascent pixels below the cell top (plus the 1px
	// border) so descenders stay inside the cell.
	dot := fixed.P(1, 1+r.ascent)

	imgRect, mask, maskp, _, ok := face.Glyph(dot, g)
	if !ok {
		return RasterResult{}, false
	}
	draw.DrawMask(dst, imgRect, image.White, image.Point{}, mask, maskp, draw.Over)

	return RasterResult{
		Pixels:    dst,
		BaselineX: 1,
		BaselineY: 1 + r.ascent,
		IsEmoji:   false,
	}, true
}

// RasterizeDouble renders cluster through the 2x-point-size Normal
// face into a canvas twice the (padded) cell size, implementing
// rasterize.DoubleSizeRasterizer. Emoji carry no style variants, so
// only the Normal face is doubled. ok is false if the font cannot
// render the cluster.
func (r *TTFRasterizer) RasterizeDouble(cluster string) (RasterResult, bool) {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return RasterResult{}, false
	}
	g := runes[0]

	idx := r.emoji2xFont.Index(g)
	if idx == 0 {
		return RasterResult{}, false
	}

	w := 2 * (r.metrics.Width + 2)
	h := 2 * (r.metrics.Height + 2)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	dot := fixed.P(2, 2+2*r.ascent)

	imgRect, mask, maskp, _, ok := r.emoji2xFace.Glyph(dot, g)
	if !ok {
		return RasterResult{}, false
	}
	draw.DrawMask(dst, imgRect, image.White, image.Point{}, mask, maskp, draw.Over)

	return RasterResult{
		Pixels:    dst,
		BaselineX: 2,
		BaselineY: 2 + 2*r.ascent,
		IsEmoji:   true,
	}, true
}

func absFixed(x fixed.Int26_6) fixed.Int26_6 {
	if x < 0 {
		return -x
	}
	return x
}
