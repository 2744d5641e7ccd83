package buildatlas

import (
	"image"
	"image/draw"

	"github.com/junkdog/term-webgl2/glyphid"
	"github.com/junkdog/term-webgl2/rasterize"
)

// styleVariants lists the style values a non-emoji assignment is
// rasterized for. Emoji assignments are rasterized Normal only.
var styleVariants = [...]glyphid.Style{glyphid.Normal, glyphid.Bold, glyphid.Italic, glyphid.BoldItalic}

// placedGlyph is one successfully rasterized (assignment, style) pair,
// with its computed full packed ID and target pixel offset.
type placedGlyph struct {
	fullID  glyphid.ID
	style   glyphid.Style
	isEmoji bool
	symbol  string
	pixels  *image.RGBA
	layer   uint16
	col     uint16
}

// MissingGlyph records a (cluster, style) pair the rasterizer could
// not produce. Non-fatal: the caller may log it but atlas production
// continues.
type MissingGlyph struct {
	Cluster string
	Style   glyphid.Style
}

// textureAssembler packs placed glyphs into one contiguous RGBA8
// buffer, one layer after another, 16 glyphs per layer in a single
// horizontal strip.
type textureAssembler struct {
	cellWInclPad int
	cellHInclPad int
}

func (t *textureAssembler) layerCount(maxID glyphid.ID) int {
	layer := int(glyphid.TextureLayer(maxID))
	return layer + 1
}

func (t *textureAssembler) assemble(placed []placedGlyph) (pixels []byte, texWidth, texHeight, layers int) {
	maxID := glyphid.ID(0)
	for _, p := range placed {
		if p.fullID > maxID {
			maxID = p.fullID
		}
	}

	texWidth = t.cellWInclPad * 16
	texHeight = t.cellHInclPad
	layers = t.layerCount(maxID)

	img := image.NewRGBA(image.Rect(0, 0, texWidth, texHeight*layers))
	for _, p := range placed {
		dstX := int(p.col) * t.cellWInclPad
		dstY := int(p.layer) * t.cellHInclPad
		dstRect := image.Rect(dstX, dstY, dstX+t.cellWInclPad, dstY+t.cellHInclPad)
		draw.Draw(img, dstRect, p.pixels, image.Point{}, draw.Src)
	}

	// img is one tall strip of layers*texHeight rows; the wire format
	// and runtime texture both want layers as a separate dimension, so
	// pixels is exactly that strip's raw bytes — reslicing per layer
	// is the caller's concern (the GPU upload path), not the encoder's.
	return img.Pix, texWidth, texHeight, layers
}

func placeGlyphs(assignments []Assignment, r rasterize.Rasterizer) (placed []placedGlyph, missing []MissingGlyph) {
	for _, a := range assignments {
		variants := styleVariants[:1]
		if !a.IsEmoji {
			variants = styleVariants[:]
		}

		for _, style := range variants {
			fullID := a.ID
			if !a.IsEmoji {
				id, err := glyphid.Compose(uint16(a.ID), style, false, false, false)
				if err != nil {
					continue
				}
				fullID = id
			}

			result, ok := r.Rasterize(a.Cluster, style)
			if !ok {
				missing = append(missing, MissingGlyph{Cluster: a.Cluster, Style: style})
				continue
			}

			placed = append(placed, placedGlyph{
				fullID:  fullID,
				style:   style,
				isEmoji: a.IsEmoji,
				symbol:  a.Cluster,
				pixels:  result.Pixels,
				layer:   glyphid.TextureLayer(fullID),
				col:     glyphid.Column(fullID),
			})
		}
	}
	return placed, missing
}
