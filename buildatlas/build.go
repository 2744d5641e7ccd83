package buildatlas

import (
	"github.com/junkdog/term-webgl2/atlas"
	"github.com/junkdog/term-webgl2/glyphid"
	"github.com/junkdog/term-webgl2/rasterize"
)

// Config describes one atlas build: the font identity to record in
// the header (the actual glyph data comes from the Rasterizer, which
// already has the font loaded), the character set, and the emoji
// classifier.
type Config struct {
	FontName string
	FontSize float32

	CharacterSet CharacterSet

	// IsEmoji classifies a grapheme cluster as emoji or ordinary. If
	// nil, rasterize.IsLikelyEmoji is used.
	IsEmoji func(cluster string) bool
}

// Build runs the full offline pipeline: assign base IDs, rasterize
// every (cluster, style) pair, pack the results into the 16-wide
// layer grid, and produce a complete atlas.Atlas ready for Encode.
// Missing glyphs are reported but do not fail the build.
func Build(cfg Config, r rasterize.Rasterizer) (*atlas.Atlas, []MissingGlyph, error) {
	isEmoji := cfg.IsEmoji
	if isEmoji == nil {
		isEmoji = rasterize.IsLikelyEmoji
	}

	assignments, err := AssignBaseIDs(cfg.CharacterSet, isEmoji)
	if err != nil {
		return nil, nil, err
	}

	placed, missing := placeGlyphs(assignments, r)

	metrics := r.CellMetrics()
	ta := &textureAssembler{
		cellWInclPad: metrics.Width + 2,
		cellHInclPad: metrics.Height + 2,
	}
	pixels, texWidth, texHeight, layers := ta.assemble(placed)

	glyphs := make([]atlas.GlyphMetadata, 0, len(placed))
	for _, p := range placed {
		glyphs = append(glyphs, atlas.GlyphMetadata{
			ID:      p.fullID,
			Style:   styleOf(p),
			IsEmoji: p.isEmoji,
			PixelX:  int32(p.col) * int32(ta.cellWInclPad),
			PixelY:  0,
			Symbol:  p.symbol,
		})
	}

	a := &atlas.Atlas{
		FontName:    cfg.FontName,
		FontSize:    cfg.FontSize,
		TexWidthPx:  uint32(texWidth),
		TexHeightPx: uint32(texHeight),
		TexLayers:   uint32(layers),
		CellWidth:   int32(ta.cellWInclPad),
		CellHeight:  int32(ta.cellHInclPad),
		Glyphs:      glyphs,
		Pixels:      pixels,
	}

	return a, missing, nil
}

func styleOf(p placedGlyph) glyphid.Style {
	if p.isEmoji {
		return glyphid.Normal
	}
	return p.style
}
