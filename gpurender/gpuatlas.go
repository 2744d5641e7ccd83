package gpurender

import (
	"io"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/junkdog/term-webgl2/atlas"
	"github.com/junkdog/term-webgl2/glyphid"
	"github.com/junkdog/term-webgl2/rasterize"
)

// GpuAtlas is the runtime, GPU-resident form of an atlas.Atlas: an
// immutable 2D array texture plus the geometry the renderer needs to
// compute texture coordinates and decoration positions. Immutable
// after construction; any number of TerminalGrid instances may share
// one by reference.
type GpuAtlas struct {
	textureID uint32

	CellWidth  int32 // including 1px padding on each side
	CellHeight int32
	Layers     int32

	PaddingFracX float32
	PaddingFracY float32

	UnderlinePos           float32
	UnderlineThickness     float32
	StrikethroughPos       float32
	StrikethroughThickness float32
}

// TextureID returns the GL object name of the immutable 2D array
// texture, for binding during TerminalGrid.Render.
func (g *GpuAtlas) TextureID() uint32 { return g.textureID }

// Release deletes the GL texture object. Safe to call once, after the
// last TerminalGrid sharing this atlas has been dropped.
func (g *GpuAtlas) Release() {
	if g.textureID != 0 {
		gl.DeleteTextures(1, &g.textureID)
		g.textureID = 0
	}
}

// LoadAtlas decodes the wire-format atlas from r, uploads its pixel
// payload into an immutable TEXTURE_2D_ARRAY, and builds the frozen
// GlyphResolver mapping alongside it. Failure at either the decode or
// the GL provisioning step is terminal for this call: there is no
// partial load.
func LoadAtlas(r io.Reader) (*GpuAtlas, *GlyphResolver, error) {
	decoded, err := atlas.Decode(r)
	if err != nil {
		return nil, nil, err
	}

	// The wire format has no header slot for decoration metrics, so
	// there is nothing in decoded to read here: every atlas uses the
	// same rasterize.Default{Underline,Strikethrough}* fractions the
	// builder's CellMetrics reports, rather than a value recovered
	// from this specific atlas's font.
	g := &GpuAtlas{
		CellWidth:              decoded.CellWidth,
		CellHeight:             decoded.CellHeight,
		Layers:                 int32(decoded.TexLayers),
		PaddingFracX:           1.0 / float32(decoded.CellWidth),
		PaddingFracY:           1.0 / float32(decoded.CellHeight),
		UnderlinePos:           rasterize.DefaultUnderlinePos,
		UnderlineThickness:     rasterize.DefaultUnderlineThickness,
		StrikethroughPos:       rasterize.DefaultStrikethroughPos,
		StrikethroughThickness: rasterize.DefaultStrikethroughThickness,
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	if texID == 0 {
		return nil, nil, &ResourceAllocationFailedError{Resource: "atlas texture"}
	}
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, texID)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	// Allocate all layers up front, then one sub-image upload covering
	// the whole array. The texture is never resized after this.
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY, 0, gl.RGBA8,
		int32(decoded.TexWidthPx), int32(decoded.TexHeightPx), int32(decoded.TexLayers),
		0, gl.RGBA, gl.UNSIGNED_BYTE, nil,
	)
	gl.TexSubImage3D(
		gl.TEXTURE_2D_ARRAY, 0,
		0, 0, 0,
		int32(decoded.TexWidthPx), int32(decoded.TexHeightPx), int32(decoded.TexLayers),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(decoded.Pixels),
	)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	g.textureID = texID

	resolver := NewGlyphResolver(baseIDsFromGlyphs(decoded.Glyphs))
	return g, resolver, nil
}

// baseIDsFromGlyphs reduces the glyph table's per-style records down
// to one base-id entry per non-ASCII grapheme cluster, stripping the
// style and effect bits that the resolver re-applies per cell.
func baseIDsFromGlyphs(glyphs []atlas.GlyphMetadata) map[string]glyphid.ID {
	const baseAndEmojiMask = glyphid.ID(0x01FF | 0x0800)

	out := make(map[string]glyphid.ID)
	for _, g := range glyphs {
		runes := []rune(g.Symbol)
		if len(runes) == 1 && runes[0] < 128 && !g.IsEmoji {
			continue // handled by the resolver's ASCII fast path
		}
		out[g.Symbol] = g.ID & baseAndEmojiMask
	}
	return out
}
