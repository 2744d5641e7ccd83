package buildatlas_test

import (
	"image"
	"testing"

	"github.com/junkdog/term-webgl2/atlas"
	"github.com/junkdog/term-webgl2/buildatlas"
	"github.com/junkdog/term-webgl2/glyphid"
	"github.com/junkdog/term-webgl2/rasterize"
)

func Check[T comparable](t *testing.T, expected, got T) {
	t.Helper()
	if got != expected {
		t.Fatalf("Expected %v but got %v\n", expected, got)
	}
}

// fakeRasterizer produces a solid 1x1-content bitmap for every
// cluster/style pair; it never reports a miss. Used to exercise the
// layout/assembly pipeline without a real font file.
type fakeRasterizer struct{}

func (fakeRasterizer) CellMetrics() rasterize.CellMetrics {
	return rasterize.CellMetrics{Width: 8, Height: 16}
}

func (fakeRasterizer) Rasterize(cluster string, style glyphid.Style) (rasterize.RasterResult, bool) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 18))
	return rasterize.RasterResult{Pixels: img, BaselineX: 1, BaselineY: 17}, true
}

func TestAssignBaseIDsASCIIFastPath(t *testing.T) {
	cs := buildatlas.NewASCIICharacterSet()
	assignments, err := buildatlas.AssignBaseIDs(cs, rasterize.IsLikelyEmoji)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range assignments {
		r := []rune(a.Cluster)
		if len(r) != 1 {
			t.Fatalf("unexpected multi-rune ASCII cluster %q", a.Cluster)
		}
		Check(t, glyphid.ID(r[0]), a.ID)
	}
}

func TestAssignBaseIDsEmojiRegion(t *testing.T) {
	cs := buildatlas.CharacterSet{Clusters: []string{"A", "\U0001F680"}}
	assignments, err := buildatlas.AssignBaseIDs(cs, rasterize.IsLikelyEmoji)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Check(t, 2, len(assignments))
	Check(t, glyphid.ID('A'), assignments[0].ID)
	Check(t, glyphid.EmojiRegionStart, assignments[1].ID)
	Check(t, true, assignments[1].IsEmoji)
}

func TestAssignBaseIDsCapacityExceeded(t *testing.T) {
	// 513 distinct non-ASCII clusters overflow the 512-slot base space.
	var cs buildatlas.CharacterSet
	for r := rune(0x4E00); r < 0x4E00+513; r++ {
		cs.Clusters = append(cs.Clusters, string(r))
	}
	if _, err := buildatlas.AssignBaseIDs(cs, rasterize.IsLikelyEmoji); err == nil {
		t.Fatalf("expected AtlasCapacityExceededError for 513 base glyphs")
	} else if _, ok := err.(*atlas.AtlasCapacityExceededError); !ok {
		t.Fatalf("expected *AtlasCapacityExceededError, got %T: %v", err, err)
	}
}

// For an atlas whose base IDs are exactly the ASCII codepoints 0..127,
// the base-only texture (one layer per 16 consecutive base ids,
// ignoring style bits) spans 128/16 = 8 layers, with space at layer 2
// column 0.
func TestASCIIFastPathEightLayers(t *testing.T) {
	maxBase := glyphid.ID(0x7F)
	layers := int(glyphid.TextureLayer(maxBase)) + 1
	Check(t, 8, layers)

	spaceID := glyphid.ID(' ')
	Check(t, uint16(2), glyphid.TextureLayer(spaceID))
	Check(t, uint16(0), glyphid.Column(spaceID))
}

func TestBuildASCIIAtlasAllStyleVariants(t *testing.T) {
	cfg := buildatlas.Config{
		FontName:     "Fake",
		FontSize:     16,
		CharacterSet: buildatlas.NewASCIICharacterSet(),
	}
	a, missing, err := buildatlas.Build(cfg, fakeRasterizer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected no missing glyphs, got %d", len(missing))
	}

	// 95 printable ASCII chars * 4 styles = 380 glyphs, max id is for
	// '~' (0x7E) with BoldItalic: 0x7E | 0x600 = 0x67E, layer = 0x67 = 103.
	// 104 layers total (0..103 inclusive), since styled variants widen
	// the texture beyond the base-only 8-layer scenario above.
	Check(t, uint32(104), a.TexLayers)
	Check(t, 380, len(a.Glyphs))

	var found bool
	for _, g := range a.Glyphs {
		if g.Symbol == " " && g.Style == glyphid.Normal {
			found = true
			Check(t, uint16(2), glyphid.TextureLayer(g.ID))
			Check(t, uint16(0), glyphid.Column(g.ID))
		}
	}
	if !found {
		t.Fatalf("expected a Normal-style glyph record for space")
	}
}

func TestBuildEmojiGlyphMetadata(t *testing.T) {
	cfg := buildatlas.Config{
		FontName:     "Fake",
		FontSize:     16,
		CharacterSet: buildatlas.CharacterSet{Clusters: []string{"\U0001F680"}},
	}
	a, _, err := buildatlas.Build(cfg, fakeRasterizer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Check(t, 1, len(a.Glyphs))
	g := a.Glyphs[0]
	Check(t, true, g.IsEmoji)
	Check(t, glyphid.Normal, g.Style)
	Check(t, glyphid.EmojiRegionStart, g.ID)
	Check(t, uint16(128), glyphid.TextureLayer(g.ID))
}
