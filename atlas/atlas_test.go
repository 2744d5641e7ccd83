package atlas_test

import (
	"bytes"
	"testing"

	"github.com/junkdog/term-webgl2/atlas"
	"github.com/junkdog/term-webgl2/glyphid"
)

func Check[T comparable](t *testing.T, expected, got T) {
	t.Helper()
	if got != expected {
		t.Fatalf("Expected %v but got %v\n", expected, got)
	}
}

func minimalAtlas() *atlas.Atlas {
	cellW, cellH := int32(10), int32(18)
	pixels := make([]byte, int(cellW)*16*int(cellH)*1*4)
	return &atlas.Atlas{
		FontName:    "X",
		FontSize:    16,
		TexWidthPx:  uint32(cellW) * 16,
		TexHeightPx: uint32(cellH),
		TexLayers:   1,
		CellWidth:   cellW,
		CellHeight:  cellH,
		Glyphs: []atlas.GlyphMetadata{
			{ID: glyphid.ID(' '), Style: glyphid.Normal, IsEmoji: false, PixelX: 0, PixelY: 0, Symbol: " "},
		},
		Pixels: pixels,
	}
}

func TestRoundTripFormat(t *testing.T) {
	a := minimalAtlas()

	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := atlas.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var reencoded bytes.Buffer
	if err := decoded.Encode(&reencoded); err != nil {
		t.Fatalf("re-encode: %v", err)
	}

	if !bytes.Equal(buf.Bytes(), reencoded.Bytes()) {
		t.Fatalf("re-encoded bytes differ from original")
	}

	Check(t, a.FontName, decoded.FontName)
	Check(t, a.FontSize, decoded.FontSize)
	Check(t, a.CellWidth, decoded.CellWidth)
	Check(t, a.CellHeight, decoded.CellHeight)
	Check(t, len(a.Glyphs), len(decoded.Glyphs))
	Check(t, a.Glyphs[0].Symbol, decoded.Glyphs[0].Symbol)
}

func TestDecodeBadMagic(t *testing.T) {
	buf := []byte{0, 0, 0, 0, 0x01}
	if _, err := atlas.Decode(bytes.NewReader(buf)); err == nil {
		t.Fatalf("expected BadMagicError")
	} else if _, ok := err.(*atlas.BadMagicError); !ok {
		t.Fatalf("expected *BadMagicError, got %T: %v", err, err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	buf := []byte{0xBA, 0xB1, 0xF0, 0xA5, 0x02}
	if _, err := atlas.Decode(bytes.NewReader(buf)); err == nil {
		t.Fatalf("expected UnsupportedVersionError")
	} else if _, ok := err.(*atlas.UnsupportedVersionError); !ok {
		t.Fatalf("expected *UnsupportedVersionError, got %T: %v", err, err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	a := minimalAtlas()
	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-10]
	if _, err := atlas.Decode(bytes.NewReader(truncated)); err == nil {
		t.Fatalf("expected TruncatedError")
	} else if _, ok := err.(*atlas.TruncatedError); !ok {
		t.Fatalf("expected *TruncatedError, got %T: %v", err, err)
	}
}

func TestDecodeSizeMismatch(t *testing.T) {
	a := minimalAtlas()
	a.TexLayers = 2 // pixel buffer still sized for 1 layer
	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := atlas.Decode(bytes.NewReader(buf.Bytes())); err == nil {
		t.Fatalf("expected SizeMismatchError")
	} else if _, ok := err.(*atlas.SizeMismatchError); !ok {
		t.Fatalf("expected *SizeMismatchError, got %T: %v", err, err)
	}
}

func TestASCIIFastPathLayerAndColumn(t *testing.T) {
	// space (0x20) resides at layer 2, column 0.
	id := glyphid.ID(' ')
	Check(t, uint16(2), glyphid.TextureLayer(id))
	Check(t, uint16(0), glyphid.Column(id))
}

func TestEmojiPathMetadataConsistency(t *testing.T) {
	id, err := glyphid.Compose(0, glyphid.Normal, true, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := atlas.GlyphMetadata{ID: id, Style: glyphid.Normal, IsEmoji: true, Symbol: "\U0001F680"}
	Check(t, true, g.IsEmoji)
	Check(t, glyphid.Normal, g.Style)
	Check(t, uint16(128), glyphid.TextureLayer(g.ID))
	Check(t, uint16(0), glyphid.Column(g.ID))
}
