package glyphid_test

import (
	"testing"

	"github.com/junkdog/term-webgl2/glyphid"
)

func Check[T comparable](t *testing.T, expected, got T) {
	t.Helper()
	if got != expected {
		t.Fatalf("Expected %v but got %v\n", expected, got)
	}
}

func TestComposeASCIIFastPath(t *testing.T) {
	id, err := glyphid.Compose('A', glyphid.Normal, false, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Check(t, glyphid.ID('A'), id)
}

func TestComposeStyledUnderline(t *testing.T) {
	// ('A', BoldItalic, Underline) must pack to 0x1641.
	id, err := glyphid.Compose('A', glyphid.BoldItalic, false, true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Check(t, glyphid.ID(0x1641), id)
}

func TestComposeEmojiRegion(t *testing.T) {
	id, err := glyphid.Compose(0, glyphid.Normal, true, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Check(t, glyphid.EmojiRegionStart, id)
}

func TestComposeEmojiWithStyleRejected(t *testing.T) {
	if _, err := glyphid.Compose(0, glyphid.Bold, true, false, false); err == nil {
		t.Fatalf("expected error composing emoji with style")
	}
}

func TestComposeBaseOverflowRejected(t *testing.T) {
	if _, err := glyphid.Compose(glyphid.MaxBase+1, glyphid.Normal, false, false, false); err == nil {
		t.Fatalf("expected error for base exceeding MaxBase")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	id, err := glyphid.Compose(42, glyphid.Italic, false, true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := glyphid.Decode(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Check(t, uint16(42), d.Base)
	Check(t, glyphid.Italic, d.Style)
	Check(t, false, d.Emoji)
	Check(t, true, d.Underline)
	Check(t, true, d.Strikethrough)
}

func TestDecodeReservedBitsRejected(t *testing.T) {
	if _, err := glyphid.Decode(glyphid.ID(0x4000)); err == nil {
		t.Fatalf("expected error for reserved bit 14 set")
	}
	if _, err := glyphid.Decode(glyphid.ID(0x8000)); err == nil {
		t.Fatalf("expected error for reserved bit 15 set")
	}
}

func TestTextureLayerAndColumn(t *testing.T) {
	id, err := glyphid.Compose(17, glyphid.Bold, false, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// base 17 = 0b10001, bold bit set -> id = 0x211
	Check(t, glyphid.ID(0x211), id)
	Check(t, uint16(0x211>>4), glyphid.TextureLayer(id))
	Check(t, uint16(0x211&0x000F), glyphid.Column(id))
}

func TestDecorationsDoNotShiftLayer(t *testing.T) {
	plain, _ := glyphid.Compose(5, glyphid.Normal, false, false, false)
	decorated, _ := glyphid.Compose(5, glyphid.Normal, false, true, true)
	Check(t, glyphid.TextureLayer(plain), glyphid.TextureLayer(decorated))
	Check(t, glyphid.Column(plain), glyphid.Column(decorated))
}
