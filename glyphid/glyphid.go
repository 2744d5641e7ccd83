// Package glyphid implements the 16-bit packed glyph identifier scheme:
// a base glyph index composed with style and effect bits into a single
// integer coordinate that both the atlas builder and the render shader
// agree on.
package glyphid

import (
	"fmt"

	"github.com/junkdog/term-webgl2/assert"
)

// Style selects one of the four rasterized variants of a base glyph.
type Style uint8

const (
	Normal Style = iota
	Bold
	Italic
	BoldItalic
)

func (s Style) String() string {
	switch s {
	case Normal:
		return "Normal"
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case BoldItalic:
		return "BoldItalic"
	default:
		return fmt.Sprintf("Style(%d)", uint8(s))
	}
}

// ID is the packed 16-bit glyph identifier described in the bit table
// below. Zero value is the glyph for base 0, Normal style, no effects.
//
//	bits 0-8   base           0x01FF
//	bit  9     bold           0x0200
//	bit  10    italic         0x0400
//	bit  11    emoji          0x0800
//	bit  12    underline      0x1000
//	bit  13    strikethrough  0x2000
//	bits 14-15 reserved       0xC000  (must be zero)
type ID uint16

const (
	baseMask     ID = 0x01FF
	boldBit      ID = 0x0200
	italicBit    ID = 0x0400
	emojiBit     ID = 0x0800
	underlineBit ID = 0x1000
	strikeBit    ID = 0x2000
	reservedMask ID = 0xC000

	// MaxBase is the highest legal base glyph value (inclusive); the
	// scheme has room for 512 base glyphs, 0..MaxBase.
	MaxBase = 511

	// EmojiRegionStart is the full packed ID of emoji index 0.
	EmojiRegionStart ID = emojiBit
)

// InvalidGlyphIDError reports a glyph ID that fails validation, either
// because a reserved bit is set or because base/style/emoji fields are
// mutually inconsistent.
type InvalidGlyphIDError struct {
	ID     ID
	Reason string
}

func (e *InvalidGlyphIDError) Error() string {
	return fmt.Sprintf("glyphid: invalid id 0x%04X: %s", uint16(e.ID), e.Reason)
}

// Compose packs a base glyph index, style, and effect flags into an ID.
// It returns an *InvalidGlyphIDError if base exceeds MaxBase, or if
// emoji is combined with a non-Normal style (emoji carry no style
// variants).
func Compose(base uint16, style Style, emoji, underline, strikethrough bool) (ID, error) {
	if base > MaxBase {
		return 0, &InvalidGlyphIDError{Reason: fmt.Sprintf("base %d exceeds max %d", base, MaxBase)}
	}
	if emoji && style != Normal {
		return 0, &InvalidGlyphIDError{Reason: "emoji glyphs cannot carry a style"}
	}

	id := ID(base) & baseMask
	switch style {
	case Bold:
		id |= boldBit
	case Italic:
		id |= italicBit
	case BoldItalic:
		id |= boldBit | italicBit
	}
	if emoji {
		id |= emojiBit
	}
	if underline {
		id |= underlineBit
	}
	if strikethrough {
		id |= strikeBit
	}

	assert.T(id&reservedMask == 0, "Compose produced an id with reserved bits set: 0x%04X", uint16(id))
	return id, nil
}

// Decoded is the fully unpacked form of an ID.
type Decoded struct {
	Base          uint16
	Style         Style
	Emoji         bool
	Underline     bool
	Strikethrough bool
}

// Decode validates and unpacks an ID. It returns *InvalidGlyphIDError
// if any reserved bit (14 or 15) is set.
func Decode(id ID) (Decoded, error) {
	if id&reservedMask != 0 {
		return Decoded{}, &InvalidGlyphIDError{ID: id, Reason: "reserved bits 14-15 must be zero"}
	}

	d := Decoded{
		Base:          uint16(id & baseMask),
		Emoji:         id&emojiBit != 0,
		Underline:     id&underlineBit != 0,
		Strikethrough: id&strikeBit != 0,
	}

	bold := id&boldBit != 0
	italic := id&italicBit != 0
	switch {
	case bold && italic:
		d.Style = BoldItalic
	case bold:
		d.Style = Bold
	case italic:
		d.Style = Italic
	default:
		d.Style = Normal
	}
	return d, nil
}

// TextureLayer derives the atlas array-texture layer index an ID's
// glyph is rasterized into. Underline and strikethrough bits never
// enter this computation: decorations are drawn by the shader, not by
// selecting a different rasterized layer.
func TextureLayer(id ID) uint16 {
	return uint16((id & 0x0FFF) >> 4)
}

// Column derives the horizontal slot (0..15) within an ID's layer.
func Column(id ID) uint16 {
	return uint16(id & 0x000F)
}
