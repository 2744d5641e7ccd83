// Package atlas implements the on-disk font atlas: the packed texture
// plus the glyph metadata table produced offline by the builder and
// consumed at load time by the renderer. Encode/Decode implement the
// wire-exact binary format; nothing in this package touches a GPU API.
package atlas

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/junkdog/term-webgl2/assert"
	"github.com/junkdog/term-webgl2/glyphid"
)

var magic = [4]byte{0xBA, 0xB1, 0xF0, 0xA5}

const formatVersion byte = 0x01

// GlyphMetadata is one record in the glyph table: where a grapheme
// cluster's bitmap lives in the texture, and the identity fields
// needed to recompute its packed glyph ID.
type GlyphMetadata struct {
	ID      glyphid.ID
	Style   glyphid.Style
	IsEmoji bool
	PixelX  int32
	PixelY  int32
	Symbol  string // the grapheme cluster this glyph rasterizes
}

// Atlas is the full in-memory atlas: font identity, cell geometry, the
// RGBA8 pixel buffer for the whole 2D array texture (layers stacked
// contiguously), and the glyph metadata table. Constructed once by the
// builder, never mutated thereafter.
type Atlas struct {
	FontName string
	FontSize float32

	TexWidthPx  uint32
	TexHeightPx uint32
	TexLayers   uint32

	// CellWidth/CellHeight include the 1px padding border on each side.
	CellWidth  int32
	CellHeight int32

	Glyphs []GlyphMetadata

	// Pixels holds TexWidthPx * TexHeightPx * TexLayers * 4 bytes of
	// RGBA8, one layer after another.
	Pixels []byte
}

// Encode writes the wire-exact atlas format to w: magic, version,
// header fields, the glyph table, then the zlib-deflated pixel
// payload. Deterministic for a given Atlas value — no timestamps, no
// random salts.
func (a *Atlas) Encode(w io.Writer) error {
	assert.T(len(a.Pixels) == int(a.TexWidthPx)*int(a.TexHeightPx)*int(a.TexLayers)*4,
		"Atlas.Pixels length %d does not match %dx%dx%d header dims", len(a.Pixels), a.TexWidthPx, a.TexHeightPx, a.TexLayers)

	if len(a.FontName) > 255 {
		return fmt.Errorf("atlas: font name %q exceeds 255 bytes", a.FontName)
	}
	if len(a.Glyphs) > 0xFFFF {
		return fmt.Errorf("atlas: glyph count %d exceeds u16 range", len(a.Glyphs))
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(formatVersion)
	buf.WriteByte(byte(len(a.FontName)))
	buf.WriteString(a.FontName)

	if err := binary.Write(&buf, binary.LittleEndian, a.FontSize); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, a.TexWidthPx); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, a.TexHeightPx); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, a.TexLayers); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, a.CellWidth); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, a.CellHeight); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(a.Glyphs))); err != nil {
		return err
	}

	for _, g := range a.Glyphs {
		if len(g.Symbol) > 255 {
			return fmt.Errorf("atlas: glyph symbol %q exceeds 255 bytes", g.Symbol)
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint16(g.ID)); err != nil {
			return err
		}
		buf.WriteByte(byte(g.Style))
		if g.IsEmoji {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		if err := binary.Write(&buf, binary.LittleEndian, g.PixelX); err != nil {
			return err
		}
		if err := binary.Write(&buf, binary.LittleEndian, g.PixelY); err != nil {
			return err
		}
		buf.WriteByte(byte(len(g.Symbol)))
		buf.WriteString(g.Symbol)
	}

	var compressed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&compressed, flate.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(a.Pixels); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	if err := binary.Write(&buf, binary.LittleEndian, uint32(compressed.Len())); err != nil {
		return err
	}
	buf.Write(compressed.Bytes())

	_, err = w.Write(buf.Bytes())
	return err
}

// Decode reads and validates the wire-exact atlas format from r.
func Decode(r io.Reader) (*Atlas, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	need := func(buf []byte, n int) error {
		if len(buf) < n {
			return &TruncatedError{Wanted: n, Got: len(buf)}
		}
		return nil
	}

	if err := need(all, 5); err != nil {
		return nil, err
	}
	var gotMagic [4]byte
	copy(gotMagic[:], all[0:4])
	if gotMagic != magic {
		return nil, &BadMagicError{Got: gotMagic}
	}
	version := all[4]
	if version != formatVersion {
		return nil, &UnsupportedVersionError{Got: version}
	}

	off := 5
	if err := need(all, off+1); err != nil {
		return nil, err
	}
	nameLen := int(all[off])
	off++
	if err := need(all, off+nameLen); err != nil {
		return nil, err
	}
	fontName := string(all[off : off+nameLen])
	off += nameLen

	a := &Atlas{FontName: fontName}

	const fixedHeaderLen = 4 + 4 + 4 + 4 + 4 + 2 // font_size, tex_w, tex_h, layers, cell_w, cell_h, glyph_count
	if err := need(all, off+fixedHeaderLen); err != nil {
		return nil, err
	}
	a.FontSize = asFloat32(all[off : off+4])
	off += 4
	a.TexWidthPx = binary.LittleEndian.Uint32(all[off : off+4])
	off += 4
	a.TexHeightPx = binary.LittleEndian.Uint32(all[off : off+4])
	off += 4
	a.TexLayers = binary.LittleEndian.Uint32(all[off : off+4])
	off += 4
	a.CellWidth = int32(binary.LittleEndian.Uint32(all[off : off+4]))
	off += 4
	a.CellHeight = int32(binary.LittleEndian.Uint32(all[off : off+4]))
	off += 4
	glyphCount := binary.LittleEndian.Uint16(all[off : off+2])
	off += 2

	seen := make(map[glyphid.ID]struct{}, glyphCount)
	a.Glyphs = make([]GlyphMetadata, 0, glyphCount)
	for i := 0; i < int(glyphCount); i++ {
		if err := need(all, off+2+1+1+4+4+1); err != nil {
			return nil, err
		}
		var g GlyphMetadata
		g.ID = glyphid.ID(binary.LittleEndian.Uint16(all[off : off+2]))
		off += 2
		g.Style = glyphid.Style(all[off])
		off++
		g.IsEmoji = all[off] != 0
		off++
		g.PixelX = int32(binary.LittleEndian.Uint32(all[off : off+4]))
		off += 4
		g.PixelY = int32(binary.LittleEndian.Uint32(all[off : off+4]))
		off += 4
		symLen := int(all[off])
		off++
		if err := need(all, off+symLen); err != nil {
			return nil, err
		}
		g.Symbol = string(all[off : off+symLen])
		off += symLen

		if g.IsEmoji && (g.Style != glyphid.Normal || g.ID&0x0800 == 0) {
			return nil, fmt.Errorf("atlas: glyph %q marked emoji but style/id bits are inconsistent", g.Symbol)
		}
		if _, dup := seen[g.ID]; dup {
			return nil, fmt.Errorf("atlas: duplicate glyph id 0x%04X", uint16(g.ID))
		}
		seen[g.ID] = struct{}{}

		a.Glyphs = append(a.Glyphs, g)
	}

	if err := need(all, off+4); err != nil {
		return nil, err
	}
	pixelLen := binary.LittleEndian.Uint32(all[off : off+4])
	off += 4
	if err := need(all, off+int(pixelLen)); err != nil {
		return nil, err
	}
	compressed := all[off : off+int(pixelLen)]
	off += int(pixelLen)

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, &InflateFailedError{Cause: err}
	}
	pixels, err := io.ReadAll(zr)
	if err != nil {
		return nil, &InflateFailedError{Cause: err}
	}
	if err := zr.Close(); err != nil {
		return nil, &InflateFailedError{Cause: err}
	}

	wantWidth := uint32(a.CellWidth) * 16
	if a.TexWidthPx != wantWidth {
		return nil, fmt.Errorf("atlas: tex_width_px %d != cell_width*16 (%d)", a.TexWidthPx, wantWidth)
	}
	if a.TexHeightPx != uint32(a.CellHeight) {
		return nil, fmt.Errorf("atlas: tex_height_px %d != cell_height (%d)", a.TexHeightPx, a.CellHeight)
	}

	wantPixels := int(a.TexWidthPx) * int(a.TexHeightPx) * int(a.TexLayers) * 4
	if len(pixels) != wantPixels {
		return nil, &SizeMismatchError{Wanted: wantPixels, Got: len(pixels)}
	}
	a.Pixels = pixels

	return a, nil
}

func asFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
