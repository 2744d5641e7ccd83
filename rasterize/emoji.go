package rasterize

import (
	"image"
	"image/draw"

	"github.com/junkdog/term-webgl2/glyphid"
)

// EmojiRasterizer wraps a base Rasterizer and rasterizes emoji-tagged
// clusters at twice the cell's nominal size before downscaling into
// the cell, preserving aspect ratio and centering the result, per the
// 2x-then-scale contract for color glyphs. This requires the wrapped
// Rasterizer to implement DoubleSizeRasterizer; if it doesn't, there
// is no larger bitmap to supersample from, and emoji fall back to the
// wrapped Rasterizer's normal-size output scaled to the same cell size
// it already has, which only recenters it. Non-emoji clusters are
// delegated unchanged to the wrapped Rasterizer.
type EmojiRasterizer struct {
	Rasterizer
	double DoubleSizeRasterizer // nil if the wrapped Rasterizer lacks the capability
}

// NewEmojiRasterizer wraps base so that clusters satisfying
// IsLikelyEmoji are rendered through the 2x-scale-down emoji path. If
// base implements DoubleSizeRasterizer, that capability is used to
// genuinely supersample; otherwise emoji fall back to base's
// normal-size Rasterize.
func NewEmojiRasterizer(base Rasterizer) *EmojiRasterizer {
	double, _ := base.(DoubleSizeRasterizer)
	return &EmojiRasterizer{Rasterizer: base, double: double}
}

func (e *EmojiRasterizer) Rasterize(cluster string, style glyphid.Style) (RasterResult, bool) {
	if !IsLikelyEmoji(cluster) {
		return e.Rasterizer.Rasterize(cluster, style)
	}

	var result RasterResult
	var ok bool
	if e.double != nil {
		result, ok = e.double.RasterizeDouble(cluster)
	} else {
		// Emoji carry no style variants; always rasterize Normal.
		result, ok = e.Rasterizer.Rasterize(cluster, glyphid.Normal)
	}
	if !ok {
		return RasterResult{}, false
	}

	cm := e.Rasterizer.CellMetrics()
	cellW, cellH := cm.Width+2, cm.Height+2

	scaled := scaleToFitCentered(result.Pixels, cellW, cellH)
	return RasterResult{
		Pixels:  scaled,
		IsEmoji: true,
	}, true
}

// scaleToFitCentered nearest-neighbor scales src to fit within
// (dstW, dstH) preserving aspect ratio, centered in a transparent
// canvas of exactly that size. Nearest-neighbor keeps alpha edges
// crisp for small cell-sized targets.
func scaleToFitCentered(src *image.RGBA, dstW, dstH int) *image.RGBA {
	srcB := src.Bounds()
	srcW, srcH := srcB.Dx(), srcB.Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	}

	scale := float64(dstW) / float64(srcW)
	if s := float64(dstH) / float64(srcH); s < scale {
		scale = s
	}

	scaledW := int(float64(srcW) * scale)
	scaledH := int(float64(srcH) * scale)
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	for y := 0; y < scaledH; y++ {
		sy := srcB.Min.Y + y*srcH/scaledH
		for x := 0; x < scaledW; x++ {
			sx := srcB.Min.X + x*srcW/scaledW
			resized.Set(x, y, src.At(sx, sy))
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	offX := (dstW - scaledW) / 2
	offY := (dstH - scaledH) / 2
	draw.Draw(dst, image.Rect(offX, offY, offX+scaledW, offY+scaledH), resized, image.Point{}, draw.Over)

	return dst
}
