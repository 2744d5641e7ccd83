// Package gpurender implements the runtime pipeline: loading an atlas
// into GPU-resident resources, resolving cells to packed glyph IDs,
// and driving the terminal grid's per-frame batch/flush/render cycle.
package gpurender

import (
	"sync/atomic"

	"golang.org/x/text/unicode/norm"

	"github.com/junkdog/term-webgl2/glyphid"
)

// spaceBase is substituted whenever a grapheme cluster has no entry in
// the resolver's map.
const spaceBase uint16 = 0x20

// GlyphResolver translates a per-cell (grapheme, style, effect) into a
// packed glyphid.ID. It is immutable after construction: the mapping
// is frozen at atlas load, so lookups never allocate and never lock.
type GlyphResolver struct {
	// baseIDs maps an NFC-normalized grapheme cluster to its base id
	// (including the emoji bit, if any) as assigned by the builder.
	// ASCII clusters are not present here; they are handled by the
	// fast path in Resolve.
	baseIDs map[string]glyphid.ID

	missCount atomic.Int64
	lastMiss  atomic.Value // string
	logger    Logger
}

// NewGlyphResolver builds a resolver from the non-ASCII base ID
// assignments recorded in an atlas's glyph table. Callers typically
// construct this once per loaded atlas, from the same metadata used to
// build the GpuAtlas texture.
func NewGlyphResolver(nonASCIIBaseIDs map[string]glyphid.ID) *GlyphResolver {
	normalized := make(map[string]glyphid.ID, len(nonASCIIBaseIDs))
	for cluster, id := range nonASCIIBaseIDs {
		normalized[norm.NFC.String(cluster)] = id
	}
	return &GlyphResolver{baseIDs: normalized}
}

// Resolve composes the packed glyph ID for one cell. ASCII graphemes
// (single codepoint < 128) take the fast path and compose directly
// from the codepoint; anything else is looked up in the frozen
// mapping, falling back to space (and recording a miss) when absent.
func (r *GlyphResolver) Resolve(grapheme string, style glyphid.Style, underline, strikethrough bool) glyphid.ID {
	// Single byte < 128 is exactly one ASCII codepoint; no rune
	// decoding, no allocation.
	if len(grapheme) == 1 && grapheme[0] < 0x80 {
		id, err := glyphid.Compose(uint16(grapheme[0]), style, false, underline, strikethrough)
		if err != nil {
			// Reserved/overflow cannot occur for an ASCII base; this
			// would only fire on programmer error in the style value.
			id, _ = glyphid.Compose(spaceBase, glyphid.Normal, false, underline, strikethrough)
		}
		return id
	}

	key := norm.NFC.String(grapheme)
	base, ok := r.baseIDs[key]
	if !ok {
		r.recordMiss(grapheme)
		id, _ := glyphid.Compose(spaceBase, style, false, underline, strikethrough)
		return id
	}

	isEmoji := base&0x0800 != 0
	baseBits := uint16(base) & 0x01FF
	effectiveStyle := style
	if isEmoji {
		effectiveStyle = glyphid.Normal
	}
	id, err := glyphid.Compose(baseBits, effectiveStyle, isEmoji, underline, strikethrough)
	if err != nil {
		r.recordMiss(grapheme)
		id, _ = glyphid.Compose(spaceBase, glyphid.Normal, false, underline, strikethrough)
	}
	return id
}

// SetLogger attaches a logger for miss reports. Call before the
// resolver enters the frame loop; the mapping itself stays frozen.
func (r *GlyphResolver) SetLogger(l Logger) { r.logger = l }

func (r *GlyphResolver) recordMiss(grapheme string) {
	n := r.missCount.Add(1)
	r.lastMiss.Store(grapheme)
	// Log at powers of two only, so a grid full of unmapped glyphs
	// cannot flood the sink at frame rate.
	if r.logger != nil && n&(n-1) == 0 {
		r.logger.Warnf("gpurender: no atlas entry for %q, substituting space (%d misses total)", grapheme, n)
	}
}

// MissCount returns the number of resolver misses observed since
// construction. Safe to call from any goroutine; intended for
// diagnostics polled outside the render hot path.
func (r *GlyphResolver) MissCount() int64 {
	return r.missCount.Load()
}

// LastMiss returns the most recently missed grapheme cluster, or ""
// if none have occurred.
func (r *GlyphResolver) LastMiss() string {
	v := r.lastMiss.Load()
	if v == nil {
		return ""
	}
	return v.(string)
}
