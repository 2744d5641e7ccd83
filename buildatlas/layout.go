// Package buildatlas implements the offline pipeline that turns a
// character set and a Rasterizer into a complete atlas.Atlas: base-ID
// assignment, bitmap layout into the 16-wide layer grid, and RGBA
// texture assembly.
package buildatlas

import (
	"github.com/junkdog/term-webgl2/atlas"
	"github.com/junkdog/term-webgl2/glyphid"
)

// CharacterSet is the offline pipeline's input: the grapheme clusters
// to bake into an atlas. Order is preserved and determines the
// deterministic assignment of non-ASCII base IDs.
type CharacterSet struct {
	Clusters []string
}

// NewASCIICharacterSet returns the character set of printable ASCII,
// code points 0x20..0x7E inclusive, in codepoint order.
func NewASCIICharacterSet() CharacterSet {
	cs := CharacterSet{}
	for r := rune(0x20); r <= 0x7E; r++ {
		cs.Clusters = append(cs.Clusters, string(r))
	}
	return cs
}

// Assignment is the result of AssignBaseIDs for one grapheme cluster.
type Assignment struct {
	Cluster string
	ID      glyphid.ID // base id, OR-ed with the emoji bit for emoji; no style bits
	IsEmoji bool
}

// AssignBaseIDs implements the glyph identifier scheme's
// assign_base_ids operation: ASCII clusters (single codepoint < 128)
// map to their own codepoint; remaining non-emoji clusters fill holes
// in 0..511 in iteration order; emoji clusters are assigned
// sequentially starting at 0 within the emoji region
// (0x800 | emoji_index). Returns AtlasCapacityExceededError if either
// region overflows 512 entries.
func AssignBaseIDs(cs CharacterSet, isEmoji func(cluster string) bool) ([]Assignment, error) {
	reserved := make(map[uint16]bool, len(cs.Clusters))

	// First pass: ASCII clusters claim their own codepoint slot
	// regardless of iteration order, since that mapping is fixed by
	// the fast-path contract, not by assignment order.
	for _, cluster := range cs.Clusters {
		runes := []rune(cluster)
		if len(runes) == 1 && runes[0] < 128 && !isEmoji(cluster) {
			reserved[uint16(runes[0])] = true
		}
	}

	assignments := make([]Assignment, 0, len(cs.Clusters))
	nextFree := uint16(0)
	nextEmoji := uint16(0)
	seen := make(map[string]bool, len(cs.Clusters))

	for _, cluster := range cs.Clusters {
		if seen[cluster] {
			continue
		}
		seen[cluster] = true

		runes := []rune(cluster)

		switch {
		case isEmoji(cluster):
			if int(nextEmoji) > glyphid.MaxBase {
				return nil, &atlas.AtlasCapacityExceededError{Requested: int(nextEmoji) + 1, Capacity: glyphid.MaxBase + 1}
			}
			id, err := glyphid.Compose(nextEmoji, glyphid.Normal, true, false, false)
			if err != nil {
				return nil, err
			}
			assignments = append(assignments, Assignment{Cluster: cluster, ID: id, IsEmoji: true})
			nextEmoji++

		case len(runes) == 1 && runes[0] < 128:
			assignments = append(assignments, Assignment{Cluster: cluster, ID: glyphid.ID(runes[0])})

		default:
			for reserved[nextFree] {
				nextFree++
				if int(nextFree) > glyphid.MaxBase {
					return nil, &atlas.AtlasCapacityExceededError{Requested: len(cs.Clusters), Capacity: glyphid.MaxBase + 1}
				}
			}
			if int(nextFree) > glyphid.MaxBase {
				return nil, &atlas.AtlasCapacityExceededError{Requested: len(cs.Clusters), Capacity: glyphid.MaxBase + 1}
			}
			reserved[nextFree] = true
			assignments = append(assignments, Assignment{Cluster: cluster, ID: glyphid.ID(nextFree)})
			nextFree++
		}
	}

	return assignments, nil
}
