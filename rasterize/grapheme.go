package rasterize

import "unicode/utf8"

const (
	zwj                      rune = 0x200D
	variationSelector16      rune = 0xFE0F
	combiningEnclosingKeycap rune = 0x20E3
	regionalIndicatorLo      rune = 0x1F1E6
	regionalIndicatorHi      rune = 0x1F1FF
	tagBase                  rune = 0xE0000
	tagEnd                   rune = 0xE007F
)

func isRegionalIndicator(r rune) bool {
	return r >= regionalIndicatorLo && r <= regionalIndicatorHi
}

func isSkinToneModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

func isTagChar(r rune) bool {
	return r >= tagBase && r <= tagEnd
}

func isCombiningMark(r rune) bool {
	// Common combining diacritical mark blocks; not exhaustive Unicode
	// grapheme-break logic, but sufficient to keep base+mark sequences
	// together as one cluster.
	return (r >= 0x0300 && r <= 0x036F) ||
		(r >= 0x1AB0 && r <= 0x1AFF) ||
		(r >= 0x1DC0 && r <= 0x1DFF) ||
		(r >= 0x20D0 && r <= 0x20FF) ||
		(r >= 0xFE20 && r <= 0xFE2F)
}

// NextGraphemeCluster splits off the first grapheme cluster from s and
// reports how many bytes it consumed. It recognizes plain ASCII,
// combining-mark sequences, regional-indicator (flag) pairs, keycap
// sequences, tag sequences, and ZWJ/skin-tone emoji sequences closely
// enough to keep each as a single atlas entry; it does not perform
// full Unicode text segmentation (UAX #29) or complex shaping.
//
// Grounded in the ZWJ/flag/keycap/tag sequence taxonomy of emoji
// sequence parsing; narrowed here to clustering, not shaping.
func NextGraphemeCluster(s string) (cluster string, size int) {
	if s == "" {
		return "", 0
	}

	r, n := utf8.DecodeRuneInString(s)
	size = n

	// Regional indicator flag: exactly two consecutive RI runes.
	if isRegionalIndicator(r) {
		r2, n2 := utf8.DecodeRuneInString(s[size:])
		if isRegionalIndicator(r2) {
			size += n2
		}
		return s[:size], size
	}

	// Keycap sequence: base digit/char + optional VS16 + combining
	// enclosing keycap.
	if r >= '0' && r <= '9' || r == '#' || r == '*' {
		rest := s[size:]
		if r2, n2 := utf8.DecodeRuneInString(rest); r2 == variationSelector16 {
			rest = rest[n2:]
			size += n2
		}
		if r2, n2 := utf8.DecodeRuneInString(rest); r2 == combiningEnclosingKeycap {
			size += n2
			return s[:size], size
		}
	}

	for {
		rest := s[size:]
		if rest == "" {
			break
		}
		r2, n2 := utf8.DecodeRuneInString(rest)

		switch {
		case isCombiningMark(r2), r2 == variationSelector16, isSkinToneModifier(r2), isTagChar(r2):
			size += n2
			continue
		case r2 == zwj:
			// ZWJ glues the next base glyph (and its own trailing
			// modifiers) into this cluster.
			size += n2
			nr, nn := utf8.DecodeRuneInString(s[size:])
			if nn == 0 {
				return s[:size], size
			}
			size += nn
			_ = nr
			continue
		}
		break
	}

	return s[:size], size
}

// SplitGraphemeClusters segments s into grapheme clusters in order.
func SplitGraphemeClusters(s string) []string {
	var out []string
	for s != "" {
		cluster, n := NextGraphemeCluster(s)
		if n == 0 {
			break
		}
		out = append(out, cluster)
		s = s[n:]
	}
	return out
}

// IsLikelyEmoji reports whether a grapheme cluster should be treated
// as an emoji for atlas-assignment purposes: multi-rune sequences
// built from ZWJ/flags/keycaps/tags/skin-tone modifiers, or any cluster
// whose first rune falls in a standard emoji presentation block.
func IsLikelyEmoji(cluster string) bool {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return false
	}
	if len(runes) > 1 {
		for _, r := range runes {
			if r == zwj || isRegionalIndicator(r) || r == combiningEnclosingKeycap || isTagChar(r) || isSkinToneModifier(r) {
				return true
			}
		}
	}
	r := runes[0]
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0x2764: // heavy black heart, commonly used standalone
		return true
	default:
		return false
	}
}
