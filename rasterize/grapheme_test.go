package rasterize_test

import (
	"testing"

	"github.com/junkdog/term-webgl2/rasterize"
)

func CheckArr(t *testing.T, expected, got []string) {
	t.Helper()
	if len(expected) != len(got) {
		t.Fatalf("Expected %v but got %v\n", expected, got)
	}
	for i := range expected {
		if expected[i] != got[i] {
			t.Fatalf("Expected %v but got %v\n", expected, got)
		}
	}
}

func TestSplitASCII(t *testing.T) {
	CheckArr(t, []string{"H", "i", "!"}, rasterize.SplitGraphemeClusters("Hi!"))
}

func TestSplitCombiningMark(t *testing.T) {
	// 'e' + combining acute accent (U+0301) is one cluster.
	clusters := rasterize.SplitGraphemeClusters("éx")
	CheckArr(t, []string{"é", "x"}, clusters)
}

func TestSplitRegionalIndicatorFlag(t *testing.T) {
	// 🇺🇸 = U+1F1FA U+1F1F8, one flag cluster.
	flag := "\U0001F1FA\U0001F1F8"
	clusters := rasterize.SplitGraphemeClusters(flag + "x")
	CheckArr(t, []string{flag, "x"}, clusters)
}

func TestSplitKeycapSequence(t *testing.T) {
	// "1" + VS16 + combining enclosing keycap = keycap digit one.
	seq := "1️⃣"
	clusters := rasterize.SplitGraphemeClusters(seq + "y")
	CheckArr(t, []string{seq, "y"}, clusters)
}

func TestSplitZWJSequence(t *testing.T) {
	// Family emoji built from four people joined by ZWJ.
	family := "\U0001F468‍\U0001F469‍\U0001F467‍\U0001F466"
	clusters := rasterize.SplitGraphemeClusters(family + "z")
	CheckArr(t, []string{family, "z"}, clusters)
}

func TestIsLikelyEmoji(t *testing.T) {
	if !rasterize.IsLikelyEmoji("\U0001F680") {
		t.Fatalf("expected rocket to be detected as emoji")
	}
	if rasterize.IsLikelyEmoji("A") {
		t.Fatalf("expected plain ASCII not to be detected as emoji")
	}
	family := "\U0001F468‍\U0001F469‍\U0001F467‍\U0001F466"
	if !rasterize.IsLikelyEmoji(family) {
		t.Fatalf("expected ZWJ family sequence to be detected as emoji")
	}
}
