package gpurender_test

import (
	"testing"

	"github.com/junkdog/term-webgl2/glyphid"
	"github.com/junkdog/term-webgl2/gpurender"
)

func TestResolveASCIIFastPath(t *testing.T) {
	r := gpurender.NewGlyphResolver(nil)

	id := r.Resolve("A", glyphid.Bold, false, false)
	want, err := glyphid.Compose('A', glyphid.Bold, false, false, false)
	Check(t, nil, err)
	Check(t, want, id)

	if r.MissCount() != 0 {
		t.Fatalf("ASCII fast path should never record a miss, got %d", r.MissCount())
	}
}

func TestResolveNonASCIILookup(t *testing.T) {
	base, err := glyphid.Compose(200, glyphid.Normal, false, false, false)
	Check(t, nil, err)

	r := gpurender.NewGlyphResolver(map[string]glyphid.ID{"é": base})

	id := r.Resolve("é", glyphid.Italic, true, false)
	want, err := glyphid.Compose(200, glyphid.Italic, false, true, false)
	Check(t, nil, err)
	Check(t, want, id)
	Check(t, int64(0), r.MissCount())
}

func TestResolveEmojiForcesNormalStyle(t *testing.T) {
	const emojiBit = 0x0800
	base, err := glyphid.Compose(5, glyphid.Normal, true, false, false)
	Check(t, nil, err)
	if base&emojiBit == 0 {
		t.Fatalf("expected base id to carry the emoji bit, got %#04x", base)
	}

	r := gpurender.NewGlyphResolver(map[string]glyphid.ID{"🙂": base})

	// Request bold+underline; style must be dropped, underline kept.
	id := r.Resolve("🙂", glyphid.Bold, true, false)
	want, err := glyphid.Compose(5, glyphid.Normal, true, true, false)
	Check(t, nil, err)
	Check(t, want, id)
}

func TestResolveMissFallsBackToSpace(t *testing.T) {
	r := gpurender.NewGlyphResolver(nil)

	id := r.Resolve("漢", glyphid.Normal, false, false)
	want, err := glyphid.Compose(' ', glyphid.Normal, false, false, false)
	Check(t, nil, err)
	Check(t, want, id)

	Check(t, int64(1), r.MissCount())
	Check(t, "漢", r.LastMiss())

	r.Resolve("字", glyphid.Normal, false, false)
	Check(t, int64(2), r.MissCount())
	Check(t, "字", r.LastMiss())
}

func TestResolveNormalizesToNFC(t *testing.T) {
	// "é" as base+combining acute (NFD) must resolve against an NFC key.
	decomposed := "é"
	base, err := glyphid.Compose(201, glyphid.Normal, false, false, false)
	Check(t, nil, err)

	r := gpurender.NewGlyphResolver(map[string]glyphid.ID{"é": base})

	id := r.Resolve(decomposed, glyphid.Normal, false, false)
	want, err := glyphid.Compose(201, glyphid.Normal, false, false, false)
	Check(t, nil, err)
	Check(t, want, id)
	Check(t, int64(0), r.MissCount())
}

type countingLogger struct {
	warns, errors int
}

func (c *countingLogger) Warnf(msg string, args ...any)  { c.warns++ }
func (c *countingLogger) Errorf(msg string, args ...any) { c.errors++ }

func TestResolveMissLoggingIsRateLimited(t *testing.T) {
	r := gpurender.NewGlyphResolver(nil)
	log := &countingLogger{}
	r.SetLogger(log)

	for i := 0; i < 5; i++ {
		r.Resolve("漢", glyphid.Normal, false, false)
	}

	Check(t, int64(5), r.MissCount())
	// Logged at miss counts 1, 2, and 4 only.
	Check(t, 3, log.warns)
}

func Check[T comparable](t *testing.T, expected, got T) {
	t.Helper()
	if got != expected {
		t.Fatalf("Expected %v but got %v\n", expected, got)
	}
}
