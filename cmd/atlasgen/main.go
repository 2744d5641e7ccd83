// Command atlasgen drives the offline atlas-build pipeline end to end:
// a TrueType font plus an optional supplementary character list goes in,
// a wire-format atlas file comes out.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/junkdog/term-webgl2/buildatlas"
	"github.com/junkdog/term-webgl2/logging"
	"github.com/junkdog/term-webgl2/rasterize"
)

func main() {
	regular := flag.String("font", "", "path to the regular-weight TTF (required)")
	bold := flag.String("bold", "", "path to the bold TTF (defaults to -font)")
	italic := flag.String("italic", "", "path to the italic TTF (defaults to -font)")
	boldItalic := flag.String("bold-italic", "", "path to the bold-italic TTF (defaults to -font)")
	size := flag.Float64("size", 16, "rasterization point size")
	fontName := flag.String("name", "", "font name recorded in the atlas header (defaults to -font's base name)")
	extra := flag.String("chars", "", "optional file of extra grapheme clusters, one per line, to bake in addition to ASCII")
	emojiList := flag.String("emoji", "", "optional file of grapheme clusters, one per line, to force-classify as emoji regardless of the built-in heuristic")
	out := flag.String("out", "", "output atlas file path (required)")
	logLevel := flag.String("log-level", "warn", "log verbosity: debug, info, warn, or error")
	flag.Parse()

	log := logging.New(*logLevel, "")
	log.LogBuildInfo()

	if *regular == "" || *out == "" {
		fmt.Printf("usage: atlasgen -font <regular.ttf> -out <atlas-file> [-bold f] [-italic f] [-bold-italic f] [-size pt] [-name n] [-chars file] [-emoji file]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	files := [4]string{*regular, *bold, *italic, *boldItalic}
	for i, f := range files {
		if f == "" {
			files[i] = *regular
		}
	}

	name := *fontName
	if name == "" {
		name = strings.TrimSuffix(baseName(*regular), ".ttf")
	}

	base, err := rasterize.NewTTFRasterizerFromFiles(files, *size)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	r := rasterize.NewEmojiRasterizer(base)

	cs := buildatlas.NewASCIICharacterSet()
	if *extra != "" {
		lines, err := readLines(*extra)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		cs.Clusters = append(cs.Clusters, lines...)
	}

	var forcedEmoji map[string]bool
	if *emojiList != "" {
		lines, err := readLines(*emojiList)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		forcedEmoji = make(map[string]bool, len(lines))
		for _, l := range lines {
			forcedEmoji[l] = true
			cs.Clusters = append(cs.Clusters, l)
		}
	}

	cfg := buildatlas.Config{
		FontName:     name,
		FontSize:     float32(*size),
		CharacterSet: cs,
		IsEmoji: func(cluster string) bool {
			return forcedEmoji[cluster] || rasterize.IsLikelyEmoji(cluster)
		},
	}

	a, missing, err := buildatlas.Build(cfg, r)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	for _, m := range missing {
		log.Warnf("missing glyph: %q (style %s)", m.Cluster, m.Style)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := a.Encode(outFile); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d glyphs, %d layers, %dx%d cells\n", *out, len(a.Glyphs), a.TexLayers, a.CellWidth, a.CellHeight)
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
