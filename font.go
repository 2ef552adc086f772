package scribe

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// GlyphMetric describes one character's box in the font atlas. All values
// are in font design units. AtlasX/AtlasY locate the glyph in the atlas
// texture (origin top-left).
type GlyphMetric struct {
	ID       rune
	AtlasX   uint16
	AtlasY   uint16
	Width    uint16
	Height   uint16
	XOffset  int16
	YOffset  int16
	XAdvance int16
	Page     uint16 // read from the descriptor; multi-atlas dispatch is unimplemented
}

const asciiGlyphCount = 128

// FontMetrics is an immutable font descriptor: a character-to-glyph table
// plus line height and atlas dimensions. Load it once with
// [LoadFontMetrics] and share it by reference across every layout engine;
// there is no writer after load, so no synchronization is needed.
type FontMetrics struct {
	lineHeight  float64
	base        float64
	atlasWidth  float64
	atlasHeight float64

	asciiGlyphs [asciiGlyphCount]GlyphMetric // fixed array for ASCII, zero-alloc lookup
	asciiSet    [asciiGlyphCount]bool        // which ASCII entries are populated
	extGlyphs   map[rune]*GlyphMetric        // extended Unicode

	// Kerning pairs are parsed because the descriptor format carries them,
	// but layout never applies them.
	kernings map[[2]rune]int16
}

// LineHeight returns the vertical distance between baselines in font units.
func (f *FontMetrics) LineHeight() float64 {
	return f.lineHeight
}

// AtlasSize returns the atlas texture dimensions from the descriptor's
// common block (scaleW, scaleH).
func (f *FontMetrics) AtlasSize() (w, h float64) {
	return f.atlasWidth, f.atlasHeight
}

// Glyph returns the metric for the given rune, or nil if the font has no
// entry for it. The returned pointer aliases the shared table; callers must
// not mutate it.
func (f *FontMetrics) Glyph(r rune) *GlyphMetric {
	if r >= 0 && r < asciiGlyphCount {
		if f.asciiSet[r] {
			return &f.asciiGlyphs[r]
		}
		return nil
	}
	if g, ok := f.extGlyphs[r]; ok {
		return g
	}
	return nil
}

// Kerning returns the kerning amount for the rune pair. Present for
// completeness of the descriptor; the layout engine does not apply it.
func (f *FontMetrics) Kerning(first, second rune) int16 {
	if f.kernings == nil {
		return 0
	}
	return f.kernings[[2]rune{first, second}]
}

// UV returns the normalized texture coordinates of the glyph's bottom-left
// corner for backends with a bottom-left UV origin:
//
//	u = atlasX / atlasWidth
//	v = 1 - (atlasY + height) / atlasHeight
//
// The atlas itself has its origin at the top-left, hence the V flip.
func (f *FontMetrics) UV(g *GlyphMetric) (u, v float64) {
	u = float64(g.AtlasX) / f.atlasWidth
	v = 1 - (float64(g.AtlasY)+float64(g.Height))/f.atlasHeight
	return u, v
}

// LoadFontMetrics parses a BMFont .fnt text-format descriptor into an
// immutable FontMetrics. It reads the common block (lineHeight, base,
// scaleW, scaleH), every char record, and kerning records; distance-field
// and page blocks are ignored.
func LoadFontMetrics(fntData []byte) (*FontMetrics, error) {
	f := &FontMetrics{}

	scanner := bufio.NewScanner(bytes.NewReader(fntData))
	var charCount int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			if v, ok := fields["lineHeight"]; ok {
				f.lineHeight, _ = strconv.ParseFloat(v, 64)
			}
			if v, ok := fields["base"]; ok {
				f.base, _ = strconv.ParseFloat(v, 64)
			}
			if v, ok := fields["scaleW"]; ok {
				f.atlasWidth, _ = strconv.ParseFloat(v, 64)
			}
			if v, ok := fields["scaleH"]; ok {
				f.atlasHeight, _ = strconv.ParseFloat(v, 64)
			}

		case "char":
			charCount++
			g := GlyphMetric{}
			if v, ok := fields["id"]; ok {
				id, _ := strconv.Atoi(v)
				g.ID = rune(id)
			}
			if v, ok := fields["x"]; ok {
				val, _ := strconv.Atoi(v)
				g.AtlasX = uint16(val)
			}
			if v, ok := fields["y"]; ok {
				val, _ := strconv.Atoi(v)
				g.AtlasY = uint16(val)
			}
			if v, ok := fields["width"]; ok {
				val, _ := strconv.Atoi(v)
				g.Width = uint16(val)
			}
			if v, ok := fields["height"]; ok {
				val, _ := strconv.Atoi(v)
				g.Height = uint16(val)
			}
			if v, ok := fields["xoffset"]; ok {
				val, _ := strconv.Atoi(v)
				g.XOffset = int16(val)
			}
			if v, ok := fields["yoffset"]; ok {
				val, _ := strconv.Atoi(v)
				g.YOffset = int16(val)
			}
			if v, ok := fields["xadvance"]; ok {
				val, _ := strconv.Atoi(v)
				g.XAdvance = int16(val)
			}
			if v, ok := fields["page"]; ok {
				val, _ := strconv.Atoi(v)
				g.Page = uint16(val)
			}

			if g.ID >= 0 && g.ID < asciiGlyphCount {
				f.asciiGlyphs[g.ID] = g
				f.asciiSet[g.ID] = true
			} else {
				if f.extGlyphs == nil {
					f.extGlyphs = make(map[rune]*GlyphMetric)
				}
				g := g // copy for heap allocation
				f.extGlyphs[g.ID] = &g
			}

		case "kerning":
			var first, second rune
			var amount int16
			if v, ok := fields["first"]; ok {
				val, _ := strconv.Atoi(v)
				first = rune(val)
			}
			if v, ok := fields["second"]; ok {
				val, _ := strconv.Atoi(v)
				second = rune(val)
			}
			if v, ok := fields["amount"]; ok {
				val, _ := strconv.Atoi(v)
				amount = int16(val)
			}
			if f.kernings == nil {
				f.kernings = make(map[[2]rune]int16)
			}
			f.kernings[[2]rune{first, second}] = amount
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scribe: error reading .fnt data: %w", err)
	}

	if f.lineHeight == 0 {
		return nil, fmt.Errorf("scribe: .fnt data missing common lineHeight")
	}
	if charCount == 0 {
		return nil, fmt.Errorf("scribe: .fnt data has no char definitions")
	}

	return f, nil
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}
