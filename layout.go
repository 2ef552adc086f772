package scribe

import (
	"math"
	"unicode"
)

// PlacedGlyph is one laid-out character: its metric, local position in font
// units, and resolved style. Placements are ephemeral — recomputed on every
// layout pass and consumed immediately by the glyph pool upload.
//
// Layout space has +y up: text flows downward as negative y, and X/Y is the
// glyph box's top-left corner.
type PlacedGlyph struct {
	Metric   *GlyphMetric
	X, Y     float64
	Color    Color
	Rotation float64
	Scale    float64
}

// PositionIndexEntry records the cursor position at one character index.
// The index holds one entry per character plus a virtual end-of-text entry,
// so the caret can land on wrapped boundaries, unknown characters, and
// whitespace. Entries go stale after any text mutation until the next
// layout pass.
type PositionIndexEntry struct {
	CharIndex int
	X, Y      float64
}

// caretLineBias weights the vertical term in IndexAtPos's nearest-neighbor
// distance so line selection dominates column selection.
const caretLineBias = 16.0

// fallbackAdvanceFactor sizes the cursor advance for whitespace that has no
// glyph entry, as a fraction of the line height.
const fallbackAdvanceFactor = 0.25

// TextRegion is a glyph layout engine for one block of text: a text string,
// a bounding box, style ranges, and a caret, laid out against an immutable
// FontMetrics. Layout is recomputed lazily on access after any mutation.
//
// All character indices are rune indices.
type TextRegion struct {
	font        *FontMetrics
	text        string
	boxWidth    float64
	boxHeight   float64
	wordWrap    bool
	lineSpacing float64 // 0 means 1
	color       Color
	styles      []StyleRange
	caretIndex  int // -1 disables caret capture

	// Cached layout
	layoutDirty bool
	glyphs      []PlacedGlyph
	entries     []PositionIndexEntry
	caretX      float64
	caretY      float64
	caretValid  bool
}

// NewTextRegion creates a layout engine bound to the given font metrics.
// The metrics must already be loaded; calling layout before asset load
// completes is a caller bug, so a nil font panics rather than no-ops.
func NewTextRegion(font *FontMetrics) *TextRegion {
	if font == nil {
		panic("scribe: NewTextRegion requires loaded font metrics")
	}
	return &TextRegion{
		font:        font,
		boxWidth:    math.Inf(1),
		boxHeight:   math.Inf(1),
		color:       ColorWhite,
		caretIndex:  -1,
		layoutDirty: true,
	}
}

// Metrics returns the font metrics this region lays out against.
func (r *TextRegion) Metrics() *FontMetrics { return r.font }

// Text returns the current text content.
func (r *TextRegion) Text() string { return r.text }

// SetText replaces the text content.
func (r *TextRegion) SetText(text string) {
	if r.text == text {
		return
	}
	r.text = text
	r.layoutDirty = true
}

// SetBox sets the bounding box. Width bounds word wrapping; height bounds
// vertical clipping. Use math.Inf(1) for an unbounded axis.
func (r *TextRegion) SetBox(width, height float64) {
	if r.boxWidth == width && r.boxHeight == height {
		return
	}
	r.boxWidth = width
	r.boxHeight = height
	r.layoutDirty = true
}

// Box returns the current bounding box.
func (r *TextRegion) Box() (width, height float64) { return r.boxWidth, r.boxHeight }

// SetWordWrap enables or disables greedy word wrapping at the box width.
func (r *TextRegion) SetWordWrap(wrap bool) {
	if r.wordWrap == wrap {
		return
	}
	r.wordWrap = wrap
	r.layoutDirty = true
}

// SetLineSpacing sets the line pitch multiplier. Zero or negative means 1.
func (r *TextRegion) SetLineSpacing(spacing float64) {
	if r.lineSpacing == spacing {
		return
	}
	r.lineSpacing = spacing
	r.layoutDirty = true
}

// SetColor sets the base glyph color, overridable per range.
func (r *TextRegion) SetColor(c Color) {
	if r.color == c {
		return
	}
	r.color = c
	r.layoutDirty = true
}

// SetStyleRanges replaces all style ranges wholesale. The region owns the
// slice afterwards. Ranges referencing out-of-bounds indices are fine; they
// simply never match.
func (r *TextRegion) SetStyleRanges(ranges []StyleRange) {
	r.styles = ranges
	r.layoutDirty = true
}

// SetCaretIndex sets the caret's rune index, or -1 for no caret.
func (r *TextRegion) SetCaretIndex(idx int) {
	if r.caretIndex == idx {
		return
	}
	r.caretIndex = idx
	r.layoutDirty = true
}

// CaretIndex returns the caret's rune index, or -1 if unset.
func (r *TextRegion) CaretIndex() int { return r.caretIndex }

// Glyphs recomputes the layout if dirty and returns the placed glyphs. The
// returned slice is reused by the next layout pass; consume it immediately.
func (r *TextRegion) Glyphs() []PlacedGlyph {
	r.layout()
	return r.glyphs
}

// PositionIndex recomputes the layout if dirty and returns the position
// index: one entry per rune plus the virtual end-of-text entry.
func (r *TextRegion) PositionIndex() []PositionIndexEntry {
	r.layout()
	return r.entries
}

// CaretPos returns the caret's local position from the last layout. The
// second result is false when no caret index is set or it is out of range.
func (r *TextRegion) CaretPos() (Vec2, bool) {
	r.layout()
	if !r.caretValid {
		return Vec2{}, false
	}
	return Vec2{X: r.caretX, Y: r.caretY}, true
}

// ContentWidth returns the rightmost cursor position of the last layout,
// used by auto-fit containers (typically measured with wrap disabled and an
// unbounded box).
func (r *TextRegion) ContentWidth() float64 {
	r.layout()
	var max float64
	for i := range r.entries {
		if r.entries[i].X > max {
			max = r.entries[i].X
		}
	}
	return max
}

// ContentHeight returns the occupied height of the last layout: the depth
// of the lowest line plus one line height.
func (r *TextRegion) ContentHeight() float64 {
	r.layout()
	var min float64
	for i := range r.entries {
		if r.entries[i].Y < min {
			min = r.entries[i].Y
		}
	}
	return -min + r.font.lineHeight
}

// IndexAtPos maps a local position back to the nearest character index by
// scanning the last computed position index. The vertical distance is
// weighted heavily so clicks select the right line first, then the nearest
// column. This is an approximation, not exact hit-testing; entries are
// dense at character granularity, which is enough for caret placement.
func (r *TextRegion) IndexAtPos(x, y float64) int {
	r.layout()
	if len(r.entries) == 0 {
		return 0
	}
	best := 0
	bestDist := math.Inf(1)
	for i := range r.entries {
		dx := r.entries[i].X - x
		dy := (r.entries[i].Y - y) * caretLineBias
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = r.entries[i].CharIndex
		}
	}
	return best
}

// MoveCaretVertical moves the caret one line down (direction > 0) or up
// (direction < 0), preserving the column by reusing the last caret X. The
// new index is applied to the region and returned. No-op when the region
// has no valid caret.
func (r *TextRegion) MoveCaretVertical(direction int) int {
	r.layout()
	if !r.caretValid {
		return r.caretIndex
	}
	targetY := r.caretY - float64(direction)*r.linePitch()
	idx := r.IndexAtPos(r.caretX, targetY)
	r.SetCaretIndex(idx)
	return idx
}

func (r *TextRegion) linePitch() float64 {
	ls := r.lineSpacing
	if ls <= 0 {
		ls = 1
	}
	return r.font.lineHeight * ls
}

// layout recomputes glyph placements and the position index if dirty.
//
// Single left-to-right pass over the runes plus one virtual end-of-string
// position. The cursor starts at (0, 0) and moves down by the line pitch
// per break; +y is up, so lines below the first sit at negative y.
func (r *TextRegion) layout() {
	if !r.layoutDirty {
		return
	}
	r.layoutDirty = false

	runes := []rune(r.text)
	r.glyphs = r.glyphs[:0]
	r.entries = r.entries[:0]
	r.caretValid = false

	pitch := r.linePitch()
	fallback := r.font.lineHeight * fallbackAdvanceFactor

	var cursorX, cursorY float64

	record := func(idx int) {
		r.entries = append(r.entries, PositionIndexEntry{CharIndex: idx, X: cursorX, Y: cursorY})
		if idx == r.caretIndex {
			r.caretX = cursorX
			r.caretY = cursorY
			r.caretValid = true
		}
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if c == '\n' {
			record(i)
			cursorX = 0
			cursorY -= pitch
			continue
		}

		// Greedy wrap at token boundaries: a token is a maximal run of
		// whitespace or of non-whitespace. The cursorX > 0 guard guarantees
		// forward progress even when the box is narrower than one token.
		if r.wordWrap && cursorX > 0 && tokenStart(runes, i) {
			if cursorX+r.tokenWidth(runes, i, fallback) > r.boxWidth {
				cursorX = 0
				cursorY -= pitch
			}
		}

		adv := r.advance(c, fallback)

		// Emergency character-level wrap for tokens wider than the box.
		if r.wordWrap && cursorX > 0 && cursorX+adv > r.boxWidth {
			cursorX = 0
			cursorY -= pitch
		}

		// The entry is recorded before the emission tests so the caret can
		// land on wrapped boundaries, unknown characters, and whitespace.
		record(i)

		if g := r.font.Glyph(c); g != nil && -cursorY <= r.boxHeight {
			st := resolveStyle(r.styles, i, r.color)
			r.glyphs = append(r.glyphs, PlacedGlyph{
				Metric:   g,
				X:        cursorX + float64(g.XOffset) + st.offsetX,
				Y:        cursorY - float64(g.YOffset) + st.offsetY,
				Color:    st.color,
				Rotation: st.rotation,
				Scale:    st.scale,
			})
		}

		cursorX += adv
	}

	record(len(runes))
}

// advance returns the cursor advance for one rune: the glyph's xadvance
// when mapped, a fallback width for unmapped whitespace, and zero for
// unmapped non-whitespace (which is skipped silently).
func (r *TextRegion) advance(c rune, fallback float64) float64 {
	if g := r.font.Glyph(c); g != nil {
		return float64(g.XAdvance)
	}
	if unicode.IsSpace(c) {
		return fallback
	}
	return 0
}

// tokenStart reports whether index i begins a token: the string start or a
// whitespace-class change.
func tokenStart(runes []rune, i int) bool {
	if i == 0 {
		return true
	}
	return unicode.IsSpace(runes[i]) != unicode.IsSpace(runes[i-1])
}

// tokenWidth measures the total advance of the token starting at i. The
// token ends at a whitespace-class change or an explicit newline.
func (r *TextRegion) tokenWidth(runes []rune, i int, fallback float64) float64 {
	space := unicode.IsSpace(runes[i])
	var w float64
	for ; i < len(runes); i++ {
		c := runes[i]
		if c == '\n' || unicode.IsSpace(c) != space {
			break
		}
		w += r.advance(c, fallback)
	}
	return w
}
