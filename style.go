package scribe

// StyleRange overrides glyph attributes for the rune index interval
// [Start, End). A nil field leaves that attribute alone. Ranges may overlap:
// when they do, the last-declared range covering an index wins per attribute
// independently — color, rotation, scale, and offsets are resolved
// separately, not atomically. An earlier range's color survives a later
// range that only sets offsets, which is what effect layers rely on.
//
// Ranges referencing indices beyond the current text simply never match;
// that is normal during dynamic editing, not an error.
type StyleRange struct {
	Start, End int // rune indices, End exclusive
	Color      *Color
	Rotation   *float64
	Scale      *float64
	OffsetX    *float64
	OffsetY    *float64
}

// contains reports whether the range covers the rune index.
func (s *StyleRange) contains(idx int) bool {
	return idx >= s.Start && idx < s.End
}

// glyphStyle is the fully resolved style applied to one emitted glyph.
type glyphStyle struct {
	color    Color
	rotation float64
	scale    float64
	offsetX  float64
	offsetY  float64
}

// resolveStyle scans ranges in declaration order and overwrites each
// attribute from every range covering idx, so later declarations win per
// attribute.
func resolveStyle(ranges []StyleRange, idx int, base Color) glyphStyle {
	st := glyphStyle{color: base, scale: 1}
	for i := range ranges {
		r := &ranges[i]
		if !r.contains(idx) {
			continue
		}
		if r.Color != nil {
			st.color = *r.Color
		}
		if r.Rotation != nil {
			st.rotation = *r.Rotation
		}
		if r.Scale != nil {
			st.scale = *r.Scale
		}
		if r.OffsetX != nil {
			st.offsetX = *r.OffsetX
		}
		if r.OffsetY != nil {
			st.offsetY = *r.OffsetY
		}
	}
	return st
}
