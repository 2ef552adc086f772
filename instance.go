package scribe

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GlyphAttribs are the per-instance attributes of one glyph quad: a
// normalized atlas region (bottom-left UV origin, see FontMetrics.UV) and a
// tint. The quad's pixel size is recovered from the region and the atlas
// dimensions at submission time.
type GlyphAttribs struct {
	U, V  float32
	W, H  float32
	Color Color
}

// GlyphAttribsFor builds the attribute record for a placed glyph.
func GlyphAttribsFor(f *FontMetrics, g *PlacedGlyph) GlyphAttribs {
	u, v := f.UV(g.Metric)
	aw, ah := f.AtlasSize()
	return GlyphAttribs{
		U:     float32(u),
		V:     float32(v),
		W:     float32(float64(g.Metric.Width) / aw),
		H:     float32(float64(g.Metric.Height) / ah),
		Color: g.Color,
	}
}

func (g GlyphAttribs) appendQuad(dst []ebiten.Vertex, m [6]float64, srcW, srcH float32) []ebiten.Vertex {
	w := float64(g.W) * float64(srcW)
	h := float64(g.H) * float64(srcH)

	// Undo the V flip: the normalized region has a bottom-left origin, the
	// atlas texture a top-left one.
	sx0 := g.U * srcW
	sy0 := (1 - g.V - g.H) * srcH
	sx1 := sx0 + g.W*srcW
	sy1 := sy0 + g.H*srcH

	ca := float32(g.Color.A)
	cr := float32(g.Color.R) * ca
	cg := float32(g.Color.G) * ca
	cb := float32(g.Color.B) * ca

	// 4 corners: TL, TR, BL, BR
	lx := [4]float64{0, w, 0, w}
	ly := [4]float64{0, 0, h, h}
	sx := [4]float32{sx0, sx1, sx0, sx1}
	sy := [4]float32{sy0, sy0, sy1, sy1}

	for i := 0; i < 4; i++ {
		dst = append(dst, ebiten.Vertex{
			DstX:   float32(m[0]*lx[i] + m[2]*ly[i] + m[4]),
			DstY:   float32(m[1]*lx[i] + m[3]*ly[i] + m[5]),
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	return dst
}

// RectAttribs are the per-instance attributes of one flat or gradient
// rectangle quad. The quad is a unit square scaled by its transform; the
// source texture is WhitePixel, so color comes entirely from the vertices.
type RectAttribs struct {
	Color1   Color
	Color2   Color
	Alpha    float64
	Gradient GradientMode
}

func (r RectAttribs) appendQuad(dst []ebiten.Vertex, m [6]float64, srcW, srcH float32) []ebiten.Vertex {
	// Sample the center of the 1x1 white source texel.
	sx := srcW * 0.5
	sy := srcH * 0.5

	// Per-corner colors: TL, TR, BL, BR
	var corners [4]Color
	switch r.Gradient {
	case GradientVertical:
		corners = [4]Color{r.Color1, r.Color1, r.Color2, r.Color2}
	case GradientHorizontal:
		corners = [4]Color{r.Color1, r.Color2, r.Color1, r.Color2}
	default:
		corners = [4]Color{r.Color1, r.Color1, r.Color1, r.Color1}
	}

	lx := [4]float64{0, 1, 0, 1}
	ly := [4]float64{0, 0, 1, 1}

	for i := 0; i < 4; i++ {
		ca := float32(corners[i].A * r.Alpha)
		dst = append(dst, ebiten.Vertex{
			DstX:   float32(m[0]*lx[i] + m[2]*ly[i] + m[4]),
			DstY:   float32(m[1]*lx[i] + m[3]*ly[i] + m[5]),
			SrcX:   sx,
			SrcY:   sy,
			ColorR: float32(corners[i].R) * ca,
			ColorG: float32(corners[i].G) * ca,
			ColorB: float32(corners[i].B) * ca,
			ColorA: ca,
		})
	}
	return dst
}
