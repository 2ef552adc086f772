package scribe

import (
	"math"
	"testing"
)

func TestGlyphAttribsFor(t *testing.T) {
	f := loadTestMetrics(t)
	pg := PlacedGlyph{Metric: f.Glyph('b'), Color: ColorWhite, Scale: 1}

	a := GlyphAttribsFor(f, &pg)
	// 'b' sits at atlas (8, 0), 8x30, atlas 256x128.
	if want := float32(8.0 / 256.0); a.U != want {
		t.Errorf("U = %f, want %f", a.U, want)
	}
	if want := float32(1 - 30.0/128.0); a.V != want {
		t.Errorf("V = %f, want %f", a.V, want)
	}
	if want := float32(8.0 / 256.0); a.W != want {
		t.Errorf("W = %f, want %f", a.W, want)
	}
	if want := float32(30.0 / 128.0); a.H != want {
		t.Errorf("H = %f, want %f", a.H, want)
	}
}

func TestGlyphAttribs_AppendQuad(t *testing.T) {
	f := loadTestMetrics(t)
	pg := PlacedGlyph{Metric: f.Glyph('b'), Color: ColorWhite, Scale: 1}
	a := GlyphAttribsFor(f, &pg)

	m := IdentityTransform().Affine()
	verts := a.appendQuad(nil, m, 256, 128)
	if len(verts) != 4 {
		t.Fatalf("len(verts) = %d, want 4", len(verts))
	}

	// The quad spans the glyph's pixel size.
	if v := verts[0]; v.DstX != 0 || v.DstY != 0 {
		t.Errorf("verts[0] dst = (%f, %f), want (0, 0)", v.DstX, v.DstY)
	}
	if v := verts[3]; v.DstX != 8 || v.DstY != 30 {
		t.Errorf("verts[3] dst = (%f, %f), want (8, 30)", v.DstX, v.DstY)
	}

	// Source coordinates are recovered in the texture's top-left origin:
	// the V flip is undone, so the quad's top row samples atlas y=0.
	if v := verts[0]; v.SrcX != 8 || v.SrcY != 0 {
		t.Errorf("verts[0] src = (%f, %f), want (8, 0)", v.SrcX, v.SrcY)
	}
	if v := verts[3]; v.SrcX != 16 || v.SrcY != 30 {
		t.Errorf("verts[3] src = (%f, %f), want (16, 30)", v.SrcX, v.SrcY)
	}
}

func TestGlyphAttribs_AppendQuadPremultiplies(t *testing.T) {
	a := GlyphAttribs{W: 1, H: 1, Color: Color{R: 1, G: 0.5, B: 0, A: 0.5}}
	verts := a.appendQuad(nil, IdentityTransform().Affine(), 1, 1)

	v := verts[0]
	if v.ColorA != 0.5 {
		t.Errorf("ColorA = %f, want 0.5", v.ColorA)
	}
	if v.ColorR != 0.5 {
		t.Errorf("ColorR = %f, want premultiplied 0.5", v.ColorR)
	}
	if v.ColorG != 0.25 {
		t.Errorf("ColorG = %f, want premultiplied 0.25", v.ColorG)
	}
}

func TestGlyphAttribs_AppendQuadTransform(t *testing.T) {
	a := GlyphAttribs{W: 0.5, H: 0.5, Color: ColorWhite}

	tr := IdentityTransform()
	tr.X, tr.Y = 100, 50
	tr.ScaleX, tr.ScaleY = 2, 3
	verts := a.appendQuad(nil, tr.Affine(), 16, 16)

	// Local quad 8x8, scaled to 16x24, translated to (100, 50).
	if v := verts[0]; v.DstX != 100 || v.DstY != 50 {
		t.Errorf("verts[0] dst = (%f, %f), want (100, 50)", v.DstX, v.DstY)
	}
	if v := verts[3]; v.DstX != 116 || v.DstY != 74 {
		t.Errorf("verts[3] dst = (%f, %f), want (116, 74)", v.DstX, v.DstY)
	}
}

func TestGlyphAttribs_AppendQuadRotation(t *testing.T) {
	a := GlyphAttribs{W: 1, H: 1, Color: ColorWhite}

	tr := IdentityTransform()
	tr.Rotation = math.Pi / 2
	verts := a.appendQuad(nil, tr.Affine(), 10, 10)

	// A quarter turn sends the local +x axis to +y.
	v := verts[1] // TR corner, local (10, 0)
	if math.Abs(float64(v.DstX)) > 1e-5 || math.Abs(float64(v.DstY)-10) > 1e-5 {
		t.Errorf("rotated TR dst = (%f, %f), want (0, 10)", v.DstX, v.DstY)
	}
}

func TestRectAttribs_AppendQuadFlat(t *testing.T) {
	a := RectAttribs{Color1: Color{R: 0.2, G: 0.4, B: 0.6, A: 1}, Alpha: 1}

	tr := IdentityTransform()
	tr.ScaleX, tr.ScaleY = 30, 40
	verts := a.appendQuad(nil, tr.Affine(), 1, 1)

	if v := verts[3]; v.DstX != 30 || v.DstY != 40 {
		t.Errorf("verts[3] dst = (%f, %f), want (30, 40)", v.DstX, v.DstY)
	}
	// Flat fill: all corners share Color1, sampled at the white texel center.
	for i, v := range verts {
		if v.ColorR != 0.2 || v.ColorB != 0.6 {
			t.Errorf("verts[%d] color = (%f, _, %f)", i, v.ColorR, v.ColorB)
		}
		if v.SrcX != 0.5 || v.SrcY != 0.5 {
			t.Errorf("verts[%d] src = (%f, %f), want texel center", i, v.SrcX, v.SrcY)
		}
	}
}

func TestRectAttribs_AppendQuadVerticalGradient(t *testing.T) {
	top := Color{R: 1, A: 1}
	bottom := Color{B: 1, A: 1}
	a := RectAttribs{Color1: top, Color2: bottom, Alpha: 1, Gradient: GradientVertical}

	verts := a.appendQuad(nil, IdentityTransform().Affine(), 1, 1)

	// TL and TR carry Color1; BL and BR carry Color2.
	if verts[0].ColorR != 1 || verts[1].ColorR != 1 {
		t.Error("top corners should carry Color1")
	}
	if verts[2].ColorB != 1 || verts[3].ColorB != 1 {
		t.Error("bottom corners should carry Color2")
	}
	if verts[2].ColorR != 0 {
		t.Errorf("verts[2].ColorR = %f, want 0", verts[2].ColorR)
	}
}

func TestRectAttribs_AppendQuadHorizontalGradient(t *testing.T) {
	left := Color{R: 1, A: 1}
	right := Color{G: 1, A: 1}
	a := RectAttribs{Color1: left, Color2: right, Alpha: 1, Gradient: GradientHorizontal}

	verts := a.appendQuad(nil, IdentityTransform().Affine(), 1, 1)

	// TL and BL carry Color1; TR and BR carry Color2.
	if verts[0].ColorR != 1 || verts[2].ColorR != 1 {
		t.Error("left corners should carry Color1")
	}
	if verts[1].ColorG != 1 || verts[3].ColorG != 1 {
		t.Error("right corners should carry Color2")
	}
}

func TestRectAttribs_AppendQuadAlpha(t *testing.T) {
	a := RectAttribs{Color1: Color{R: 1, A: 0.8}, Alpha: 0.5}
	verts := a.appendQuad(nil, IdentityTransform().Affine(), 1, 1)

	v := verts[0]
	if want := float32(0.4); v.ColorA != want {
		t.Errorf("ColorA = %f, want %f", v.ColorA, want)
	}
	if want := float32(0.4); v.ColorR != want {
		t.Errorf("ColorR = %f, want premultiplied %f", v.ColorR, want)
	}
}
