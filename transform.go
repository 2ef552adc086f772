package scribe

import "math"

// identityAffine is the identity affine matrix.
var identityAffine = [6]float64{1, 0, 0, 1, 0, 0}

// Transform2D is a plain 2D placement: position, per-axis scale, and
// rotation in radians. Components compose as Scale -> Rotate -> Translate.
// It is the per-instance transform stored in pools and the local transform
// of a NoteBox; world-space resolution is explicit matrix concatenation,
// never virtual dispatch.
type Transform2D struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
}

// IdentityTransform returns a Transform2D with unit scale and no rotation.
func IdentityTransform() Transform2D {
	return Transform2D{ScaleX: 1, ScaleY: 1}
}

// Affine returns the transform as an affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func (t Transform2D) Affine() [6]float64 {
	sin, cos := math.Sincos(t.Rotation)
	return [6]float64{
		cos * t.ScaleX,
		sin * t.ScaleX,
		-sin * t.ScaleY,
		cos * t.ScaleY,
		t.X,
		t.Y,
	}
}

// mulAffine multiplies two affine matrices: result = parent * child.
func mulAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of an affine matrix. Returns the
// identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	tx := -(a*m[4] + c*m[5])
	ty := -(b*m[4] + d*m[5])
	return [6]float64{a, b, c, d, tx, ty}
}

// applyAffine transforms the point (x, y) by m.
func applyAffine(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
