package scribe

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SizeTween animates a NoteBox's outer size toward a target over a
// duration. Created by NoteBox.AnimateSizeTo (or directly via TweenSize)
// and advanced by Update(dt) each frame; the box re-measures as the tween
// writes intermediate sizes.
//
// There is no global animation manager — NoteBox.Update drives its own
// tween.
type SizeTween struct {
	tweens [2]*gween.Tween
	box    *NoteBox
	Done   bool
}

// TweenSize creates a SizeTween from the box's current size to the target
// using an ease-out curve.
func TweenSize(box *NoteBox, toW, toH float64, duration float32) *SizeTween {
	return TweenSizeEase(box, toW, toH, duration, ease.OutQuad)
}

// TweenSizeEase is TweenSize with an explicit easing function.
func TweenSizeEase(box *NoteBox, toW, toH float64, duration float32, fn ease.TweenFunc) *SizeTween {
	g := &SizeTween{box: box}
	g.tweens[0] = gween.New(float32(box.width), float32(toW), duration, fn)
	g.tweens[1] = gween.New(float32(box.height), float32(toH), duration, fn)
	return g
}

// Update advances the tween by dt seconds and applies the interpolated size
// to the box.
func (g *SizeTween) Update(dt float32) {
	if g.Done {
		return
	}
	w, doneW := g.tweens[0].Update(dt)
	h, doneH := g.tweens[1].Update(dt)
	g.box.SetSize(float64(w), float64(h))
	g.Done = doneW && doneH
}
