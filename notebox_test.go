package scribe

import (
	"errors"
	"math"
	"testing"
)

func newTestNoteBox(t *testing.T) (*NoteBox, *StableIDIndex[RectAttribs]) {
	t.Helper()
	f := loadTestMetrics(t)
	idx := NewStableIDIndex(NewInstancePool[RectAttribs](PoolConfig{Baseline: 16}))
	box, err := NewNoteBox(f, idx)
	if err != nil {
		t.Fatalf("NewNoteBox: %v", err)
	}
	return box, idx
}

func TestNewNoteBox(t *testing.T) {
	box, idx := newTestNoteBox(t)

	if idx.Len() != 3 {
		t.Errorf("rect count = %d, want 3", idx.Len())
	}
	if got := box.RoleForID(box.headerID); got != RoleHeader {
		t.Errorf("RoleForID(header) = %v, want RoleHeader", got)
	}
	if got := box.RoleForID(box.bodyID); got != RoleBody {
		t.Errorf("RoleForID(body) = %v, want RoleBody", got)
	}
	if got := box.RoleForID(box.handleID); got != RoleResizeHandle {
		t.Errorf("RoleForID(handle) = %v, want RoleResizeHandle", got)
	}
	if got := box.RoleForID(9999); got != RoleNone {
		t.Errorf("RoleForID(unknown) = %v, want RoleNone", got)
	}

	w, h := box.Size()
	if w != 120 || h != 80 {
		t.Errorf("Size() = (%f, %f), want minimums (120, 80)", w, h)
	}
}

func TestNewNoteBox_PoolFullRollsBack(t *testing.T) {
	f := loadTestMetrics(t)
	idx := NewStableIDIndex(NewInstancePool[RectAttribs](PoolConfig{Baseline: 2, MaxInstances: 2}))

	_, err := NewNoteBox(f, idx)
	if !errors.Is(err, ErrPoolFull) {
		t.Fatalf("err = %v, want ErrPoolFull", err)
	}
	// A failed construction must not leak partially inserted rectangles.
	if idx.Len() != 0 {
		t.Errorf("rect count after failed construction = %d, want 0", idx.Len())
	}
}

func TestNoteBox_AutoFitGrowsToContent(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetBodyText("abcdefghijlptab") // 15 glyphs, 150 units wide

	box.Update(0)

	w, h := box.Size()
	// Width: content 150 plus 2*8 padding. Height: header band 60 plus one
	// 40-unit line plus 2*8 padding.
	if w != 166 {
		t.Errorf("width = %f, want 166", w)
	}
	if h != 116 {
		t.Errorf("height = %f, want 116", h)
	}
}

func TestNoteBox_AutoHeightReusesMeasurePass(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetBodyText("abcd")
	box.Update(0)

	// The content fits the committed height, so the measuring pass's
	// unbounded box is still in effect: no third layout pass happened.
	_, bh := box.Body().Box()
	if !math.IsInf(bh, 1) {
		t.Errorf("body box height = %f, want +Inf (measure pass reused)", bh)
	}
}

func TestNoteBox_ClipPassWhenContentOverflows(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetAutoFit(false, false)
	box.SetBodyText("a\nb")
	box.Update(0)

	// 80-unit box leaves 80 - 60 - 16 = 4 units of visible body; two
	// 40-unit lines overflow it, so the final pass clips.
	_, bh := box.Body().Box()
	if bh != 4 {
		t.Errorf("body box height = %f, want 4", bh)
	}
	if got := len(box.Body().Glyphs()); got != 1 {
		t.Errorf("emitted body glyphs = %d, want 1 (second line clipped)", got)
	}
}

func TestNoteBox_SetSizeClamps(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetSize(10, 10)
	if w, h := box.Size(); w != 120 || h != 80 {
		t.Errorf("Size() = (%f, %f), want clamped (120, 80)", w, h)
	}

	box.SetMinSize(200, 150)
	box.SetSize(10, 10)
	if w, h := box.Size(); w != 200 || h != 150 {
		t.Errorf("Size() = (%f, %f), want clamped (200, 150)", w, h)
	}
}

func TestNoteBox_ResizeBy(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetAutoFit(false, false)
	box.ResizeBy(30, 40)
	if w, h := box.Size(); w != 150 || h != 120 {
		t.Errorf("Size() = (%f, %f), want (150, 120)", w, h)
	}
}

func TestNoteBox_SyncRects(t *testing.T) {
	box, idx := newTestNoteBox(t)
	box.SetAutoFit(false, false)
	box.Transform.X = 100
	box.Transform.Y = 50
	box.Update(0)

	rectAt := func(id uint32) Transform2D {
		t.Helper()
		slot, ok := idx.Slot(id)
		if !ok {
			t.Fatalf("id %d not live", id)
		}
		tr, _ := idx.pool.At(slot)
		return tr
	}

	// Header band spans the full width at the top.
	h := rectAt(box.headerID)
	if h.X != 100 || h.Y != 50 || h.ScaleX != 120 || h.ScaleY != 60 {
		t.Errorf("header rect = %+v", h)
	}
	// Body band fills the rest.
	bd := rectAt(box.bodyID)
	if bd.X != 100 || bd.Y != 110 || bd.ScaleX != 120 || bd.ScaleY != 20 {
		t.Errorf("body rect = %+v", bd)
	}
	// Resize handle hugs the bottom-right corner.
	hd := rectAt(box.handleID)
	if hd.X != 100+120-12 || hd.Y != 50+80-12 || hd.ScaleX != 12 || hd.ScaleY != 12 {
		t.Errorf("handle rect = %+v", hd)
	}
}

func TestNoteBox_ParentTransform(t *testing.T) {
	box, idx := newTestNoteBox(t)
	box.SetAutoFit(false, false)
	box.Transform.X = 10
	box.Transform.Y = 20

	parent := IdentityTransform()
	parent.X = 1000
	parent.ScaleX, parent.ScaleY = 2, 2
	box.SetParentTransform(&parent)
	box.Update(0)

	slot, _ := idx.Slot(box.headerID)
	tr, _ := idx.pool.At(slot)
	// Local offset scales under the parent: 1000 + 2*10.
	if tr.X != 1020 || tr.Y != 40 {
		t.Errorf("header rect pos = (%f, %f), want (1020, 40)", tr.X, tr.Y)
	}
	if tr.ScaleX != 240 {
		t.Errorf("header rect ScaleX = %f, want parent-scaled 240", tr.ScaleX)
	}
}

func TestNoteBox_SyncSkipsUnchangedGeometry(t *testing.T) {
	box, idx := newTestNoteBox(t)
	box.SetAutoFit(false, false)
	box.Update(0)

	idx.pool.dirty = false
	box.Update(0)
	if idx.pool.dirty {
		t.Error("unchanged geometry should not dirty the rect pool")
	}

	box.Transform.X = 5
	box.Update(0)
	if !idx.pool.dirty {
		t.Error("moved box should dirty the rect pool")
	}
}

func TestNoteBox_AppendGlyphs(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetAutoFit(false, false)
	box.Transform.X = 100
	box.Transform.Y = 50
	box.SetHeaderText("A")
	box.SetBodyText("a")
	box.Update(0)

	ts, as := box.appendGlyphs(nil, nil)
	if len(ts) != 2 || len(as) != 2 {
		t.Fatalf("appended %d transforms, %d attribs, want 2 each", len(ts), len(as))
	}

	// Header origin is (8, 10): the band is 60 tall, the line 40, centered.
	// The glyph adds its (xoffset, yoffset) bearing of (1, 2).
	if ts[0].X != 109 || ts[0].Y != 62 {
		t.Errorf("header glyph at (%f, %f), want (109, 62)", ts[0].X, ts[0].Y)
	}
	// Body origin is (8, 68): below the band plus padding.
	if ts[1].X != 109 || ts[1].Y != 120 {
		t.Errorf("body glyph at (%f, %f), want (109, 120)", ts[1].X, ts[1].Y)
	}
	if as[0].Color != ColorWhite {
		t.Errorf("glyph color = %+v, want white", as[0].Color)
	}
}

func TestNoteBox_IndexAt(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetAutoFit(false, false)
	box.Transform.X = 100
	box.Transform.Y = 50
	box.SetBodyText("abcde")
	box.Update(0)

	// Body text starts at world (108, 118); the second character's cursor
	// sits 10 units in.
	if got := box.IndexAt(RoleBody, 118.4, 118); got != 1 {
		t.Errorf("IndexAt(RoleBody) = %d, want 1", got)
	}
	if got := box.IndexAt(RoleResizeHandle, 0, 0); got != -1 {
		t.Errorf("IndexAt(RoleResizeHandle) = %d, want -1", got)
	}
}

func TestNoteBox_AnimateSizeTo(t *testing.T) {
	box, _ := newTestNoteBox(t)
	box.SetAutoFit(false, false)

	box.AnimateSizeTo(220, 160, 1)
	box.Update(0.5)
	w, _ := box.Size()
	if w <= 120 || w >= 220 {
		t.Errorf("mid-tween width = %f, want strictly between 120 and 220", w)
	}

	box.Update(0.6)
	w, h := box.Size()
	if w != 220 || h != 160 {
		t.Errorf("final Size() = (%f, %f), want (220, 160)", w, h)
	}
	if box.resize != nil {
		t.Error("finished tween should detach")
	}
}

func TestNoteBox_ReleaseIdempotent(t *testing.T) {
	box, idx := newTestNoteBox(t)
	box.release()
	box.release()
	if idx.Len() != 0 {
		t.Errorf("rect count = %d after release, want 0", idx.Len())
	}
}
