package scribe

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultGlyphBaseline = 512
	defaultRectBaseline  = 64
	defaultRectCeiling   = 4096
)

// Board owns the shared resources of one note surface: the font metrics,
// the atlas page, the glyph pool (rewritten wholesale every frame), and the
// fixed-ceiling rectangle pool addressed through a stable-id index. Note
// boxes are created on and owned by a board.
//
// Per frame, call Update once with all text/style mutations already
// applied, then Draw. The board issues exactly two draw submissions: one
// for all rectangles, one for all glyphs.
type Board struct {
	font  *FontMetrics
	atlas *ebiten.Image

	glyphs   *InstancePool[GlyphAttribs]
	rectPool *InstancePool[RectAttribs]
	rects    *StableIDIndex[RectAttribs]

	boxes []*NoteBox
	sink  PickSink

	scratchT []Transform2D
	scratchA []GlyphAttribs
}

// NewBoard creates a board over loaded font metrics and the matching atlas
// page. Both must be fully loaded first; a nil font is a caller bug and
// panics.
func NewBoard(font *FontMetrics, atlas *ebiten.Image) *Board {
	if font == nil {
		panic("scribe: NewBoard requires loaded font metrics")
	}
	rectPool := NewInstancePool[RectAttribs](PoolConfig{
		Baseline:     defaultRectBaseline,
		MaxInstances: defaultRectCeiling,
	})
	return &Board{
		font:     font,
		atlas:    atlas,
		glyphs:   NewInstancePool[GlyphAttribs](PoolConfig{Baseline: defaultGlyphBaseline}),
		rectPool: rectPool,
		rects:    NewStableIDIndex(rectPool),
	}
}

// Metrics returns the board's font metrics.
func (b *Board) Metrics() *FontMetrics { return b.font }

// NewNoteBox creates a note box on this board. Returns ErrPoolFull when
// the rectangle ceiling is reached; the caller decides whether to evict.
func (b *Board) NewNoteBox() (*NoteBox, error) {
	box, err := NewNoteBox(b.font, b.rects)
	if err != nil {
		return nil, err
	}
	b.boxes = append(b.boxes, box)
	return box, nil
}

// RemoveNoteBox removes a box and its rectangles from the board. Removing
// a box twice is a no-op.
func (b *Board) RemoveNoteBox(box *NoteBox) {
	for i, candidate := range b.boxes {
		if candidate == box {
			b.boxes = append(b.boxes[:i], b.boxes[i+1:]...)
			box.release()
			return
		}
	}
}

// Boxes returns the board's note boxes. The returned slice MUST NOT be
// mutated.
func (b *Board) Boxes() []*NoteBox { return b.boxes }

// Update runs every box's layout/auto-fit pass and rewrites the glyph pool
// wholesale from the combined placements. All text and style mutations for
// the frame must happen before this call — partial glyph uploads are not
// meaningful.
func (b *Board) Update(dt float32) {
	for _, box := range b.boxes {
		box.Update(dt)
	}

	b.scratchT = b.scratchT[:0]
	b.scratchA = b.scratchA[:0]
	for _, box := range b.boxes {
		b.scratchT, b.scratchA = box.appendGlyphs(b.scratchT, b.scratchA)
	}
	// The glyph pool grows unbounded; ReplaceAll cannot fail here.
	_ = b.glyphs.ReplaceAll(b.scratchT, b.scratchA)
}

// Draw submits the frame: one draw for all rectangles (under the text),
// one draw for all glyphs.
func (b *Board) Draw(target *ebiten.Image) {
	b.rectPool.Draw(target, WhitePixel)
	b.glyphs.Draw(target, b.atlas)
}

// SetPickSink sets the optional sink that Pick publishes resolved events
// to (for example the Donburi adapter in scribe/ecs).
func (b *Board) SetPickSink(sink PickSink) { b.sink = sink }

// Pick resolves a logical rectangle id — as reported by the host backend's
// hit-testing — to the owning box and its semantic role. Unknown ids
// return (nil, RoleNone). Resolved picks are forwarded to the pick sink
// when one is set.
func (b *Board) Pick(id uint32) (*NoteBox, Role) {
	for _, box := range b.boxes {
		if role := box.RoleForID(id); role != RoleNone {
			if b.sink != nil {
				b.sink.EmitPick(PickEvent{Box: box, ID: id, Role: role})
			}
			return box, role
		}
	}
	return nil, RoleNone
}

// GlyphCount returns the number of glyph instances uploaded by the last
// Update.
func (b *Board) GlyphCount() int { return b.glyphs.Len() }

// RectCount returns the number of live rectangle instances.
func (b *Board) RectCount() int { return b.rectPool.Len() }

// Clear removes every box and resets both pools toward their baselines.
func (b *Board) Clear() {
	for _, box := range b.boxes {
		box.release()
	}
	b.boxes = b.boxes[:0]
	b.rects.Reset()
	b.glyphs.ResetToBaseline()
}
