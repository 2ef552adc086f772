package scribe

import "math"

// fitPhase tracks the auto-fit state machine of a NoteBox within a frame:
// Idle until content or size changes, Measuring during the unbounded
// auto-fit pass, Committed once the final box size is applied, then back to
// Idle after the glyph upload.
type fitPhase uint8

const (
	phaseIdle fitPhase = iota
	phaseMeasuring
	phaseCommitted
)

const resizeHandleSize = 12.0

// NoteBox composes two text regions (header and body) with three
// stable-id-managed rectangles: header background, body background, and a
// resize affordance. It auto-fits its width and height to the glyph
// content bounds and re-lays-out lazily when content, size, or style
// changes.
//
// A NoteBox holds a plain local transform plus an optional reference to its
// parent's transform; world-space placement is explicit matrix
// concatenation, not scene-graph dispatch.
type NoteBox struct {
	// Transform is the box's local placement. Mutate freely; instances are
	// re-synced when it changes.
	Transform Transform2D

	parent *Transform2D

	header *TextRegion
	body   *TextRegion

	rects     *StableIDIndex[RectAttribs]
	headerID  uint32
	bodyID    uint32
	handleID  uint32
	roles     map[uint32]Role
	rectsLive bool

	width, height       float64
	minWidth, minHeight float64
	headerHeight        float64
	padding             float64

	autoWidth, autoHeight bool

	headerStyle RectAttribs
	bodyStyle   RectAttribs
	handleStyle RectAttribs

	phase     fitPhase
	sizeDirty bool
	lastSync  syncState

	resize *SizeTween
}

// syncState is the last geometry pushed into the rectangle pool, so
// unchanged frames don't dirty the pool's vertex mirror.
type syncState struct {
	world         Transform2D
	width, height float64
	valid         bool
}

// NewNoteBox creates a note box over the given font metrics and rectangle
// index, inserting its three rectangles. Returns ErrPoolFull when the
// rectangle pool's ceiling leaves no room for them; in that case nothing is
// inserted.
func NewNoteBox(font *FontMetrics, rects *StableIDIndex[RectAttribs]) (*NoteBox, error) {
	b := &NoteBox{
		Transform:    IdentityTransform(),
		header:       NewTextRegion(font),
		body:         NewTextRegion(font),
		rects:        rects,
		roles:        make(map[uint32]Role, 3),
		minWidth:     120,
		minHeight:    80,
		headerHeight: font.LineHeight() * 1.5,
		padding:      8,
		autoWidth:    true,
		autoHeight:   true,
		sizeDirty:    true,
		headerStyle: RectAttribs{
			Color1:   Color{0.93, 0.80, 0.35, 1},
			Color2:   Color{0.86, 0.70, 0.25, 1},
			Alpha:    1,
			Gradient: GradientVertical,
		},
		bodyStyle: RectAttribs{
			Color1: Color{0.97, 0.93, 0.70, 1},
			Alpha:  1,
		},
		handleStyle: RectAttribs{
			Color1: Color{0.4, 0.4, 0.4, 1},
			Alpha:  0.8,
		},
	}
	b.width = b.minWidth
	b.height = b.minHeight
	b.header.SetWordWrap(false)

	var err error
	if b.headerID, err = rects.Insert(IdentityTransform(), b.headerStyle); err != nil {
		return nil, err
	}
	if b.bodyID, err = rects.Insert(IdentityTransform(), b.bodyStyle); err != nil {
		rects.Remove(b.headerID)
		return nil, err
	}
	if b.handleID, err = rects.Insert(IdentityTransform(), b.handleStyle); err != nil {
		rects.Remove(b.headerID)
		rects.Remove(b.bodyID)
		return nil, err
	}
	b.roles[b.headerID] = RoleHeader
	b.roles[b.bodyID] = RoleBody
	b.roles[b.handleID] = RoleResizeHandle
	b.rectsLive = true
	return b, nil
}

// Header returns the header text region for direct mutation.
func (b *NoteBox) Header() *TextRegion { return b.header }

// Body returns the body text region for direct mutation.
func (b *NoteBox) Body() *TextRegion { return b.body }

// SetHeaderText replaces the header text.
func (b *NoteBox) SetHeaderText(text string) { b.header.SetText(text) }

// SetBodyText replaces the body text.
func (b *NoteBox) SetBodyText(text string) { b.body.SetText(text) }

// SetParentTransform sets the transform this box resolves its world
// placement against, or nil for none.
func (b *NoteBox) SetParentTransform(parent *Transform2D) {
	b.parent = parent
	b.lastSync.valid = false
}

// Size returns the current outer width and height.
func (b *NoteBox) Size() (w, h float64) { return b.width, b.height }

// SetSize sets the outer size, clamped to the minimums, and re-triggers the
// measuring pass. Auto-fit still grows the box when content exceeds it.
func (b *NoteBox) SetSize(w, h float64) {
	if w < b.minWidth {
		w = b.minWidth
	}
	if h < b.minHeight {
		h = b.minHeight
	}
	if w == b.width && h == b.height {
		return
	}
	b.width = w
	b.height = h
	b.sizeDirty = true
}

// ResizeBy grows or shrinks the box by a drag delta, typically driven by
// the resize handle. Re-triggers the measuring pass next update.
func (b *NoteBox) ResizeBy(dx, dy float64) {
	b.SetSize(b.width+dx, b.height+dy)
}

// SetAutoFit toggles the auto-width and auto-height passes.
func (b *NoteBox) SetAutoFit(width, height bool) {
	b.autoWidth = width
	b.autoHeight = height
	b.sizeDirty = true
}

// SetMinSize sets the minimum outer size.
func (b *NoteBox) SetMinSize(w, h float64) {
	b.minWidth = w
	b.minHeight = h
	b.sizeDirty = true
}

// AnimateSizeTo starts a tweened resize toward the target size. The tween
// advances inside Update.
func (b *NoteBox) AnimateSizeTo(w, h float64, duration float32) {
	b.resize = TweenSize(b, w, h, duration)
}

// RoleForID maps a logical rectangle id reported by the host backend's
// picking back to the semantic part of this box it belongs to, or RoleNone
// when the id is not owned by this box.
func (b *NoteBox) RoleForID(id uint32) Role {
	return b.roles[id]
}

// Update advances the resize tween, runs the auto-fit state machine when
// content or size changed, and syncs the three rectangle instances. Called
// once per frame before the board's glyph upload.
func (b *NoteBox) Update(dt float32) {
	if b.resize != nil {
		b.resize.Update(dt)
		if b.resize.Done {
			b.resize = nil
		}
	}
	if b.sizeDirty || b.header.layoutDirty || b.body.layoutDirty {
		b.measure()
		b.sizeDirty = false
	}
	b.syncRects()
}

// measure runs the auto-fit passes and commits the final box size.
//
// The auto-height pass lays the body out at the final width with an
// unbounded height; when the committed height contains the content, that
// pass's glyph output is reused directly for rendering, so a frame needs
// at most two layout passes.
func (b *NoteBox) measure() {
	b.phase = phaseMeasuring

	if b.autoWidth {
		b.body.SetWordWrap(false)
		b.body.SetBox(math.Inf(1), math.Inf(1))
		w := b.body.ContentWidth()
		if hw := b.header.ContentWidth(); hw > w {
			w = hw
		}
		target := w + 2*b.padding
		if target < b.minWidth {
			target = b.minWidth
		}
		if target > b.width {
			b.width = target
		}
	}

	innerW := b.width - 2*b.padding
	b.body.SetWordWrap(true)
	b.body.SetBox(innerW, math.Inf(1))
	contentH := b.body.ContentHeight()

	if b.autoHeight {
		target := b.headerHeight + contentH + 2*b.padding
		if target < b.minHeight {
			target = b.minHeight
		}
		if target > b.height {
			b.height = target
		}
	}

	visibleH := b.height - b.headerHeight - 2*b.padding
	if contentH > visibleH {
		// Content exceeds the box: one more pass with real clipping.
		b.body.SetBox(innerW, visibleH)
	}

	b.phase = phaseCommitted
}

// worldTransform resolves the box's world placement from its local
// transform and the optional parent transform: the position comes from the
// concatenated matrix, scale and rotation compose per component.
func (b *NoteBox) worldTransform() Transform2D {
	t := b.Transform
	if b.parent == nil {
		return t
	}
	p := *b.parent
	m := mulAffine(p.Affine(), t.Affine())
	return Transform2D{
		X:        m[4],
		Y:        m[5],
		ScaleX:   t.ScaleX * p.ScaleX,
		ScaleY:   t.ScaleY * p.ScaleY,
		Rotation: t.Rotation + p.Rotation,
	}
}

// syncRects pushes the three rectangle instances into the pool when
// geometry changed since the last sync. The handle position is derived
// purely from the box size.
func (b *NoteBox) syncRects() {
	if !b.rectsLive {
		return
	}
	world := b.worldTransform()
	if b.lastSync.valid && b.lastSync.world == world &&
		b.lastSync.width == b.width && b.lastSync.height == b.height {
		return
	}
	b.lastSync = syncState{world: world, width: b.width, height: b.height, valid: true}

	m := world.Affine()
	place := func(lx, ly, w, h float64) Transform2D {
		x, y := applyAffine(m, lx, ly)
		return Transform2D{
			X:        x,
			Y:        y,
			ScaleX:   world.ScaleX * w,
			ScaleY:   world.ScaleY * h,
			Rotation: world.Rotation,
		}
	}

	b.rects.Update(b.headerID, place(0, 0, b.width, b.headerHeight), b.headerStyle)
	b.rects.Update(b.bodyID, place(0, b.headerHeight, b.width, b.height-b.headerHeight), b.bodyStyle)
	b.rects.Update(b.handleID,
		place(b.width-resizeHandleSize, b.height-resizeHandleSize, resizeHandleSize, resizeHandleSize),
		b.handleStyle)
}

// headerOrigin and bodyOrigin are the local-space (y down) origins of the
// two text regions.
func (b *NoteBox) headerOrigin() (x, y float64) {
	return b.padding, (b.headerHeight - b.header.Metrics().LineHeight()) / 2
}

func (b *NoteBox) bodyOrigin() (x, y float64) {
	return b.padding, b.headerHeight + b.padding
}

// appendGlyphs converts both regions' placed glyphs to world-space
// instance records and appends them to the parallel arrays. Layout space
// has +y up, local space y down, hence the flip. Returns the box to the
// Idle phase; the board uploads the combined arrays wholesale afterwards.
func (b *NoteBox) appendGlyphs(dstT []Transform2D, dstA []GlyphAttribs) ([]Transform2D, []GlyphAttribs) {
	world := b.worldTransform()
	m := world.Affine()
	f := b.header.Metrics()

	appendRegion := func(r *TextRegion, ox, oy float64) {
		glyphs := r.Glyphs()
		for i := range glyphs {
			g := &glyphs[i]
			x, y := applyAffine(m, ox+g.X, oy-g.Y)
			dstT = append(dstT, Transform2D{
				X:        x,
				Y:        y,
				ScaleX:   world.ScaleX * g.Scale,
				ScaleY:   world.ScaleY * g.Scale,
				Rotation: world.Rotation + g.Rotation,
			})
			dstA = append(dstA, GlyphAttribsFor(f, g))
		}
	}

	hx, hy := b.headerOrigin()
	appendRegion(b.header, hx, hy)
	bx, by := b.bodyOrigin()
	appendRegion(b.body, bx, by)

	b.phase = phaseIdle
	return dstT, dstA
}

// IndexAt maps a world-space position to the nearest character index in
// the given region (RoleHeader or RoleBody), for click-to-caret placement.
// Returns -1 for other roles.
func (b *NoteBox) IndexAt(role Role, worldX, worldY float64) int {
	var r *TextRegion
	var ox, oy float64
	switch role {
	case RoleHeader:
		r = b.header
		ox, oy = b.headerOrigin()
	case RoleBody:
		r = b.body
		ox, oy = b.bodyOrigin()
	default:
		return -1
	}
	inv := invertAffine(b.worldTransform().Affine())
	lx, ly := applyAffine(inv, worldX, worldY)
	// Local y down -> layout y up.
	return r.IndexAtPos(lx-ox, -(ly - oy))
}

// release removes the box's rectangles from the pool. Safe to call twice.
func (b *NoteBox) release() {
	if !b.rectsLive {
		return
	}
	b.rects.Remove(b.headerID)
	b.rects.Remove(b.bodyID)
	b.rects.Remove(b.handleID)
	b.rectsLive = false
}
