package scribe

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// quadAttribs is implemented by per-instance attribute types (GlyphAttribs,
// RectAttribs). appendQuad appends exactly 4 vertices for one instance quad
// transformed by the affine matrix m; srcW/srcH are the source texture
// dimensions in pixels.
type quadAttribs interface {
	appendQuad(dst []ebiten.Vertex, m [6]float64, srcW, srcH float32) []ebiten.Vertex
}

// PoolConfig tunes an InstancePool's allocation behavior. Zero values fall
// back to the package defaults.
type PoolConfig struct {
	// Baseline is the initial capacity and the ResetToBaseline target.
	Baseline int
	// PaddingCap is the absolute ceiling on the 20% proportional growth
	// headroom, so huge one-shot uploads don't over-allocate unboundedly.
	PaddingCap int
	// MinSlack is the minimum absolute headroom added on growth, so
	// repeated +1 additions don't reallocate every call.
	MinSlack int
	// MaxInstances, when positive, puts the pool in fixed-ceiling mode:
	// Add and ReplaceAll fail with ErrPoolFull instead of growing past it.
	// Zero means unbounded growth.
	MaxInstances int
}

const (
	defaultPoolBaseline   = 64
	defaultPoolPaddingCap = 10000
	defaultPoolMinSlack   = 256
)

func (c PoolConfig) withDefaults() PoolConfig {
	if c.Baseline <= 0 {
		c.Baseline = defaultPoolBaseline
	}
	if c.PaddingCap <= 0 {
		c.PaddingCap = defaultPoolPaddingCap
	}
	if c.MinSlack <= 0 {
		c.MinSlack = defaultPoolMinSlack
	}
	return c
}

// InstancePool is a dense, fixed-stride array of per-instance records
// (transform + attributes) mirrored into an upload-ready vertex buffer.
// It backs two paths:
//
//   - the glyph path: rewritten wholesale every layout pass via ReplaceAll,
//     with no per-instance identity;
//   - the rectangle path: persistent records addressed through
//     StableIDIndex, using Add/Set/RemoveSwap.
//
// A pool is exclusively owned by one component and is not safe for
// concurrent use; all mutation happens on the frame thread.
type InstancePool[T quadAttribs] struct {
	cfg PoolConfig

	// Dense record storage. Slice length is the capacity; slots
	// [0, live) hold live records. This layout is exactly what the
	// rendering backend consumes, per the Transforms/Attribs contract.
	transforms []Transform2D
	attribs    []T
	live       int

	// Vertex mirror, rebuilt lazily when records change.
	dirty    bool
	verts    []ebiten.Vertex
	inds     []uint32
	meshSrcW float32
	meshSrcH float32
}

// NewInstancePool creates a pool allocated at the config's baseline
// capacity.
func NewInstancePool[T quadAttribs](cfg PoolConfig) *InstancePool[T] {
	cfg = cfg.withDefaults()
	return &InstancePool[T]{
		cfg:        cfg,
		transforms: make([]Transform2D, cfg.Baseline),
		attribs:    make([]T, cfg.Baseline),
	}
}

// Len returns the number of live instances.
func (p *InstancePool[T]) Len() int { return p.live }

// Capacity returns the allocated slot count.
func (p *InstancePool[T]) Capacity() int { return len(p.transforms) }

// Transforms returns the dense live transform array, length Len(). The
// backend may consume it directly; it is valid until the next mutation.
func (p *InstancePool[T]) Transforms() []Transform2D { return p.transforms[:p.live] }

// Attribs returns the dense live attribute array, length Len().
func (p *InstancePool[T]) Attribs() []T { return p.attribs[:p.live] }

// At returns the record at a physical slot. Slots out of [0, Len()) return
// zero values.
func (p *InstancePool[T]) At(slot int) (Transform2D, T) {
	if slot < 0 || slot >= p.live {
		var zero T
		return Transform2D{}, zero
	}
	return p.transforms[slot], p.attribs[slot]
}

// Add appends a record and returns its physical slot. In fixed-ceiling
// mode a full pool returns ErrPoolFull and leaves the pool untouched.
func (p *InstancePool[T]) Add(t Transform2D, a T) (int, error) {
	if p.cfg.MaxInstances > 0 && p.live >= p.cfg.MaxInstances {
		return -1, ErrPoolFull
	}
	p.ensure(p.live + 1)
	slot := p.live
	p.transforms[slot] = t
	p.attribs[slot] = a
	p.live++
	p.dirty = true
	return slot, nil
}

// Set overwrites the record at a physical slot in place. Slots outside
// [0, Len()) are ignored — stale handles from dynamic editing are a no-op,
// not an error.
func (p *InstancePool[T]) Set(slot int, t Transform2D, a T) {
	if slot < 0 || slot >= p.live {
		return
	}
	p.transforms[slot] = t
	p.attribs[slot] = a
	p.dirty = true
}

// RemoveSwap removes the record at a physical slot by copying the last live
// record into it and shrinking the live count. It returns the slot the
// moved record came from and whether a move occurred, so an indirection
// layer can update the moved record's id-to-slot mapping. Out-of-range
// slots are a no-op returning (-1, false).
func (p *InstancePool[T]) RemoveSwap(slot int) (movedFrom int, swapped bool) {
	if slot < 0 || slot >= p.live {
		return -1, false
	}
	last := p.live - 1
	if slot != last {
		p.transforms[slot] = p.transforms[last]
		p.attribs[slot] = p.attribs[last]
	}
	p.live = last
	p.dirty = true
	return last, slot != last
}

// ReplaceAll rewrites the pool wholesale with the given parallel record
// arrays (the glyph path). Both slices must be the same length. In
// fixed-ceiling mode an oversized upload returns ErrPoolFull with prior
// contents untouched.
func (p *InstancePool[T]) ReplaceAll(transforms []Transform2D, attribs []T) error {
	if len(transforms) != len(attribs) {
		panic("scribe: ReplaceAll record arrays differ in length")
	}
	n := len(transforms)
	if p.cfg.MaxInstances > 0 && n > p.cfg.MaxInstances {
		return ErrPoolFull
	}
	p.ensure(n)
	copy(p.transforms, transforms)
	copy(p.attribs, attribs)
	p.live = n
	p.dirty = true
	return nil
}

// ResetToBaseline clears the pool. If capacity has grown past twice the
// baseline the backing storage is reallocated at baseline; otherwise the
// live count is reset in place, avoiding reallocation churn on typical
// clear/rebuild cycles.
func (p *InstancePool[T]) ResetToBaseline() {
	if len(p.transforms) > 2*p.cfg.Baseline {
		p.transforms = make([]Transform2D, p.cfg.Baseline)
		p.attribs = make([]T, p.cfg.Baseline)
	}
	p.live = 0
	p.dirty = true
}

// ensure grows the backing storage to hold at least required records.
// Growth bulk-copies all live records into the new storage, preserving
// exact values and order, then swaps the storage reference.
func (p *InstancePool[T]) ensure(required int) {
	if required <= len(p.transforms) {
		return
	}
	newCap := grownCapacity(required, p.cfg)
	newT := make([]Transform2D, newCap)
	newA := make([]T, newCap)
	copy(newT, p.transforms[:p.live])
	copy(newA, p.attribs[:p.live])
	p.transforms = newT
	p.attribs = newA
}

// grownCapacity computes the post-growth capacity: 20% proportional
// headroom capped at PaddingCap, but never less than MinSlack of absolute
// headroom.
func grownCapacity(required int, cfg PoolConfig) int {
	padding := (required + 4) / 5 // ceil(required * 0.2)
	if padding > cfg.PaddingCap {
		padding = cfg.PaddingCap
	}
	if padding < cfg.MinSlack {
		padding = cfg.MinSlack
	}
	return required + padding
}

// Draw submits all live instances as a single DrawTriangles32 call, with
// src as the texture (the font atlas page for glyphs, WhitePixel for
// rectangles). The vertex mirror is rebuilt only when records changed since
// the last submission.
func (p *InstancePool[T]) Draw(target, src *ebiten.Image) {
	if p.live == 0 || src == nil {
		return
	}
	b := src.Bounds()
	srcW, srcH := float32(b.Dx()), float32(b.Dy())
	if p.dirty || srcW != p.meshSrcW || srcH != p.meshSrcH {
		p.rebuildMesh(srcW, srcH)
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(p.verts, p.inds, src, &triOp)
}

// rebuildMesh regenerates the upload-ready vertex and index arrays from the
// live records.
func (p *InstancePool[T]) rebuildMesh(srcW, srcH float32) {
	p.verts = p.verts[:0]
	p.inds = p.inds[:0]

	for i := 0; i < p.live; i++ {
		m := p.transforms[i].Affine()
		p.verts = p.attribs[i].appendQuad(p.verts, m, srcW, srcH)

		// Two triangles: TL-TR-BL, TR-BR-BL
		base := uint32(i * 4)
		p.inds = append(p.inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}

	p.dirty = false
	p.meshSrcW = srcW
	p.meshSrcH = srcH
}
