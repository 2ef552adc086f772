package scribe

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when instance quads are built for submission.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default glyph tint.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// WhitePixel is a 1x1 white image used as the source for solid and gradient
// rectangle instances.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(color.White)
}

// GradientMode selects how a rectangle instance blends its two colors.
type GradientMode uint8

const (
	GradientNone       GradientMode = iota // flat fill with Color1
	GradientVertical                       // Color1 at the top edge, Color2 at the bottom
	GradientHorizontal                     // Color1 at the left edge, Color2 at the right
)

// Role identifies the semantic part of a NoteBox that a rectangle instance
// belongs to. The host backend reports picks by logical id; RoleForID maps
// them back.
type Role uint8

const (
	RoleNone         Role = iota // id not owned by this box
	RoleHeader                   // header background rectangle
	RoleBody                     // body background rectangle
	RoleResizeHandle             // resize affordance in the bottom-right corner
)

// ErrPoolFull is returned by Add on a pool running in fixed-ceiling mode
// when the ceiling has been reached. The caller decides whether to drop the
// new instance or evict an old one; the pool never grows past the ceiling.
var ErrPoolFull = errors.New("scribe: instance pool at fixed capacity")

// PickEvent is emitted when the host backend reports a hit on a rectangle
// instance and Board.Pick resolves it to a NoteBox role.
type PickEvent struct {
	Box  *NoteBox
	ID   uint32
	Role Role
}

// PickSink receives resolved pick events. The scribe/ecs submodule provides
// a Donburi-backed implementation.
type PickSink interface {
	EmitPick(event PickEvent)
}
