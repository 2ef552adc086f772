// Package scribe renders large volumes of bitmap-font glyphs and
// flat-colored rectangles through one draw submission per pool, for
// [Ebitengine].
//
// Scribe is CPU-layout, GPU-instance: text layout (greedy word wrap,
// per-character style ranges, caret placement, click-to-index) runs on the
// frame thread, and the resulting placements are mirrored into dense,
// upload-ready instance pools that each submit a single DrawTriangles32
// call.
//
// # Quick start
//
//	metrics, err := scribe.LoadFontMetrics(fntData)
//	if err != nil { ... }
//	board := scribe.NewBoard(metrics, atlasImage)
//
//	note, err := board.NewNoteBox()
//	if err != nil { ... }
//	note.SetHeaderText("Shopping")
//	note.SetBodyText("eggs milk flour")
//
//	// each frame:
//	board.Update(dt)
//	board.Draw(screen)
//
// # Pools
//
// [InstancePool] is a growable fixed-stride record array. The glyph pool is
// rewritten wholesale every frame; the rectangle pool is persistent and
// addressed through [StableIDIndex], which gives O(1) insert/update/remove
// by an opaque identifier that stays valid across the swap-with-last slot
// reshuffling performed on removal.
//
// # Concurrency
//
// Scribe is single-threaded and frame-driven. [FontMetrics] is immutable
// after load and may be shared freely; each pool is owned by exactly one
// component.
//
// Tweened note resizing uses [gween]. ECS integration (pick events via
// Donburi) lives in the scribe/ecs submodule.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package scribe
