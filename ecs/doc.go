// Package ecs provides ECS adapters for scribe's pick events.
//
// The primary adapter is [NewDonburiSink], which bridges resolved pick
// events (a hit rectangle's logical id mapped to a note box and role) into
// a [Donburi] world as typed events. Subscribe to [PickEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	board.SetPickSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
