package ecs

import (
	"github.com/phanxgames/scribe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PickEventType is the Donburi event type for scribe pick events.
// Subscribe to this in your ECS systems to react to header, body, and
// resize-handle hits.
var PickEventType = events.NewEventType[scribe.PickEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a PickSink backed by a Donburi world. Pick events
// are published to PickEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) scribe.PickSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitPick(event scribe.PickEvent) {
	PickEventType.Publish(s.world, event)
}
