package prefab

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Loaded is published when a prefab has gone through the resolution pass
// without being spawned. The receiver owns Prefab.
type Loaded[T Data] struct {
	Prefab *Prefab[T]
	// Failed reports that some payload did not resolve.
	Failed bool
}

// Plugin holds the per-payload-type state of a world: the Donburi event type
// Loaded[T] values are published on.
type Plugin[T Data] struct {
	Loaded *events.EventType[Loaded[T]]
}

// Install registers the Plugin for payload type T on w and returns it.
// Installing twice returns the existing plugin.
func Install[T Data](w *World) *Plugin[T] {
	if p, ok := Resource[*Plugin[T]](w); ok {
		return p
	}
	p := &Plugin[T]{Loaded: events.NewEventType[Loaded[T]]()}
	InsertResource(w, p)
	return p
}

// OnLoaded subscribes fn to Loaded[T] events. Events are delivered by
// ProcessEvents.
func (p *Plugin[T]) OnLoaded(w *World, fn func(w *World, ev Loaded[T])) {
	p.Loaded.Subscribe(w.ecs, func(_ donburi.World, ev Loaded[T]) {
		fn(w, ev)
	})
}

// ProcessEvents delivers queued Loaded[T] events to subscribers.
func (p *Plugin[T]) ProcessEvents(w *World) {
	p.Loaded.ProcessEvents(w.ecs)
}

func (p *Plugin[T]) publish(w *World, ev Loaded[T]) {
	p.Loaded.Publish(w.ecs, ev)
}
