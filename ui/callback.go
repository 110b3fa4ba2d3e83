package ui

import (
	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// System is a named function buttons can run when pressed.
type System func(w *prefab.World)

// Callbacks is the table of named systems, stored as a world resource.
type Callbacks struct {
	systems map[string]System
}

// NewCallbacks returns an empty table.
func NewCallbacks() *Callbacks {
	return &Callbacks{systems: make(map[string]System)}
}

// CallbacksOf returns the table installed on w.
func CallbacksOf(w *prefab.World) (*Callbacks, bool) {
	return prefab.Resource[*Callbacks](w)
}

// Register adds s under name and returns the system it replaced, if any.
func (c *Callbacks) Register(name string, s System) System {
	prev := c.systems[name]
	c.systems[name] = s
	return prev
}

// Remove deletes name and returns the removed system, if any.
func (c *Callbacks) Remove(name string) System {
	prev := c.systems[name]
	delete(c.systems, name)
	return prev
}

// Lookup returns the system registered under name.
func (c *Callbacks) Lookup(name string) (System, bool) {
	s, ok := c.systems[name]
	return s, ok
}

// Len returns the number of registered systems.
func (c *Callbacks) Len() int {
	return len(c.systems)
}

// Callback is the press action of a button: either a registered system,
// looked up by name during resolution, or an event carrying the given name.
//
//	callback: {system: start_game}
//	callback: {event: open_settings}
type Callback struct {
	System string `yaml:"system,omitempty" json:"system,omitempty"`
	Event  string `yaml:"event,omitempty" json:"event,omitempty"`

	loaded System
}

// Loaded reports whether the system has been looked up.
func (c Callback) Loaded() bool {
	return c.loaded != nil
}

// Resolve looks the system up in the world's Callbacks. Event callbacks
// have nothing to resolve.
func (c *Callback) Resolve(w *prefab.World) bool {
	if c.System == "" {
		return false
	}
	log := w.Logger()
	if c.loaded != nil {
		log.Warn().
			Str("target", "ui").
			Str("system", c.System).
			Msg("tried to load an already loaded callback")
		return true
	}
	callbacks, ok := CallbacksOf(w)
	if !ok {
		log.Error().
			Str("target", "ui").
			Msg("the Callbacks resource is not installed")
		return true
	}
	s, ok := callbacks.Lookup(c.System)
	if !ok {
		log.Warn().
			Str("target", "ui").
			Str("system", c.System).
			Msg("tried to get system, but failed")
		return true
	}
	c.loaded = s
	return false
}

// Apply inserts the ButtonCallback component. An unresolved system callback
// inserts nothing, and neither does an empty callback.
func (c Callback) Apply(e *prefab.EntityMut) {
	switch {
	case c.System == "" && c.Event == "":
		return
	case c.loaded != nil:
		prefab.Insert(e, ButtonCallback, ButtonCallbackData{Name: c.System, System: c.loaded})
	case c.System == "":
		prefab.Insert(e, ButtonCallback, ButtonCallbackData{Name: c.Event})
	default:
		e.World().Logger().Warn().
			Str("target", "ui").
			Str("system", c.System).
			Msg("tried to insert unloaded callback into entity")
	}
}

// ButtonCallbackData is the live press action of a button. A nil System
// means pressing publishes a PressedButton event named Name.
type ButtonCallbackData struct {
	Name   string
	System System
}

// ButtonCallback is the live press action component.
var ButtonCallback = donburi.NewComponentType[ButtonCallbackData]()

// PressedButton reports an interaction with an event button.
type PressedButton struct {
	ButtonName  string
	Entity      donburi.Entity
	Interaction components.Interaction
}

// PressedButtonEvent carries PressedButton values. Deliver them with
// ProcessEvents.
var PressedButtonEvent = events.NewEventType[PressedButton]()

// OnPressed subscribes fn to PressedButton events on w.
func OnPressed(w *prefab.World, fn func(w *prefab.World, ev PressedButton)) {
	PressedButtonEvent.Subscribe(w.ECS(), func(_ donburi.World, ev PressedButton) {
		fn(w, ev)
	})
}

// ProcessEvents delivers queued PressedButton events.
func ProcessEvents(w *prefab.World) {
	PressedButtonEvent.ProcessEvents(w.ECS())
}

// Press records interaction on the button entity and fires its callback.
// Event buttons publish a PressedButton for every interaction; system
// buttons run their system on InteractionPressed only. Press reports
// whether a callback fired.
func Press(w *prefab.World, entity donburi.Entity, interaction components.Interaction) bool {
	e, ok := w.Entity(entity)
	if !ok {
		return false
	}
	if btn, ok := prefab.Get(e, components.Button); ok {
		btn.Interaction = interaction
	}
	cb, ok := prefab.Get(e, ButtonCallback)
	if !ok {
		return false
	}
	if cb.System == nil {
		PressedButtonEvent.Publish(w.ECS(), PressedButton{
			ButtonName:  cb.Name,
			Entity:      entity,
			Interaction: interaction,
		})
		return true
	}
	if interaction != components.InteractionPressed {
		return false
	}
	run := cb.System
	run(w)
	return true
}
