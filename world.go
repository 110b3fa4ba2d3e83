package prefab

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// --- Hierarchy components ---

// ParentData links an entity to its parent.
type ParentData struct {
	Entity donburi.Entity
}

// ChildrenData lists an entity's children in insertion order.
type ChildrenData struct {
	Entities []donburi.Entity
}

var (
	// Parent is present on every entity that has been added as a child.
	Parent = donburi.NewComponentType[ParentData]()
	// Children is present on every entity that has at least one child.
	Children = donburi.NewComponentType[ChildrenData]()

	// spawned tags every entity created through World.Spawn. donburi needs
	// at least one component to place an entity in an archetype.
	spawned      = donburi.NewTag("prefab.spawned")
	spawnedQuery = donburi.NewQuery(filter.Contains(spawned))
)

// --- World ---

// World is the live store prefabs are spawned into. It wraps a donburi world
// and a table of resources looked up by type (asset servers, callback
// tables, event types).
//
// A World is not safe for concurrent use. Spawning assumes exclusive access
// for the whole walk.
type World struct {
	ecs       donburi.World
	epoch     uint64
	resources map[reflect.Type]any
	logger    zerolog.Logger
	debug     bool
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger used by the world and by payloads resolving
// against it.
func WithLogger(l zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = l
	}
}

// WithDebug enables tree depth and child count warnings.
func WithDebug(enabled bool) WorldOption {
	return func(w *World) {
		w.debug = enabled
	}
}

// WithECS wraps an existing donburi world instead of creating one.
func WithECS(ecs donburi.World) WorldOption {
	return func(w *World) {
		w.ecs = ecs
	}
}

// NewWorld creates an empty World.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		resources: make(map[reflect.Type]any),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.ecs == nil {
		w.ecs = donburi.NewWorld()
	}
	return w
}

// ECS returns the underlying donburi world. Mutating it directly does not
// advance the epoch; refresh any held EntityMut afterwards.
func (w *World) ECS() donburi.World {
	return w.ecs
}

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// Debug reports whether debug checks are enabled.
func (w *World) Debug() bool {
	return w.debug
}

// Len returns the number of live entities created through Spawn. Entities
// donburi keeps for its own bookkeeping, such as event buses, and entities
// created directly on the wrapped donburi world are not counted.
func (w *World) Len() int {
	return spawnedQuery.Count(w.ecs)
}

// Epoch returns the world's growth counter. It advances on every spawn and
// every archetype change.
func (w *World) Epoch() uint64 {
	return w.epoch
}

func (w *World) grow() {
	w.epoch++
}

// Spawn creates an empty entity and returns a fresh handle to it.
func (w *World) Spawn() *EntityMut {
	id := w.ecs.Create(spawned)
	w.grow()
	return w.locate(id)
}

// Entity returns a fresh handle to id, or false if id is not alive.
func (w *World) Entity(id donburi.Entity) (*EntityMut, bool) {
	if !w.ecs.Valid(id) {
		return nil, false
	}
	return w.locate(id), true
}

func (w *World) locate(id donburi.Entity) *EntityMut {
	return &EntityMut{world: w, id: id, entry: w.ecs.Entry(id), epoch: w.epoch}
}

// --- Resources ---

// InsertResource registers v as the world's resource of type T, replacing
// any previous one.
func InsertResource[T any](w *World, v T) {
	w.resources[reflect.TypeFor[T]()] = v
}

// Resource returns the world's resource of type T.
func Resource[T any](w *World) (T, bool) {
	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// RemoveResource unregisters the resource of type T.
func RemoveResource[T any](w *World) {
	delete(w.resources, reflect.TypeFor[T]())
}

// --- EntityMut ---

// EntityMut is a handle to a live entity: its stable identity plus the
// location it had when the handle was last refreshed. The location is only
// valid while the world's epoch is unchanged, except for mutations made
// through this handle, which refresh it.
type EntityMut struct {
	world *World
	id    donburi.Entity
	entry *donburi.Entry
	epoch uint64
}

// ID returns the stable entity identity. It is valid across mutations.
func (e *EntityMut) ID() donburi.Entity {
	return e.id
}

// World returns the world the entity lives in. Mutating the world makes the
// handle stale; call UpdateLocation before using it again.
func (e *EntityMut) World() *World {
	return e.world
}

// Stale reports whether the world has grown since the location was taken.
func (e *EntityMut) Stale() bool {
	return e.epoch != e.world.epoch
}

// UpdateLocation re-derives the location from the entity's identity.
func (e *EntityMut) UpdateLocation() {
	e.entry = e.world.ecs.Entry(e.id)
	e.epoch = e.world.epoch
}

// Entry returns the donburi entry at the current location.
// Panics if the location is stale.
func (e *EntityMut) Entry() *donburi.Entry {
	if e.Stale() {
		panic(fmt.Sprintf("prefab: stale location for entity %v (epoch %d, world at %d); call UpdateLocation",
			e.id, e.epoch, e.world.epoch))
	}
	return e.entry
}

// AddChild makes child a child of this entity, removing it from any previous
// parent first. Panics if child is this entity or is not alive.
func (e *EntityMut) AddChild(child donburi.Entity) {
	e.Entry()
	if child == e.id {
		panic("prefab: cannot add an entity as its own child")
	}
	w := e.world
	if !w.ecs.Valid(child) {
		panic(fmt.Sprintf("prefab: child entity %v is not alive", child))
	}
	ce := w.ecs.Entry(child)
	if ce.HasComponent(Parent) {
		old := Parent.Get(ce).Entity
		if old == e.id {
			return
		}
		if w.ecs.Valid(old) {
			oe := w.ecs.Entry(old)
			if oe.HasComponent(Children) {
				cd := Children.Get(oe)
				cd.Entities = removeEntity(cd.Entities, child)
			}
		}
	}
	setComponent(w, ce, Parent, ParentData{Entity: e.id})

	self := w.ecs.Entry(e.id)
	var kids []donburi.Entity
	if self.HasComponent(Children) {
		kids = Children.Get(self).Entities
	}
	setComponent(w, self, Children, ChildrenData{Entities: append(kids, child)})
	e.UpdateLocation()

	if w.debug {
		debugCheckTreeDepth(w, child)
		debugCheckChildCount(w, e.id)
	}
}

func removeEntity(list []donburi.Entity, id donburi.Entity) []donburi.Entity {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// setComponent stores value on entry, adding the component (and moving the
// entity to a new archetype) when needed.
func setComponent[T any](w *World, entry *donburi.Entry, ctype *donburi.ComponentType[T], value T) {
	if !entry.HasComponent(ctype) {
		entry.AddComponent(ctype)
		w.grow()
	}
	ctype.SetValue(entry, value)
}

// Insert stores value under ctype on the entity, adding the component when
// the entity does not have it yet.
func Insert[T any](e *EntityMut, ctype *donburi.ComponentType[T], value T) {
	entry := e.Entry()
	setComponent(e.world, entry, ctype, value)
	e.UpdateLocation()
}

// Get returns the entity's component of type ctype.
func Get[T any](e *EntityMut, ctype *donburi.ComponentType[T]) (*T, bool) {
	entry := e.Entry()
	if !entry.HasComponent(ctype) {
		return nil, false
	}
	return ctype.Get(entry), true
}

// Has reports whether the entity has the component.
func Has[T any](e *EntityMut, ctype *donburi.ComponentType[T]) bool {
	return e.Entry().HasComponent(ctype)
}

// --- Hierarchy queries ---

// ParentOf returns the parent of id.
func ParentOf(w *World, id donburi.Entity) (donburi.Entity, bool) {
	if !w.ecs.Valid(id) {
		return donburi.Null, false
	}
	entry := w.ecs.Entry(id)
	if !entry.HasComponent(Parent) {
		return donburi.Null, false
	}
	return Parent.Get(entry).Entity, true
}

// ChildrenOf returns the children of id in insertion order.
func ChildrenOf(w *World, id donburi.Entity) []donburi.Entity {
	if !w.ecs.Valid(id) {
		return nil
	}
	entry := w.ecs.Entry(id)
	if !entry.HasComponent(Children) {
		return nil
	}
	kids := Children.Get(entry).Entities
	out := make([]donburi.Entity, len(kids))
	copy(out, kids)
	return out
}
