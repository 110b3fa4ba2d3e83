package prefab

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/yohamta/donburi"
)

// MarkerData tags an entity spawned from a prefab.
type MarkerData struct {
	// Prefab is the payload type of the prefab, e.g. "ui.Data[ui.NoData]".
	Prefab string
	// Instance is shared by every entity created by one spawn call.
	Instance uuid.UUID
	// Index is the node index the entity was created from.
	Index int
}

// Marker is attached to every entity created by Spawn or SpawnWithRoot.
var Marker = donburi.NewComponentType[MarkerData]()

// Spawn creates one entity per node reachable from index and returns the
// entity created for index. Payloads are moved out of the prefab, so a prefab
// can only be spawned once; Clone it first to spawn it again.
//
// It reports false, without creating anything, when index has no entry in
// children.
func (p *Prefab[T]) Spawn(children ChildrenMap, index int, w *World) (donburi.Entity, bool) {
	if _, ok := children[index]; !ok {
		p.warnMissing(w, index)
		return donburi.Null, false
	}
	s := p.spawner(children, w)
	return s.spawn(index, w.Spawn()), true
}

// SpawnWithRoot spawns like Spawn, but uses the existing entity root for
// index instead of creating a new one. Panics if root is not alive.
func (p *Prefab[T]) SpawnWithRoot(children ChildrenMap, index int, w *World, root donburi.Entity) (donburi.Entity, bool) {
	if _, ok := children[index]; !ok {
		p.warnMissing(w, index)
		return donburi.Null, false
	}
	e, ok := w.Entity(root)
	if !ok {
		panic("prefab: root entity is not alive")
	}
	s := p.spawner(children, w)
	return s.spawn(index, e), true
}

func (p *Prefab[T]) warnMissing(w *World, index int) {
	w.logger.Warn().
		Str("target", "prefab").
		Int("index", index).
		Msg("entity not found in the prefab")
}

type spawner[T Data] struct {
	prefab   *Prefab[T]
	children ChildrenMap
	world    *World
	marker   MarkerData
	seen     map[int]bool
}

func (p *Prefab[T]) spawner(children ChildrenMap, w *World) *spawner[T] {
	return &spawner[T]{
		prefab:   p,
		children: children,
		world:    w,
		marker: MarkerData{
			Prefab:   reflect.TypeFor[T]().String(),
			Instance: uuid.New(),
		},
		seen: make(map[int]bool),
	}
}

// spawn fills e from the node at index, then spawns each child and links it.
// Spawning a child grows the world, so e is refreshed before it is touched
// again. A child with no node, no children entry, or one already spawned in
// this walk is logged and skipped with its subtree.
func (s *spawner[T]) spawn(index int, e *EntityMut) donburi.Entity {
	s.seen[index] = true
	if node, ok := s.prefab.Node(index); ok {
		if data, ok := node.TakeData(); ok {
			data.Apply(e)
		}
	}
	marker := s.marker
	marker.Index = index
	Insert(e, Marker, marker)

	for _, c := range s.children[index] {
		if s.seen[c] {
			s.world.logger.Warn().
				Str("target", "prefab").
				Int("index", c).
				Msg("prefab node visited twice, children map has a cycle")
			continue
		}
		_, hasNode := s.prefab.Node(c)
		if _, ok := s.children[c]; !ok || !hasNode {
			s.prefab.warnMissing(s.world, c)
			continue
		}
		child := s.spawn(c, e.World().Spawn())
		e.UpdateLocation()
		e.AddChild(child)
	}
	return e.ID()
}

// Instantiate validates and prepares p, then spawns it from index 0 into a
// new entity. It fails with ErrInvalidParent on a malformed tree and with
// ErrUnresolved when any payload failed to resolve; nothing is spawned in
// either case. Orphaned nodes are logged and skipped.
func Instantiate[T Data](p *Prefab[T], w *World) (donburi.Entity, error) {
	if err := p.Validate(); err != nil {
		return donburi.Null, eris.Wrap(err, "instantiate")
	}
	if p.Prepare(w) {
		return donburi.Null, eris.Wrap(ErrUnresolved, "instantiate")
	}
	if orphans := p.Orphans(); len(orphans) > 0 {
		w.logger.Warn().
			Str("target", "prefab").
			Ints("orphans", orphans).
			Msg("prefab has nodes unreachable from the root")
	}
	id, ok := p.Spawn(p.ChildrenMap(), 0, w)
	if !ok {
		return donburi.Null, eris.Wrap(ErrIndexNotFound, "instantiate")
	}
	return id, nil
}
