// Package prefab loads data-driven entity trees and materializes them into a
// [Donburi] world.
//
// A prefab is a flat, append-only tree of nodes. Each node optionally carries
// a payload of type T and the index of its parent. Payloads are [Data]
// values: they know how to attach themselves to a live entity, and, when they
// implement [Resolver], how to turn pending references to external resources
// (fonts, images, callbacks) into resolved handles.
//
// # Quick start
//
// Build a prefab in code, or decode one with a [Format]:
//
//	p := prefab.New[prefab.Bundle]()
//	child := p.Add(0, prefab.Bundle{prefab.NewComponent(Health, HealthData{100})})
//	p.Add(child, nil)
//
//	w := prefab.NewWorld()
//	root, err := prefab.Instantiate(p, w)
//
// [Instantiate] runs both phases: [Prefab.Prepare] resolves every payload
// once against the world's registered resources, then [Prefab.Spawn] walks the
// tree from index 0 and creates one entity per reachable node, linked with the
// [Parent] and [Children] components.
//
// # Entity locations
//
// An [EntityMut] pairs a stable [donburi.Entity] with a cached entry that is
// only valid until the world next grows. Every spawn and every archetype
// change advances the world's epoch; touching an [EntityMut] from an earlier
// epoch panics. Call [EntityMut.UpdateLocation] after handing the world to
// other code through [EntityMut.World].
//
// # Deferred spawning
//
// [Commands] queues spawn and prepare operations to run later in a frame, in
// the same order they were added. [PreparePrefab] publishes a [Loaded] event
// once the resolution pass has run; install the event type with [Install].
//
// The assets, components, and ui subpackages provide an asset server, a set of
// UI and sprite payloads, and a widget description format built on top of this
// package.
//
// [Donburi]: https://github.com/yohamta/donburi
package prefab
