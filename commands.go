package prefab

import (
	"io/fs"

	"github.com/yohamta/donburi"
)

// Command is a deferred world mutation.
type Command interface {
	Apply(w *World)
}

// CommandFunc adapts a function to the Command interface.
type CommandFunc func(w *World)

// Apply calls f(w).
func (f CommandFunc) Apply(w *World) { f(w) }

// Commands queues mutations against a World and applies them later, in the
// order they were added. Entity ids handed out by Spawn are valid right away;
// the prefab contents appear on Apply.
type Commands struct {
	world *World
	queue []Command
}

// NewCommands returns an empty queue bound to w.
func NewCommands(w *World) *Commands {
	return &Commands{world: w}
}

// World returns the world the commands apply to.
func (c *Commands) World() *World {
	return c.world
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Add queues cmd.
func (c *Commands) Add(cmd Command) {
	c.queue = append(c.queue, cmd)
}

// Spawn creates an entity now and applies bundle to it.
func (c *Commands) Spawn(bundle ...Data) donburi.Entity {
	e := c.world.Spawn()
	Bundle(bundle).Apply(e)
	return e.ID()
}

// Apply runs every queued command. Commands added while applying run in the
// same call, after the ones already queued.
func (c *Commands) Apply() {
	for len(c.queue) > 0 {
		cmd := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		cmd.Apply(c.world)
	}
	c.queue = nil
}

// SpawnPrefab creates a root entity carrying bundle and queues p to be
// spawned onto it without resolving.
func SpawnPrefab[T Data](c *Commands, p *Prefab[T], bundle ...Data) donburi.Entity {
	root := c.Spawn(bundle...)
	c.Add(&spawnPrefab[T]{prefab: p, root: root})
	return root
}

// PrepareAndSpawnPrefab creates a root entity carrying bundle and queues p
// to be resolved and spawned onto it. When resolution fails the prefab is
// not spawned and a warning is logged; the root entity keeps only bundle.
func PrepareAndSpawnPrefab[T Data](c *Commands, p *Prefab[T], bundle ...Data) donburi.Entity {
	root := c.Spawn(bundle...)
	c.Add(&spawnPrefab[T]{prefab: p, root: root, prepare: true})
	return root
}

// PreparePrefab queues p to be resolved and handed back through a Loaded[T]
// event. Install[T] must have been called on the world.
func PreparePrefab[T Data](c *Commands, p *Prefab[T]) {
	c.Add(&preparePrefab[T]{prefab: p})
}

type spawnPrefab[T Data] struct {
	prefab  *Prefab[T]
	root    donburi.Entity
	prepare bool
}

func (s *spawnPrefab[T]) Apply(w *World) {
	if s.prepare && s.prefab.Prepare(w) {
		w.logger.Warn().
			Str("target", "prefab").
			Msg("not all the prefab assets were loaded")
		return
	}
	if !w.ecs.Valid(s.root) {
		w.logger.Warn().
			Str("target", "prefab").
			Msgf("root entity %v was removed before the prefab spawned", s.root)
		return
	}
	s.prefab.SpawnWithRoot(s.prefab.ChildrenMap(), 0, w, s.root)
}

type preparePrefab[T Data] struct {
	prefab *Prefab[T]
}

func (s *preparePrefab[T]) Apply(w *World) {
	failed := s.prefab.Prepare(w)
	plugin, ok := Resource[*Plugin[T]](w)
	if !ok {
		w.logger.Error().
			Str("target", "prefab").
			Msg("loaded prefab event is not installed; call prefab.Install first")
		return
	}
	plugin.publish(w, Loaded[T]{Prefab: s.prefab, Failed: failed})
}

// PrefabCommands pairs a prefab under construction with the queue it will be
// spawned through.
type PrefabCommands[T Data] struct {
	prefab   *Prefab[T]
	commands *Commands
}

// IntoCommands wraps an existing prefab.
func IntoCommands[T Data](c *Commands, p *Prefab[T]) *PrefabCommands[T] {
	return &PrefabCommands[T]{prefab: p, commands: c}
}

// LoadPrefab loads name from fsys with f. A load error is logged and an
// empty prefab is used in its place.
func LoadPrefab[T Data](c *Commands, fsys fs.FS, f Format[T], name string) *PrefabCommands[T] {
	p, err := LoadFile(fsys, f, name)
	if err != nil {
		c.world.logger.Error().
			Str("target", "prefab").
			Err(err).
			Msg("prefab error")
		p = New[T]()
	}
	return IntoCommands(c, p)
}

// Node returns the node at index.
func (pc *PrefabCommands[T]) Node(index int) (*Node[T], bool) {
	return pc.prefab.Node(index)
}

// Add appends a child of parent.
func (pc *PrefabCommands[T]) Add(parent int, data T) int {
	return pc.prefab.Add(parent, data)
}

// Spawn queues the prefab for spawning without resolving.
func (pc *PrefabCommands[T]) Spawn(bundle ...Data) donburi.Entity {
	return SpawnPrefab(pc.commands, pc.prefab, bundle...)
}

// PrepareSpawn queues the prefab for resolving and spawning.
func (pc *PrefabCommands[T]) PrepareSpawn(bundle ...Data) donburi.Entity {
	return PrepareAndSpawnPrefab(pc.commands, pc.prefab, bundle...)
}

// Prepare queues the prefab for resolving; it comes back as a Loaded[T].
func (pc *PrefabCommands[T]) Prepare() {
	PreparePrefab(pc.commands, pc.prefab)
}

// Commands returns the underlying queue.
func (pc *PrefabCommands[T]) Commands() *Commands {
	return pc.commands
}

// Prefab returns the prefab.
func (pc *PrefabCommands[T]) Prefab() *Prefab[T] {
	return pc.prefab
}
