package prefab

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnPrefabDeferred(t *testing.T) {
	w, _ := newTestWorld(t)
	c := NewCommands(w)

	p := New[value]()
	p.Add(0, value{N: 1})
	p.Add(0, value{N: 2})

	root := SpawnPrefab(c, p, value{N: 100})
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 1, c.Len())

	c.Apply()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, 100, valueOf(t, w, root))
	assert.Len(t, ChildrenOf(w, root), 2)
}

func TestPrepareAndSpawnPrefabFailure(t *testing.T) {
	w, logs := newTestWorld(t)
	c := NewCommands(w)

	p := FromData(ref{Path: "a"})
	p.Add(0, ref{Fail: true})

	root := PrepareAndSpawnPrefab(c, p)
	c.Apply()

	assert.Equal(t, 1, w.Len())
	assert.Empty(t, ChildrenOf(w, root))
	assert.Contains(t, logs.String(), "not all the prefab assets were loaded")
}

func TestPrepareAndSpawnPrefab(t *testing.T) {
	w, _ := newTestWorld(t)
	c := NewCommands(w)

	p := FromData(ref{Path: "abc"})
	p.Add(0, ref{Path: "de"})

	root := PrepareAndSpawnPrefab(c, p)
	c.Apply()

	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 3, valueOf(t, w, root))
}

func TestPreparePrefabPublishesLoaded(t *testing.T) {
	w, _ := newTestWorld(t)
	plugin := Install[ref](w)
	assert.Same(t, plugin, Install[ref](w))

	var got []Loaded[ref]
	plugin.OnLoaded(w, func(_ *World, ev Loaded[ref]) {
		got = append(got, ev)
	})

	c := NewCommands(w)
	ok := FromData(ref{Path: "a"})
	bad := FromData(ref{Fail: true})
	PreparePrefab(c, ok)
	PreparePrefab(c, bad)
	c.Apply()
	plugin.ProcessEvents(w)

	require.Len(t, got, 2)
	assert.Same(t, ok, got[0].Prefab)
	assert.False(t, got[0].Failed)
	assert.True(t, got[1].Failed)
	assert.Equal(t, 0, w.Len())
}

func TestPreparePrefabNotInstalled(t *testing.T) {
	w, logs := newTestWorld(t)
	c := NewCommands(w)
	PreparePrefab(c, FromData(ref{Path: "a"}))
	c.Apply()

	assert.Contains(t, logs.String(), "not installed")
	assert.Contains(t, logs.String(), `"level":"error"`)
}

func TestCommandsApplyRunsNestedCommands(t *testing.T) {
	w, _ := newTestWorld(t)
	c := NewCommands(w)

	var order []int
	c.Add(CommandFunc(func(*World) {
		order = append(order, 1)
		c.Add(CommandFunc(func(*World) { order = append(order, 3) }))
	}))
	c.Add(CommandFunc(func(*World) { order = append(order, 2) }))
	c.Apply()

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestLoadPrefabCommands(t *testing.T) {
	w, logs := newTestWorld(t)
	c := NewCommands(w)
	fsys := fstest.MapFS{"tree.yaml": {Data: []byte(twoBranches)}}

	pc := LoadPrefab[value](c, fsys, YAML[value]{}, "tree.yaml")
	assert.Equal(t, 5, pc.Prefab().Len())
	extra := pc.Add(0, value{N: 5})
	n, ok := pc.Node(extra)
	require.True(t, ok)
	parent, _ := n.Parent()
	assert.Equal(t, 0, parent)

	root := pc.Spawn()
	pc.Commands().Apply()
	assert.Equal(t, 6, w.Len())
	assert.Len(t, ChildrenOf(w, root), 3)

	missing := LoadPrefab[value](c, fsys, YAML[value]{}, "nope.yaml")
	assert.Equal(t, 1, missing.Prefab().Len())
	assert.Contains(t, logs.String(), "prefab error")
}
