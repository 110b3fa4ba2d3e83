package prefab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func TestStaleLocationPanics(t *testing.T) {
	w, _ := newTestWorld(t)
	first := w.Spawn()
	w.Spawn()

	assert.True(t, first.Stale())
	assert.Panics(t, func() { first.Entry() })

	first.UpdateLocation()
	assert.False(t, first.Stale())
	assert.NotPanics(t, func() { first.Entry() })
}

func TestInsertKeepsHandleFresh(t *testing.T) {
	w, _ := newTestWorld(t)
	e := w.Spawn()
	before := w.Epoch()

	Insert(e, valueComp, valueData{N: 1})
	assert.Greater(t, w.Epoch(), before, "adding a component moves the entity")
	assert.False(t, e.Stale())

	epoch := w.Epoch()
	Insert(e, valueComp, valueData{N: 2})
	assert.Equal(t, epoch, w.Epoch(), "overwriting a component does not")

	v, ok := Get(e, valueComp)
	require.True(t, ok)
	assert.Equal(t, 2, v.N)
}

func TestAddChild(t *testing.T) {
	w, _ := newTestWorld(t)
	parent := w.Spawn()
	a := w.Spawn().ID()
	b := w.Spawn().ID()
	parent.UpdateLocation()

	parent.AddChild(a)
	parent.AddChild(b)

	assert.Equal(t, []donburi.Entity{a, b}, ChildrenOf(w, parent.ID()))
	got, ok := ParentOf(w, a)
	require.True(t, ok)
	assert.Equal(t, parent.ID(), got)
	assert.False(t, parent.Stale())
}

func TestAddChildReparents(t *testing.T) {
	w, _ := newTestWorld(t)
	first := w.Spawn()
	second := w.Spawn()
	child := w.Spawn().ID()

	first.UpdateLocation()
	first.AddChild(child)
	second.UpdateLocation()
	second.AddChild(child)

	assert.Empty(t, ChildrenOf(w, first.ID()))
	assert.Equal(t, []donburi.Entity{child}, ChildrenOf(w, second.ID()))
	got, _ := ParentOf(w, child)
	assert.Equal(t, second.ID(), got)
}

func TestAddChildSelfPanics(t *testing.T) {
	w, _ := newTestWorld(t)
	e := w.Spawn()
	assert.Panics(t, func() { e.AddChild(e.ID()) })
}

func TestResources(t *testing.T) {
	type table struct{ names []string }

	w, _ := newTestWorld(t)
	_, ok := Resource[*table](w)
	assert.False(t, ok)

	InsertResource(w, &table{names: []string{"a"}})
	got, ok := Resource[*table](w)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got.names)

	RemoveResource[*table](w)
	_, ok = Resource[*table](w)
	assert.False(t, ok)
}

func TestEntityLookup(t *testing.T) {
	w, _ := newTestWorld(t)
	id := w.Spawn().ID()

	e, ok := w.Entity(id)
	require.True(t, ok)
	assert.Equal(t, id, e.ID())
	assert.Equal(t, 1, w.Len())
}
