package ui

import (
	"testing"

	"github.com/phanxgames/prefab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbacksTable(t *testing.T) {
	c := NewCallbacks()
	calls := 0
	first := func(*prefab.World) { calls++ }

	assert.Nil(t, c.Register("a", first))
	assert.NotNil(t, c.Register("a", func(*prefab.World) {}))
	assert.Equal(t, 1, c.Len())

	_, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.NotNil(t, c.Remove("a"))
	_, ok = c.Lookup("a")
	assert.False(t, ok)
	assert.Nil(t, c.Remove("a"))
}

func TestCallbackResolveWithoutTable(t *testing.T) {
	w, _, logs := newWorld(t)

	cb := Callback{System: "start"}
	assert.True(t, cb.Resolve(w))
	assert.Contains(t, logs.String(), "Callbacks resource is not installed")
}

func TestCallbackResolve(t *testing.T) {
	w, _, logs := newWorld(t)
	Install[NoData](w)
	callbacks, ok := CallbacksOf(w)
	require.True(t, ok)
	callbacks.Register("start", func(*prefab.World) {})

	cb := Callback{System: "start"}
	assert.False(t, cb.Resolve(w))
	assert.True(t, cb.Loaded())

	assert.True(t, cb.Resolve(w), "resolving twice is misuse")
	assert.Contains(t, logs.String(), "already loaded callback")

	missing := Callback{System: "quit"}
	assert.True(t, missing.Resolve(w))
	assert.Contains(t, logs.String(), "tried to get system")

	event := Callback{Event: "open"}
	assert.False(t, event.Resolve(w))
}

func TestCallbackApply(t *testing.T) {
	w, _, logs := newWorld(t)

	e := w.Spawn()
	Callback{System: "start"}.Apply(e)
	assert.False(t, prefab.Has(e, ButtonCallback))
	assert.Contains(t, logs.String(), "unloaded callback")

	Callback{Event: "open"}.Apply(e)
	cb, ok := prefab.Get(e, ButtonCallback)
	require.True(t, ok)
	assert.Equal(t, "open", cb.Name)
	assert.Nil(t, cb.System)
}

func TestEmptyCallbackIsSkipped(t *testing.T) {
	w, _, logs := newWorld(t)
	Install[NoData](w)

	cb := Callback{}
	assert.False(t, cb.Resolve(w))
	e := w.Spawn()
	cb.Apply(e)
	assert.False(t, prefab.Has(e, ButtonCallback))
	assert.Empty(t, logs.String())
}

func TestInstallKeepsExistingTable(t *testing.T) {
	w, _, _ := newWorld(t)
	table := NewCallbacks()
	table.Register("x", func(*prefab.World) {})
	prefab.InsertResource(w, table)

	p1 := Install[NoData](w)
	p2 := Install[NoData](w)
	assert.Same(t, p1, p2)

	got, ok := CallbacksOf(w)
	require.True(t, ok)
	assert.Same(t, table, got)
}
