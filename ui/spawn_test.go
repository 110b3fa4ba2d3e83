package ui

import (
	"testing"
	"testing/fstest"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func TestInstantiateMenu(t *testing.T) {
	w, _, _ := newWorld(t)
	Install[NoData](w)
	callbacks, _ := CallbacksOf(w)
	started := 0
	callbacks.Register("start", func(*prefab.World) { started++ })

	var pressed []PressedButton
	OnPressed(w, func(_ *prefab.World, ev PressedButton) {
		pressed = append(pressed, ev)
	})

	p, err := YAML[NoCustom, NoData]{}.Decode([]byte(menuYAML))
	require.NoError(t, err)
	root, err := prefab.Instantiate(p, w)
	require.NoError(t, err)
	assert.Equal(t, 5, w.Len())

	children := prefab.ChildrenOf(w, root)
	require.Len(t, children, 3)
	title, start, settings := children[0], children[1], children[2]

	e, ok := w.Entity(title)
	require.True(t, ok)
	assert.True(t, prefab.Has(e, components.Node))
	text, ok := prefab.Get(e, components.Text)
	require.True(t, ok)
	assert.Equal(t, "Menu", text.String())

	labels := prefab.ChildrenOf(w, start)
	require.Len(t, labels, 1)
	e, _ = w.Entity(labels[0])
	assert.True(t, prefab.Has(e, components.Text))
	assert.False(t, prefab.Has(e, components.Node))

	assert.False(t, Press(w, start, components.InteractionHovered))
	assert.True(t, Press(w, start, components.InteractionPressed))
	assert.Equal(t, 1, started)
	assertInteraction(t, w, start, components.InteractionPressed)

	assert.True(t, Press(w, settings, components.InteractionHovered))
	assert.Empty(t, pressed, "events wait for ProcessEvents")
	ProcessEvents(w)
	require.Len(t, pressed, 1)
	assert.Equal(t, PressedButton{ButtonName: "settings", Entity: settings, Interaction: components.InteractionHovered}, pressed[0])

	assert.False(t, Press(w, title, components.InteractionPressed), "not a button")
	assert.False(t, Press(w, donburi.Null, components.InteractionPressed))
}

func assertInteraction(t *testing.T, w *prefab.World, id donburi.Entity, want components.Interaction) {
	t.Helper()
	e, ok := w.Entity(id)
	require.True(t, ok)
	btn, ok := prefab.Get(e, components.Button)
	require.True(t, ok)
	assert.Equal(t, want, btn.Interaction)
}

func TestInstantiateMissingCallback(t *testing.T) {
	w, _, _ := newWorld(t)
	Install[NoData](w)

	p, err := YAML[NoCustom, NoData]{}.Decode([]byte(menuYAML))
	require.NoError(t, err)
	_, err = prefab.Instantiate(p, w)
	assert.Error(t, err, "start is not registered")
}

func TestLoadUI(t *testing.T) {
	w, _, logs := newWorld(t)
	Install[NoData](w)
	c := prefab.NewCommands(w)

	fsys := fstest.MapFS{
		"ui/list.json": {Data: []byte(`{"custom": {"repeat": {"times": 2,
			"template": {"text": {"text": {"sections": [{"text": "Row"}], "default_font": "fonts/ui.fnt"}}}}}}`)},
	}
	pc := LoadUI[Standard, NoData](c, fsys, "ui/list.json")
	assert.Equal(t, 3, pc.Prefab().Len())

	root := pc.PrepareSpawn()
	c.Apply()
	rows := prefab.ChildrenOf(w, root)
	require.Len(t, rows, 2)
	e, _ := w.Entity(rows[1])
	text, ok := prefab.Get(e, components.Text)
	require.True(t, ok)
	assert.Equal(t, "Row 2", text.String())

	missing := LoadUI[Standard, NoData](c, fsys, "ui/missing.yaml")
	assert.Equal(t, 1, missing.Prefab().Len())
	assert.Contains(t, logs.String(), "prefab error")
}

func TestDataClone(t *testing.T) {
	p, err := YAML[NoCustom, NoData]{}.Decode([]byte(menuYAML))
	require.NoError(t, err)
	c := p.Clone()

	n, _ := c.Node(1)
	n.DataMut().Text.Sections[0].Text = "changed"
	assert.Equal(t, "Menu", sectionText(t, p, 1))
}
