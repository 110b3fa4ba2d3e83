package ui

import (
	"testing"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/components"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textWidget[C any](s string) Widget[C, NoData] {
	return Widget[C, NoData]{Text: &TextWidget[NoData]{Text: components.NewText(s, "fonts/ui.fnt")}}
}

func sectionText(t *testing.T, p *prefab.Prefab[Data[NoData]], index int) string {
	t.Helper()
	n, ok := p.Node(index)
	require.True(t, ok)
	d, ok := n.Data()
	require.True(t, ok)
	require.NotNil(t, d.Text, "node %d has no text", index)
	return d.Text.Sections[0].Text
}

func TestFlattenMenu(t *testing.T) {
	p, err := YAML[NoCustom, NoData]{}.Decode([]byte(menuYAML))
	require.NoError(t, err)

	require.Equal(t, 5, p.Len())
	assert.Equal(t, []int{-1, 0, 0, 2, 0}, []int{
		parentOf(t, p, 0), parentOf(t, p, 1), parentOf(t, p, 2), parentOf(t, p, 3), parentOf(t, p, 4),
	})

	root, _ := p.Node(0)
	d, _ := root.Data()
	require.NotNil(t, d.Node)
	assert.Equal(t, "column", d.Node.Style.FlexDirection)
	assert.Nil(t, d.Text)

	assert.Equal(t, "Menu", sectionText(t, p, 1))
	assert.Equal(t, "Start", sectionText(t, p, 3))

	button, _ := p.Node(2)
	d, _ = button.Data()
	require.NotNil(t, d.Button)
	require.NotNil(t, d.Callback)
	assert.Equal(t, "start", d.Callback.System)
	assert.Equal(t, components.White, d.Button.BackgroundColor)

	label, _ := p.Node(3)
	d, _ = label.Data()
	assert.Nil(t, d.Node, "labels carry only text")
}

func TestFlattenJSON(t *testing.T) {
	p, err := JSON[NoCustom, NoData]{}.Decode([]byte(`{
		"container": {"children": [
			{"image": {"image": {"texture": "a.png"}}},
			{"container": {"children": [{"text": {"text": {"sections": [{"text": "x"}]}}}]}}
		]}
	}`))
	require.NoError(t, err)
	require.Equal(t, 4, p.Len())
	assert.Equal(t, 2, parentOf(t, p, 3))

	img, _ := p.Node(1)
	d, _ := img.Data()
	require.NotNil(t, d.Image)
	assert.Equal(t, "a.png", d.Image.Texture.Path())
	assert.Equal(t, components.White, d.Image.BackgroundColor)
}

func TestFlattenDecodeError(t *testing.T) {
	_, err := YAML[NoCustom, NoData]{}.Decode([]byte("container: ["))
	require.Error(t, err)
	assert.True(t, eris.Is(err, prefab.ErrDecode))
}

func TestFlattenInvalidWidget(t *testing.T) {
	w := textWidget[NoCustom]("a")
	w.Image = &ImageWidget[NoData]{}
	_, err := FromWidget(w)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidWidget))

	_, err = FromWidget(Widget[NoCustom, NoData]{})
	assert.True(t, eris.Is(err, ErrInvalidWidget))
}

func TestFlattenNoCustom(t *testing.T) {
	_, err := YAML[NoCustom, NoData]{}.Decode([]byte("custom: {}"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrExpand))
}

func TestFlattenIndexOutOfRange(t *testing.T) {
	p := prefab.New[Data[NoData]]()
	err := Flatten(textWidget[NoCustom]("a"), 3, p)
	require.Error(t, err)
	assert.True(t, eris.Is(err, prefab.ErrIndexNotFound))
}

func TestWidgetKindAndValidate(t *testing.T) {
	assert.Equal(t, KindText, textWidget[NoCustom]("a").Kind())
	assert.Equal(t, Kind(""), Widget[NoCustom, NoData]{}.Kind())

	w := Widget[NoCustom, NoData]{Container: &ContainerWidget[NoCustom, NoData]{
		Children: []Widget[NoCustom, NoData]{textWidget[NoCustom]("a"), {}},
	}}
	assert.Equal(t, KindContainer, w.Kind())
	err := w.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidWidget))
	assert.Contains(t, err.Error(), "child 1")
}

func TestWidgetClone(t *testing.T) {
	w := Widget[NoCustom, NoData]{Container: &ContainerWidget[NoCustom, NoData]{
		Children: []Widget[NoCustom, NoData]{textWidget[NoCustom]("a")},
	}}
	c := w.Clone()
	c.Container.Children[0].Text.Text.Sections[0].Text = "b"
	c.Container.Children = append(c.Container.Children, textWidget[NoCustom]("x"))

	assert.Equal(t, "a", w.Container.Children[0].Text.Text.Sections[0].Text)
	assert.Len(t, w.Container.Children, 1)
}

func TestRepeat(t *testing.T) {
	p, err := YAML[Standard, NoData]{}.Decode([]byte(`
custom:
  repeat:
    node: {style: {flex_direction: row}}
    times: 3
    template:
      text: {text: {sections: [{text: Item}, {text: "!"}]}}
`))
	require.NoError(t, err)
	require.Equal(t, 4, p.Len())

	root, _ := p.Node(0)
	d, _ := root.Data()
	require.NotNil(t, d.Node)
	assert.Equal(t, "row", d.Node.Style.FlexDirection)

	assert.Equal(t, "Item 1", sectionText(t, p, 1))
	assert.Equal(t, "Item 2", sectionText(t, p, 2))
	assert.Equal(t, "Item 3", sectionText(t, p, 3))

	n, _ := p.Node(3)
	d, _ = n.Data()
	assert.Equal(t, "!", d.Text.Sections[1].Text, "only the first section is numbered")
}

func TestRepeatStartAndNesting(t *testing.T) {
	start := 0
	inner := Repeat[Standard, NoData]{Template: textWidget[Standard]("Cell"), Times: 2}
	outer := Standard{Repeat: &Repeat[Standard, NoData]{
		Template: Widget[Standard, NoData]{Custom: &Standard{Repeat: &inner}},
		Times:    2,
		Start:    &start,
	}}

	p, err := FromWidget(Widget[Standard, NoData]{Custom: &outer})
	require.NoError(t, err)
	// root, row 0, two cells, row 1, two cells
	require.Equal(t, 7, p.Len())
	assert.Equal(t, "Cell 1", sectionText(t, p, 2))
	assert.Equal(t, "Cell 2", sectionText(t, p, 3))
	assert.Equal(t, 4, parentOf(t, p, 5))
	assert.Equal(t, "Cell 2", sectionText(t, p, 6))

	assert.Equal(t, "Cell", inner.Template.Text.Text.Sections[0].Text, "template is not mutated")
}

func TestRepeatNumbersButtonLabels(t *testing.T) {
	start := 5
	r := Repeat[NoCustom, NoData]{
		Template: Widget[NoCustom, NoData]{Button: &ButtonWidget[NoData]{
			Label: func() *components.TextPrefab { l := components.NewText("Slot", ""); return &l }(),
		}},
		Times: 2,
		Start: &start,
	}
	w, err := r.Expand()
	require.NoError(t, err)
	require.Len(t, w.Container.Children, 2)
	assert.Equal(t, "Slot 5", w.Container.Children[0].Button.Label.Sections[0].Text)
	assert.Equal(t, "Slot 6", w.Container.Children[1].Button.Label.Sections[0].Text)

	r.Times = -1
	_, err = r.Expand()
	assert.Error(t, err)
}

func TestStandardWithoutExpander(t *testing.T) {
	_, err := FromWidget(StandardWidget{Custom: &Standard{}})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrExpand))
	assert.Contains(t, err.Error(), "custom widget has no expander set")
}

func TestRepeatErrorKeepsCause(t *testing.T) {
	w := StandardWidget{Custom: &Standard{Repeat: &Repeat[Standard, NoData]{
		Template: textWidget[Standard]("Item"),
		Times:    -2,
	}}}
	_, err := FromWidget(w)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrExpand))
	assert.Contains(t, err.Error(), "got -2")
}
