package ui

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/assets"
	"github.com/rs/zerolog"
)

const testFnt = `info face="Test" size=16
common lineHeight=20 base=16 pages=1
char id=65 x=0 y=0 width=10 height=14 xadvance=11 page=0
`

const menuYAML = `
container:
  node: {style: {flex_direction: column}}
  children:
    - text:
        text: {sections: [{text: Menu}], default_font: fonts/ui.fnt}
    - button:
        label: {sections: [{text: Start}], default_font: fonts/ui.fnt}
        callback: {system: start}
    - button:
        callback: {event: settings}
`

// newWorld returns a world with an asset server holding a bitmap font.
func newWorld(t *testing.T) (*prefab.World, *assets.Server, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	w := prefab.NewWorld(prefab.WithLogger(logger))
	s := assets.NewServer(assets.NewFSSource(fstest.MapFS{
		"fonts/ui.fnt": {Data: []byte(testFnt)},
	}), assets.WithLogger(logger))
	assets.Install(w, s)
	return w, s, &buf
}

func parentOf(t *testing.T, p *prefab.Prefab[Data[NoData]], index int) int {
	t.Helper()
	n, ok := p.Node(index)
	if !ok {
		t.Fatalf("no node at %d", index)
	}
	parent, ok := n.Parent()
	if !ok {
		return -1
	}
	return parent
}
