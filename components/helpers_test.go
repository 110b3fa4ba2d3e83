package components

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/assets"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testFnt = `info face="Test" size=16
common lineHeight=20 base=16 pages=1
page id=0 file="test_0.png"
char id=65 x=0 y=0 width=10 height=14 xadvance=11 page=0
char id=66 x=10 y=0 width=9 height=14 xadvance=10 page=0
char id=32 x=0 y=0 width=0 height=0 xadvance=5 page=0
`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// newWorld returns a world with an asset server over a small fixture tree.
func newWorld(t *testing.T) (*prefab.World, *assets.Server, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	w := prefab.NewWorld(prefab.WithLogger(logger))
	s := assets.NewServer(assets.NewFSSource(fstest.MapFS{
		"hero.png":       {Data: pngBytes(t, 4, 6)},
		"button.png":     {Data: pngBytes(t, 8, 2)},
		"fonts/test.fnt": {Data: []byte(testFnt)},
		"fonts/alt.fnt":  {Data: []byte(testFnt)},
	}), assets.WithLogger(logger))
	assets.Install(w, s)
	return w, s, &buf
}
