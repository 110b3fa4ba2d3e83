package assets

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/goccy/go-json"
	"github.com/phanxgames/prefab"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newWorld(t *testing.T) (*prefab.World, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return prefab.NewWorld(prefab.WithLogger(zerolog.New(&buf))), &buf
}

func TestRefResolve(t *testing.T) {
	w, logs := newWorld(t)
	s := newTextServer(fstest.MapFS{"a.txt": {Data: []byte("a")}})
	Install(w, s)

	r := NewRef[string]("a.txt")
	_, ok := r.Handle()
	assert.False(t, ok, "pending reference has no handle")

	assert.False(t, r.Resolve(w))
	h, ok := r.Handle()
	require.True(t, ok)
	assert.Equal(t, Loading, h.State())

	require.NoError(t, s.Flush(context.Background()))
	v, ok := h.Get()
	require.True(t, ok)
	assert.Equal(t, "A", v)

	assert.True(t, r.Resolve(w), "second resolve is misuse")
	assert.Contains(t, logs.String(), "already loaded")
}

func TestRefEmptyPathIsDefaultHandle(t *testing.T) {
	w, _ := newWorld(t)
	s := newTextServer(fstest.MapFS{})
	Install(w, s)

	var r Ref[string]
	assert.False(t, r.Resolve(w))
	h, ok := r.Handle()
	require.True(t, ok)
	assert.True(t, h.IsZero())
	assert.Equal(t, 0, s.Len())
}

func TestRefWithoutServer(t *testing.T) {
	w, logs := newWorld(t)
	r := NewRef[string]("a.txt")

	assert.True(t, r.Resolve(w))
	assert.False(t, r.Resolved())
	assert.Contains(t, logs.String(), "asset server is not installed")
	assert.Contains(t, logs.String(), `"level":"error"`)
}

func TestHandleTypeMismatch(t *testing.T) {
	var buf bytes.Buffer
	s := newTextServer(fstest.MapFS{"a.txt": {Data: []byte("a")}}, WithLogger(zerolog.New(&buf)))

	h := Load[int](s, "a.txt")
	require.NoError(t, s.Flush(context.Background()))

	_, ok := h.Get()
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "different type")
}

func TestRefDecode(t *testing.T) {
	var doc struct {
		Texture Ref[string] `yaml:"texture" json:"texture"`
		Font    Ref[string] `yaml:"font" json:"font"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("texture: hero.png\n"), &doc))
	assert.Equal(t, "hero.png", doc.Texture.Path())
	assert.False(t, doc.Texture.Resolved())
	assert.Equal(t, "", doc.Font.Path())

	require.NoError(t, json.Unmarshal([]byte(`{"texture":"villain.png"}`), &doc))
	assert.Equal(t, "villain.png", doc.Texture.Path())

	out, err := json.Marshal(doc.Texture)
	require.NoError(t, err)
	assert.JSONEq(t, `"villain.png"`, string(out))

	assert.Error(t, yaml.Unmarshal([]byte("texture: [1, 2]\n"), &doc))
}

func TestRefOf(t *testing.T) {
	s := newTextServer(fstest.MapFS{})
	r := RefOf(Load[string](s, "x.txt"))
	assert.True(t, r.Resolved())
	assert.Equal(t, "x.txt", r.Path())
}

func TestRefIsPrefabResolver(t *testing.T) {
	var _ prefab.Resolver = (*Ref[string])(nil)
}
