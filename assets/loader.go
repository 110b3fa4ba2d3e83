package assets

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// LoadContext is handed to a Loader for one asset.
type LoadContext struct {
	ctx    context.Context
	path   string
	server *Server
}

// Context returns the context the load runs under.
func (lc *LoadContext) Context() context.Context {
	return lc.ctx
}

// Path returns the path of the asset being loaded.
func (lc *LoadContext) Path() string {
	return lc.path
}

// ReadSibling reads name relative to the directory of the asset being
// loaded, through the same Source.
func (lc *LoadContext) ReadSibling(name string) ([]byte, error) {
	return lc.server.src.Read(lc.ctx, path.Join(path.Dir(lc.path), name))
}

// LoadSibling decodes name, relative to the asset being loaded, with the
// loader registered for its extension. The result is not cached on the
// server.
func (lc *LoadContext) LoadSibling(name string) (any, error) {
	p := path.Join(path.Dir(lc.path), name)
	l, _, ok := lc.server.loaderFor(p)
	if !ok {
		return nil, eris.Wrapf(ErrNoLoader, "%q", p)
	}
	data, err := lc.server.src.Read(lc.ctx, p)
	if err != nil {
		return nil, err
	}
	return l.Load(&LoadContext{ctx: lc.ctx, path: p, server: lc.server}, data)
}

// Loader decodes raw bytes into an asset value.
type Loader interface {
	Load(lc *LoadContext, data []byte) (any, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(lc *LoadContext, data []byte) (any, error)

// Load calls f(lc, data).
func (f LoaderFunc) Load(lc *LoadContext, data []byte) (any, error) {
	return f(lc, data)
}

// ImageLoader decodes png, jpeg, gif, bmp and webp data into an
// *ebiten.Image.
var ImageLoader = LoaderFunc(func(lc *LoadContext, data []byte) (any, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "decode image %q", lc.Path())
	}
	return ebiten.NewImageFromImage(img), nil
})

// RawLoader returns the bytes unchanged.
var RawLoader = LoaderFunc(func(_ *LoadContext, data []byte) (any, error) {
	return data, nil
})

func registerDefaults(s *Server) {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"} {
		s.RegisterLoader(ext, ImageLoader)
	}
	s.RegisterLoader(".ttf", FontLoader)
	s.RegisterLoader(".otf", FontLoader)
	s.RegisterLoader(".fnt", FontLoader)
	s.RegisterLoader(".atlas.json", AtlasLoader)
}
