package assets

import (
	"github.com/goccy/go-json"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
)

// Region is a named sub-rectangle of an atlas page.
type Region struct {
	Page      int
	X, Y      int
	Width     int
	Height    int
	OriginalW int // untrimmed width as authored
	OriginalH int
	OffsetX   int // trim offset
	OffsetY   int
	Rotated   bool // stored 90 degrees clockwise
}

// Atlas is a loaded TexturePacker atlas.
type Atlas struct {
	// Pages holds the page images by page number.
	Pages   []*ebiten.Image
	regions map[string]Region
}

// Region returns the region called name.
func (a *Atlas) Region(name string) (Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// SubImage returns the page image clipped to the region called name.
func (a *Atlas) SubImage(name string) (*ebiten.Image, bool) {
	r, ok := a.regions[name]
	if !ok || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil, false
	}
	w, h := r.Width, r.Height
	if r.Rotated {
		w, h = h, w
	}
	rect := a.Pages[r.Page].Bounds()
	rect.Min.X += r.X
	rect.Min.Y += r.Y
	rect.Max.X = rect.Min.X + w
	rect.Max.Y = rect.Min.Y + h
	return a.Pages[r.Page].SubImage(rect).(*ebiten.Image), true
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceSize"`
}

type jsonPage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

type jsonAtlas struct {
	Frames   map[string]jsonFrame `json:"frames"`
	Textures []jsonPage           `json:"textures"`
	Meta     struct {
		Image string `json:"image"`
	} `json:"meta"`
}

// ParseAtlas parses TexturePacker JSON in either the hash format (a single
// "frames" object with "meta.image") or the multi-page array format
// ("textures"). It returns the regions and the page image names.
func ParseAtlas(data []byte) (map[string]Region, []string, error) {
	var doc jsonAtlas
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, eris.Wrap(err, "parse atlas JSON")
	}
	regions := make(map[string]Region)
	var pages []string
	switch {
	case doc.Textures != nil:
		for i, tex := range doc.Textures {
			pages = append(pages, tex.Image)
			for name, f := range tex.Frames {
				regions[name] = f.region(i)
			}
		}
	case doc.Frames != nil:
		if doc.Meta.Image != "" {
			pages = append(pages, doc.Meta.Image)
		}
		for name, f := range doc.Frames {
			regions[name] = f.region(0)
		}
	default:
		return nil, nil, eris.New(`atlas JSON has neither "frames" nor "textures"`)
	}
	return regions, pages, nil
}

func (f jsonFrame) region(page int) Region {
	return Region{
		Page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}
}

// AtlasLoader decodes .atlas.json files. Page images are loaded relative to
// the atlas file through the server's image loaders.
var AtlasLoader = LoaderFunc(func(lc *LoadContext, data []byte) (any, error) {
	regions, pages, err := ParseAtlas(data)
	if err != nil {
		return nil, eris.Wrapf(err, "atlas %q", lc.Path())
	}
	a := &Atlas{regions: regions, Pages: make([]*ebiten.Image, len(pages))}
	for i, name := range pages {
		v, err := lc.LoadSibling(name)
		if err != nil {
			return nil, eris.Wrapf(err, "atlas %q page %d", lc.Path(), i)
		}
		img, ok := v.(*ebiten.Image)
		if !ok {
			return nil, eris.Wrapf(ErrAssetType, "atlas %q page %q is %T", lc.Path(), name, v)
		}
		a.Pages[i] = img
	}
	return a, nil
})
