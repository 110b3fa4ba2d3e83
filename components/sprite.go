package components

import (
	"github.com/goccy/go-json"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/assets"
	"github.com/yohamta/donburi"
	"gopkg.in/yaml.v3"
)

// SpriteData is a textured quad.
type SpriteData struct {
	Texture assets.Handle[*ebiten.Image]
	// Atlas and Region select a sub-image; both are empty for a plain texture.
	Atlas      assets.Handle[*assets.Atlas]
	Region     string
	Color      Color
	FlipX      bool
	FlipY      bool
	CustomSize *Vec2
	Anchor     Anchor
	Visibility Visibility
}

// Sprite is the live sprite component.
var Sprite = donburi.NewComponentType[SpriteData]()

// Image returns the image to draw once its assets have loaded.
func (s *SpriteData) Image() (*ebiten.Image, bool) {
	if s.Region != "" {
		a, ok := s.Atlas.Get()
		if !ok {
			return nil, false
		}
		return a.SubImage(s.Region)
	}
	return s.Texture.Get()
}

// SpritePrefab describes a sprite bundle: the sprite, its transform and
// visibility.
//
//	texture: sprites/hero.png
//	color: "#ff8800"
//	anchor: bottom_center
//	transform: {translation: {x: 10, y: 0}}
type SpritePrefab struct {
	Texture    assets.Ref[*ebiten.Image]  `yaml:"texture" json:"texture"`
	Atlas      assets.Ref[*assets.Atlas]  `yaml:"atlas" json:"atlas"`
	Region     string                     `yaml:"region" json:"region"`
	Color      Color                      `yaml:"color" json:"color"`
	FlipX      bool                       `yaml:"flip_x" json:"flip_x"`
	FlipY      bool                       `yaml:"flip_y" json:"flip_y"`
	CustomSize *Vec2                      `yaml:"custom_size" json:"custom_size"`
	Anchor     Anchor                     `yaml:"anchor" json:"anchor"`
	Transform  TransformPrefab            `yaml:"transform" json:"transform"`
	Visibility Visibility                 `yaml:"visibility" json:"visibility"`
}

// DefaultSprite returns a white, centered sprite with an identity transform.
func DefaultSprite() SpritePrefab {
	return SpritePrefab{
		Color:     White,
		Transform: DefaultTransform(),
	}
}

// Resolve requests the texture and the atlas.
func (s *SpritePrefab) Resolve(w *prefab.World) bool {
	failed := s.Texture.Resolve(w)
	if s.Region != "" || s.Atlas.Path() != "" {
		failed = s.Atlas.Resolve(w) || failed
	}
	return failed
}

// Apply inserts Sprite and Transform. Nothing is inserted while the texture
// is still pending.
func (s SpritePrefab) Apply(e *prefab.EntityMut) {
	tex, ok := s.Texture.Handle()
	if !ok {
		e.World().Logger().Warn().
			Str("target", "components").
			Str("path", s.Texture.Path()).
			Msg("asset not yet loaded")
		return
	}
	atlas, _ := s.Atlas.Handle()
	prefab.Insert(e, Sprite, SpriteData{
		Texture:    tex,
		Atlas:      atlas,
		Region:     s.Region,
		Color:      s.Color,
		FlipX:      s.FlipX,
		FlipY:      s.FlipY,
		CustomSize: s.CustomSize,
		Anchor:     s.Anchor,
		Visibility: s.Visibility,
	})
	s.Transform.Apply(e)
}

// Clone returns a copy that shares no pointers with s.
func (s SpritePrefab) Clone() SpritePrefab {
	if s.CustomSize != nil {
		size := *s.CustomSize
		s.CustomSize = &size
	}
	return s
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SpritePrefab) UnmarshalYAML(node *yaml.Node) error {
	type plain SpritePrefab
	v := plain(DefaultSprite())
	if err := node.Decode(&v); err != nil {
		return err
	}
	*s = SpritePrefab(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *SpritePrefab) UnmarshalJSON(data []byte) error {
	type plain SpritePrefab
	v := plain(DefaultSprite())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = SpritePrefab(v)
	return nil
}
