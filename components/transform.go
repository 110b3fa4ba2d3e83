package components

import (
	"github.com/goccy/go-json"
	"github.com/phanxgames/prefab"
	"github.com/yohamta/donburi"
	"gopkg.in/yaml.v3"
)

// TransformData is an entity's local 2D transform.
type TransformData struct {
	X, Y     float64
	Z        float64 // draw order among siblings
	Rotation float64 // radians, clockwise
	ScaleX   float64
	ScaleY   float64
}

// Transform is the live transform component.
var Transform = donburi.NewComponentType[TransformData]()

// IdentityTransform has unit scale and no translation or rotation.
var IdentityTransform = TransformData{ScaleX: 1, ScaleY: 1}

// TransformPrefab describes a transform. A missing scale is 1.
//
//	transform:
//	  translation: {x: 10, y: 20}
//	  rotation: 0.5
//	  scale: {x: 2, y: 2}
type TransformPrefab struct {
	Translation Vec2    `yaml:"translation" json:"translation"`
	Z           float64 `yaml:"z" json:"z"`
	Rotation    float64 `yaml:"rotation" json:"rotation"`
	Scale       Vec2    `yaml:"scale" json:"scale"`
}

// DefaultTransform returns the identity transform prefab.
func DefaultTransform() TransformPrefab {
	return TransformPrefab{Scale: Vec2{1, 1}}
}

// Data converts the prefab to its live value.
func (t TransformPrefab) Data() TransformData {
	return TransformData{
		X:        t.Translation.X,
		Y:        t.Translation.Y,
		Z:        t.Z,
		Rotation: t.Rotation,
		ScaleX:   t.Scale.X,
		ScaleY:   t.Scale.Y,
	}
}

// Apply inserts the Transform component.
func (t TransformPrefab) Apply(e *prefab.EntityMut) {
	prefab.Insert(e, Transform, t.Data())
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TransformPrefab) UnmarshalYAML(node *yaml.Node) error {
	type plain TransformPrefab
	v := plain(DefaultTransform())
	if err := node.Decode(&v); err != nil {
		return err
	}
	*t = TransformPrefab(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TransformPrefab) UnmarshalJSON(data []byte) error {
	type plain TransformPrefab
	v := plain(DefaultTransform())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = TransformPrefab(v)
	return nil
}
