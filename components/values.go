package components

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// --- Color ---

// Color is an RGBA color with components in [0, 1]. Not premultiplied.
//
// It decodes from a sequence ([r, g, b] or [r, g, b, a]), a hex string
// ("#rrggbb" or "#rrggbbaa") or a mapping with r, g, b and optional a keys.
// A missing alpha is 1.
type Color struct {
	R, G, B, A float64
}

var (
	// White is the default tint.
	White = Color{1, 1, 1, 1}
	// Transparent is the default node background.
	Transparent = Color{}
)

// RGBA converts c to an 8-bit premultiplied color.
func (c Color) RGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

func parseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, eris.Errorf("invalid hex color %q", s)
	}
	var ch [4]float64
	ch[3] = 1
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, eris.Errorf("invalid hex color %q", s)
		}
		ch[i] = float64(v) / 255
	}
	return Color{ch[0], ch[1], ch[2], ch[3]}, nil
}

func colorFromSlice(v []float64) (Color, error) {
	switch len(v) {
	case 3:
		return Color{v[0], v[1], v[2], 1}, nil
	case 4:
		return Color{v[0], v[1], v[2], v[3]}, nil
	}
	return Color{}, eris.Errorf("color needs 3 or 4 components, got %d", len(v))
}

type colorMap struct {
	R float64  `yaml:"r" json:"r"`
	G float64  `yaml:"g" json:"g"`
	B float64  `yaml:"b" json:"b"`
	A *float64 `yaml:"a" json:"a"`
}

func (m colorMap) color() Color {
	c := Color{m.R, m.G, m.B, 1}
	if m.A != nil {
		c.A = *m.A
	}
	return c
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var err error
	switch node.Kind {
	case yaml.ScalarNode:
		*c, err = parseHexColor(node.Value)
		return err
	case yaml.SequenceNode:
		var v []float64
		if err := node.Decode(&v); err != nil {
			return eris.Wrap(err, "color")
		}
		*c, err = colorFromSlice(v)
		return err
	case yaml.MappingNode:
		var m colorMap
		if err := node.Decode(&m); err != nil {
			return eris.Wrap(err, "color")
		}
		*c = m.color()
		return nil
	}
	return eris.New("color must be a sequence, a hex string or a mapping")
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Color) UnmarshalJSON(data []byte) error {
	var err error
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "color")
		}
		*c, err = parseHexColor(s)
		return err
	case strings.HasPrefix(trimmed, "["):
		var v []float64
		if err := json.Unmarshal(data, &v); err != nil {
			return eris.Wrap(err, "color")
		}
		*c, err = colorFromSlice(v)
		return err
	case strings.HasPrefix(trimmed, "{"):
		var m colorMap
		if err := json.Unmarshal(data, &m); err != nil {
			return eris.Wrap(err, "color")
		}
		*c = m.color()
		return nil
	}
	return eris.New("color must be an array, a hex string or an object")
}

// --- Vec2 ---

// Vec2 is a 2D vector.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// --- Visibility ---

// Visibility controls whether an entity is drawn.
type Visibility uint8

const (
	// Inherited takes the parent's visibility.
	Inherited Visibility = iota
	Hidden
	Visible
)

var visibilityNames = map[string]Visibility{
	"inherited": Inherited,
	"hidden":    Hidden,
	"visible":   Visible,
}

func (v Visibility) String() string {
	for name, val := range visibilityNames {
		if val == v {
			return name
		}
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	val, ok := visibilityNames[strings.ToLower(string(text))]
	if !ok {
		return eris.Errorf("unknown visibility %q", text)
	}
	*v = val
	return nil
}

// --- Anchor ---

// Anchor is the normalized origin of a sprite, from (-0.5, -0.5) at the
// bottom left to (0.5, 0.5) at the top right.
//
// It decodes from a preset name ("center", "top_left", ...) or from a
// mapping with x and y for a custom point.
type Anchor Vec2

var anchorPresets = map[string]Anchor{
	"center":        {0, 0},
	"bottom_left":   {-0.5, -0.5},
	"bottom_center": {0, -0.5},
	"bottom_right":  {0.5, -0.5},
	"center_left":   {-0.5, 0},
	"center_right":  {0.5, 0},
	"top_left":      {-0.5, 0.5},
	"top_center":    {0, 0.5},
	"top_right":     {0.5, 0.5},
}

func anchorByName(name string) (Anchor, error) {
	a, ok := anchorPresets[strings.ToLower(name)]
	if !ok {
		return Anchor{}, eris.Errorf("unknown anchor %q", name)
	}
	return a, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Anchor) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v, err := anchorByName(node.Value)
		*a = v
		return err
	}
	var v Vec2
	if err := node.Decode(&v); err != nil {
		return eris.Wrap(err, "anchor")
	}
	*a = Anchor(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		v, err := anchorByName(name)
		*a = v
		return err
	}
	var v Vec2
	if err := json.Unmarshal(data, &v); err != nil {
		return eris.Wrap(err, "anchor")
	}
	*a = Anchor(v)
	return nil
}

// --- Val ---

// ValKind is the unit of a Val.
type ValKind uint8

const (
	Auto ValKind = iota
	Px
	Percent
)

// Val is a UI length: "auto", pixels ("12px" or a bare number) or a
// percentage of the parent ("50%").
type Val struct {
	Kind  ValKind
	Value float64
}

// PxVal returns a pixel length.
func PxVal(v float64) Val { return Val{Kind: Px, Value: v} }

// PercentVal returns a percentage length.
func PercentVal(v float64) Val { return Val{Kind: Percent, Value: v} }

// Resolve converts v to pixels against a parent length. Auto resolves to
// fallback.
func (v Val) Resolve(parent, fallback float64) float64 {
	switch v.Kind {
	case Px:
		return v.Value
	case Percent:
		return parent * v.Value / 100
	}
	return fallback
}

func (v Val) String() string {
	switch v.Kind {
	case Px:
		return strconv.FormatFloat(v.Value, 'g', -1, 64) + "px"
	case Percent:
		return strconv.FormatFloat(v.Value, 'g', -1, 64) + "%"
	}
	return "auto"
}

// MarshalText implements encoding.TextMarshaler.
func (v Val) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Val) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(strings.ToLower(string(text)))
	kind := Px
	switch {
	case s == "" || s == "auto":
		*v = Val{}
		return nil
	case strings.HasSuffix(s, "%"):
		kind, s = Percent, strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return eris.Errorf("invalid length %q", text)
	}
	*v = Val{Kind: kind, Value: f}
	return nil
}

// UnmarshalJSON accepts bare numbers as pixels in addition to strings.
func (v *Val) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = PxVal(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return eris.Wrap(err, "length")
	}
	return v.UnmarshalText([]byte(s))
}

// Rect holds one Val per side.
type Rect struct {
	Left   Val `yaml:"left" json:"left"`
	Right  Val `yaml:"right" json:"right"`
	Top    Val `yaml:"top" json:"top"`
	Bottom Val `yaml:"bottom" json:"bottom"`
}

// All returns a Rect with v on every side.
func All(v Val) Rect {
	return Rect{Left: v, Right: v, Top: v, Bottom: v}
}
