package components

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/assets"
	"github.com/rotisserie/eris"
	"github.com/yohamta/donburi"
	"gopkg.in/yaml.v3"
)

// --- Style ---

// Style is the layout description of a UI node. Enumerated fields hold the
// lower-case names used in prefab files ("flex", "column", "space_between").
type Style struct {
	Display      string `yaml:"display" json:"display"`
	PositionType string `yaml:"position_type" json:"position_type"`
	Overflow     string `yaml:"overflow" json:"overflow"`

	Left   Val `yaml:"left" json:"left"`
	Right  Val `yaml:"right" json:"right"`
	Top    Val `yaml:"top" json:"top"`
	Bottom Val `yaml:"bottom" json:"bottom"`

	Width     Val      `yaml:"width" json:"width"`
	Height    Val      `yaml:"height" json:"height"`
	MinWidth  Val      `yaml:"min_width" json:"min_width"`
	MinHeight Val      `yaml:"min_height" json:"min_height"`
	MaxWidth  Val      `yaml:"max_width" json:"max_width"`
	MaxHeight Val      `yaml:"max_height" json:"max_height"`
	Aspect    *float64 `yaml:"aspect_ratio" json:"aspect_ratio"`

	AlignItems     string `yaml:"align_items" json:"align_items"`
	AlignSelf      string `yaml:"align_self" json:"align_self"`
	AlignContent   string `yaml:"align_content" json:"align_content"`
	JustifyContent string `yaml:"justify_content" json:"justify_content"`

	Margin  Rect `yaml:"margin" json:"margin"`
	Padding Rect `yaml:"padding" json:"padding"`
	Border  Rect `yaml:"border" json:"border"`

	FlexDirection string  `yaml:"flex_direction" json:"flex_direction"`
	FlexWrap      string  `yaml:"flex_wrap" json:"flex_wrap"`
	FlexGrow      float64 `yaml:"flex_grow" json:"flex_grow"`
	FlexShrink    float64 `yaml:"flex_shrink" json:"flex_shrink"`
	FlexBasis     Val     `yaml:"flex_basis" json:"flex_basis"`
	RowGap        Val     `yaml:"row_gap" json:"row_gap"`
	ColumnGap     Val     `yaml:"column_gap" json:"column_gap"`
}

func (s Style) clone() Style {
	if s.Aspect != nil {
		a := *s.Aspect
		s.Aspect = &a
	}
	return s
}

// ZIndex orders UI nodes. A Global index ignores the hierarchy.
// It decodes from a number (local) or from {local: n} / {global: n}.
type ZIndex struct {
	Value  int
	Global bool
}

type zIndexMap struct {
	Local  *int `yaml:"local" json:"local"`
	Global *int `yaml:"global" json:"global"`
}

func (m zIndexMap) zIndex() ZIndex {
	if m.Global != nil {
		return ZIndex{Value: *m.Global, Global: true}
	}
	if m.Local != nil {
		return ZIndex{Value: *m.Local}
	}
	return ZIndex{}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (z *ZIndex) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var n int
		if err := node.Decode(&n); err != nil {
			return eris.Wrap(err, "z_index")
		}
		*z = ZIndex{Value: n}
		return nil
	}
	var m zIndexMap
	if err := node.Decode(&m); err != nil {
		return eris.Wrap(err, "z_index")
	}
	*z = m.zIndex()
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (z *ZIndex) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*z = ZIndex{Value: n}
		return nil
	}
	var m zIndexMap
	if err := json.Unmarshal(data, &m); err != nil {
		return eris.Wrap(err, "z_index")
	}
	*z = m.zIndex()
	return nil
}

// FocusPolicy is "block" or "pass" (the default).
type FocusPolicy string

const (
	FocusPass  FocusPolicy = "pass"
	FocusBlock FocusPolicy = "block"
)

// --- Node ---

// NodeData is the live UI node.
type NodeData struct {
	Style       Style
	Background  Color
	Border      Color
	FocusPolicy FocusPolicy
	Visibility  Visibility
	ZIndex      ZIndex
}

// Node is the live UI node component.
var Node = donburi.NewComponentType[NodeData]()

// NodePrefab describes a UI node. Colors default to transparent.
type NodePrefab struct {
	Style           Style       `yaml:"style" json:"style"`
	BackgroundColor Color       `yaml:"background_color" json:"background_color"`
	BorderColor     Color       `yaml:"border_color" json:"border_color"`
	FocusPolicy     FocusPolicy `yaml:"focus_policy" json:"focus_policy"`
	Visibility      Visibility  `yaml:"visibility" json:"visibility"`
	ZIndex          ZIndex      `yaml:"z_index" json:"z_index"`
}

// Apply inserts the Node component.
func (n NodePrefab) Apply(e *prefab.EntityMut) {
	focus := n.FocusPolicy
	if focus == "" {
		focus = FocusPass
	}
	prefab.Insert(e, Node, NodeData{
		Style:       n.Style,
		Background:  n.BackgroundColor,
		Border:      n.BorderColor,
		FocusPolicy: focus,
		Visibility:  n.Visibility,
		ZIndex:      n.ZIndex,
	})
}

// Clone returns a copy that shares no pointers with n.
func (n NodePrefab) Clone() NodePrefab {
	n.Style = n.Style.clone()
	return n
}

// --- Text ---

// TextAlign is the horizontal alignment of text lines.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Linebreak selects where long lines wrap.
type Linebreak string

const (
	// BreakWord wraps at word boundaries; it is the default.
	BreakWord Linebreak = "word"
	// BreakAny wraps at any character.
	BreakAny Linebreak = "any"
)

// SectionData is one run of styled text with a resolved font.
type SectionData struct {
	Value string
	Font  assets.Handle[*assets.Font]
	Size  float64
	Color Color
}

// TextData is the live text component.
type TextData struct {
	Sections  []SectionData
	Alignment TextAlign
	Linebreak Linebreak
}

// Text is the live text component.
var Text = donburi.NewComponentType[TextData]()

// String returns the concatenated section text.
func (t *TextData) String() string {
	var b strings.Builder
	for _, s := range t.Sections {
		b.WriteString(s.Value)
	}
	return b.String()
}

// Measure lays the sections out on one line and returns their extent. It
// reports false until every font has loaded.
func (t *TextData) Measure() (width, height float64, ok bool) {
	for _, s := range t.Sections {
		f, loaded := s.Font.Get()
		if !loaded {
			return 0, 0, false
		}
		w, h := f.Measure(s.Value, s.Size)
		width += w
		height = max(height, h)
	}
	return width, height, true
}

// TextStylePrefab styles a section. A section without a font uses the
// text's default font. The size defaults to 12 and the color to white.
type TextStylePrefab struct {
	Font     *assets.Ref[*assets.Font] `yaml:"font" json:"font"`
	FontSize float64                   `yaml:"font_size" json:"font_size"`
	Color    Color                     `yaml:"color" json:"color"`
}

// DefaultTextStyle returns the style used for missing fields.
func DefaultTextStyle() TextStylePrefab {
	return TextStylePrefab{FontSize: 12, Color: White}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *TextStylePrefab) UnmarshalYAML(node *yaml.Node) error {
	type plain TextStylePrefab
	v := plain(DefaultTextStyle())
	if err := node.Decode(&v); err != nil {
		return err
	}
	*s = TextStylePrefab(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *TextStylePrefab) UnmarshalJSON(data []byte) error {
	type plain TextStylePrefab
	v := plain(DefaultTextStyle())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = TextStylePrefab(v)
	return nil
}

// TextSectionPrefab is one run of text.
type TextSectionPrefab struct {
	Text  string          `yaml:"text" json:"text"`
	Style TextStylePrefab `yaml:"style" json:"style"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *TextSectionPrefab) UnmarshalYAML(node *yaml.Node) error {
	type plain TextSectionPrefab
	v := plain{Style: DefaultTextStyle()}
	if err := node.Decode(&v); err != nil {
		return err
	}
	*s = TextSectionPrefab(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *TextSectionPrefab) UnmarshalJSON(data []byte) error {
	type plain TextSectionPrefab
	v := plain{Style: DefaultTextStyle()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = TextSectionPrefab(v)
	return nil
}

// TextPrefab describes text content.
//
//	sections:
//	  - text: Start
//	    style: {font: fonts/ui.ttf, font_size: 24}
//	alignment: center
type TextPrefab struct {
	Sections    []TextSectionPrefab       `yaml:"sections" json:"sections"`
	Alignment   TextAlign                 `yaml:"alignment" json:"alignment"`
	Linebreak   Linebreak                 `yaml:"linebreak" json:"linebreak"`
	DefaultFont *assets.Ref[*assets.Font] `yaml:"default_font" json:"default_font"`
}

// NewText returns a single-section text with the default style.
func NewText(s string, font string) TextPrefab {
	ref := assets.NewRef[*assets.Font](font)
	return TextPrefab{
		Sections:    []TextSectionPrefab{{Text: s, Style: DefaultTextStyle()}},
		Alignment:   AlignLeft,
		Linebreak:   BreakWord,
		DefaultFont: &ref,
	}
}

// Resolve requests the default font and every section font.
func (t *TextPrefab) Resolve(w *prefab.World) bool {
	failed := false
	if t.DefaultFont != nil {
		failed = t.DefaultFont.Resolve(w) || failed
	}
	for i := range t.Sections {
		if f := t.Sections[i].Style.Font; f != nil {
			failed = f.Resolve(w) || failed
		}
	}
	return failed
}

// Data converts the prefab to its live value. Sections without a resolved
// font are dropped; dropped reports how many.
func (t TextPrefab) Data() (data TextData, dropped int) {
	data = TextData{Alignment: t.Alignment, Linebreak: t.Linebreak}
	if data.Alignment == "" {
		data.Alignment = AlignLeft
	}
	if data.Linebreak == "" {
		data.Linebreak = BreakWord
	}
	for _, s := range t.Sections {
		ref := s.Style.Font
		if ref == nil {
			ref = t.DefaultFont
		}
		if ref == nil {
			dropped++
			continue
		}
		h, ok := ref.Handle()
		if !ok {
			dropped++
			continue
		}
		data.Sections = append(data.Sections, SectionData{
			Value: s.Text,
			Font:  h,
			Size:  s.Style.FontSize,
			Color: s.Style.Color,
		})
	}
	return data, dropped
}

// Apply inserts the Text component.
func (t TextPrefab) Apply(e *prefab.EntityMut) {
	data, dropped := t.Data()
	if dropped > 0 {
		e.World().Logger().Warn().
			Str("target", "components").
			Int("sections", dropped).
			Msg("no font given, text sections dropped")
	}
	prefab.Insert(e, Text, data)
}

// Clone returns a copy that shares no sections or references with t.
func (t TextPrefab) Clone() TextPrefab {
	t.DefaultFont = cloneRef(t.DefaultFont)
	sections := make([]TextSectionPrefab, len(t.Sections))
	for i, s := range t.Sections {
		s.Style.Font = cloneRef(s.Style.Font)
		sections[i] = s
	}
	t.Sections = sections
	return t
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TextPrefab) UnmarshalYAML(node *yaml.Node) error {
	type plain TextPrefab
	v := plain{Alignment: AlignLeft, Linebreak: BreakWord}
	if err := node.Decode(&v); err != nil {
		return err
	}
	*t = TextPrefab(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TextPrefab) UnmarshalJSON(data []byte) error {
	type plain TextPrefab
	v := plain{Alignment: AlignLeft, Linebreak: BreakWord}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = TextPrefab(v)
	return nil
}

func cloneRef[A any](r *assets.Ref[A]) *assets.Ref[A] {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// --- Image ---

// ImageData is the live UI image.
type ImageData struct {
	Texture    assets.Handle[*ebiten.Image]
	Background Color
	FlipX      bool
	FlipY      bool
}

// Image is the live UI image component.
var Image = donburi.NewComponentType[ImageData]()

// ImagePrefab describes a UI image. The background tint defaults to white.
type ImagePrefab struct {
	Texture         assets.Ref[*ebiten.Image] `yaml:"texture" json:"texture"`
	BackgroundColor Color                     `yaml:"background_color" json:"background_color"`
	FlipX           bool                      `yaml:"flip_x" json:"flip_x"`
	FlipY           bool                      `yaml:"flip_y" json:"flip_y"`
}

// DefaultImage returns an image prefab with a white tint.
func DefaultImage() ImagePrefab {
	return ImagePrefab{BackgroundColor: White}
}

// Resolve requests the texture.
func (i *ImagePrefab) Resolve(w *prefab.World) bool {
	return i.Texture.Resolve(w)
}

// Data converts the prefab to its live value; false while the texture is
// pending.
func (i ImagePrefab) Data() (ImageData, bool) {
	h, ok := i.Texture.Handle()
	if !ok {
		return ImageData{}, false
	}
	return ImageData{Texture: h, Background: i.BackgroundColor, FlipX: i.FlipX, FlipY: i.FlipY}, true
}

// Apply inserts the Image component, or logs a warning while the texture is
// pending.
func (i ImagePrefab) Apply(e *prefab.EntityMut) {
	data, ok := i.Data()
	if !ok {
		e.World().Logger().Warn().
			Str("target", "components").
			Str("path", i.Texture.Path()).
			Msg("ui image with no image found")
		return
	}
	prefab.Insert(e, Image, data)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *ImagePrefab) UnmarshalYAML(node *yaml.Node) error {
	type plain ImagePrefab
	v := plain(DefaultImage())
	if err := node.Decode(&v); err != nil {
		return err
	}
	*i = ImagePrefab(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *ImagePrefab) UnmarshalJSON(data []byte) error {
	type plain ImagePrefab
	v := plain(DefaultImage())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = ImagePrefab(v)
	return nil
}

// --- Button ---

// Interaction is the pointer state of a button.
type Interaction uint8

const (
	InteractionNone Interaction = iota
	InteractionHovered
	InteractionPressed
)

func (i Interaction) String() string {
	switch i {
	case InteractionHovered:
		return "hovered"
	case InteractionPressed:
		return "pressed"
	}
	return "none"
}

// ButtonData is the live button.
type ButtonData struct {
	Background  Color
	Border      Color
	Interaction Interaction
}

// Button is the live button component.
var Button = donburi.NewComponentType[ButtonData]()

// ButtonPrefab describes a button. The background defaults to white and the
// optional image is inserted as an Image component.
type ButtonPrefab struct {
	BackgroundColor Color        `yaml:"background_color" json:"background_color"`
	BorderColor     Color        `yaml:"border_color" json:"border_color"`
	Image           *ImagePrefab `yaml:"image" json:"image"`
}

// DefaultButton returns a white button without an image.
func DefaultButton() ButtonPrefab {
	return ButtonPrefab{BackgroundColor: White}
}

// Resolve requests the image texture, if there is an image.
func (b *ButtonPrefab) Resolve(w *prefab.World) bool {
	if b.Image == nil {
		return false
	}
	return b.Image.Resolve(w)
}

// Apply inserts Button, and Image when the image texture is resolved.
func (b ButtonPrefab) Apply(e *prefab.EntityMut) {
	if b.Image != nil {
		if data, ok := b.Image.Data(); ok {
			prefab.Insert(e, Image, data)
		} else {
			e.World().Logger().Warn().
				Str("target", "components").
				Str("path", b.Image.Texture.Path()).
				Msg("tried to load button image, but failed")
		}
	}
	prefab.Insert(e, Button, ButtonData{Background: b.BackgroundColor, Border: b.BorderColor})
}

// Clone returns a copy that shares no pointers with b.
func (b ButtonPrefab) Clone() ButtonPrefab {
	if b.Image != nil {
		img := *b.Image
		b.Image = &img
	}
	return b
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ButtonPrefab) UnmarshalYAML(node *yaml.Node) error {
	type plain ButtonPrefab
	v := plain(DefaultButton())
	if err := node.Decode(&v); err != nil {
		return err
	}
	*b = ButtonPrefab(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *ButtonPrefab) UnmarshalJSON(data []byte) error {
	type plain ButtonPrefab
	v := plain(DefaultButton())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = ButtonPrefab(v)
	return nil
}

// --- Label ---

// LabelData marks an entity as a text label.
type LabelData struct{}

// Label is the label marker component.
var Label = donburi.NewComponentType[LabelData]()

// LabelPrefab inserts the Label marker.
type LabelPrefab struct{}

// Apply inserts Label.
func (LabelPrefab) Apply(e *prefab.EntityMut) {
	prefab.Insert(e, Label, LabelData{})
}
