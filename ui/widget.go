package ui

import (
	"github.com/goccy/go-json"
	"github.com/phanxgames/prefab/components"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Kind names the variant a widget holds.
type Kind string

const (
	KindContainer Kind = "container"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindButton    Kind = "button"
	KindCustom    Kind = "custom"
)

// Widget is one node of a UI description. Exactly one field is set. C is the
// custom widget type and D the custom data attached to native widgets.
type Widget[C, D any] struct {
	Container *ContainerWidget[C, D] `yaml:"container,omitempty" json:"container,omitempty"`
	Text      *TextWidget[D]         `yaml:"text,omitempty" json:"text,omitempty"`
	Image     *ImageWidget[D]        `yaml:"image,omitempty" json:"image,omitempty"`
	Button    *ButtonWidget[D]       `yaml:"button,omitempty" json:"button,omitempty"`
	Custom    *C                     `yaml:"custom,omitempty" json:"custom,omitempty"`
}

// ContainerWidget is a box holding other widgets.
type ContainerWidget[C, D any] struct {
	Node       components.NodePrefab `yaml:"node" json:"node"`
	Children   []Widget[C, D]        `yaml:"children" json:"children"`
	CustomData *D                    `yaml:"custom_data" json:"custom_data"`
}

// TextWidget is a block of text.
type TextWidget[D any] struct {
	Node       components.NodePrefab `yaml:"node" json:"node"`
	Text       components.TextPrefab `yaml:"text" json:"text"`
	CustomData *D                    `yaml:"custom_data" json:"custom_data"`
}

// ImageWidget is an image box.
type ImageWidget[D any] struct {
	Node       components.NodePrefab  `yaml:"node" json:"node"`
	Image      components.ImagePrefab `yaml:"image" json:"image"`
	CustomData *D                     `yaml:"custom_data" json:"custom_data"`
}

// ButtonWidget is a pressable node. The label becomes a child node.
type ButtonWidget[D any] struct {
	Node       components.NodePrefab   `yaml:"node" json:"node"`
	Button     components.ButtonPrefab `yaml:"button" json:"button"`
	Label      *components.TextPrefab  `yaml:"label" json:"label"`
	Callback   *Callback               `yaml:"callback" json:"callback"`
	CustomData *D                      `yaml:"custom_data" json:"custom_data"`
}

type (
	plainImage[D any]  ImageWidget[D]
	plainButton[D any] ButtonWidget[D]
)

// UnmarshalYAML implements yaml.Unmarshaler; a missing image gets the
// default white tint.
func (w *ImageWidget[D]) UnmarshalYAML(node *yaml.Node) error {
	v := plainImage[D]{Image: components.DefaultImage()}
	if err := node.Decode(&v); err != nil {
		return err
	}
	*w = ImageWidget[D](v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *ImageWidget[D]) UnmarshalJSON(data []byte) error {
	v := plainImage[D]{Image: components.DefaultImage()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*w = ImageWidget[D](v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler; a missing button section gets
// the default white background.
func (w *ButtonWidget[D]) UnmarshalYAML(node *yaml.Node) error {
	v := plainButton[D]{Button: components.DefaultButton()}
	if err := node.Decode(&v); err != nil {
		return err
	}
	*w = ButtonWidget[D](v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *ButtonWidget[D]) UnmarshalJSON(data []byte) error {
	v := plainButton[D]{Button: components.DefaultButton()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*w = ButtonWidget[D](v)
	return nil
}

// Kind returns the variant w holds, or "" when it holds none or several.
func (w Widget[C, D]) Kind() Kind {
	kind, n := w.kind()
	if n != 1 {
		return ""
	}
	return kind
}

func (w Widget[C, D]) kind() (kind Kind, n int) {
	if w.Container != nil {
		kind, n = KindContainer, n+1
	}
	if w.Text != nil {
		kind, n = KindText, n+1
	}
	if w.Image != nil {
		kind, n = KindImage, n+1
	}
	if w.Button != nil {
		kind, n = KindButton, n+1
	}
	if w.Custom != nil {
		kind, n = KindCustom, n+1
	}
	return kind, n
}

// Validate checks that w and every container descendant set exactly one
// variant. Custom widgets are not expanded.
func (w Widget[C, D]) Validate() error {
	if _, n := w.kind(); n != 1 {
		return eris.Wrapf(ErrInvalidWidget, "%d variants set", n)
	}
	if w.Container != nil {
		for i, c := range w.Container.Children {
			if err := c.Validate(); err != nil {
				return eris.Wrapf(err, "child %d", i)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of w. Custom widgets and custom data are deep
// copied when they have a Clone method.
func (w Widget[C, D]) Clone() Widget[C, D] {
	var out Widget[C, D]
	if c := w.Container; c != nil {
		children := make([]Widget[C, D], len(c.Children))
		for i, child := range c.Children {
			children[i] = child.Clone()
		}
		out.Container = &ContainerWidget[C, D]{
			Node:       c.Node.Clone(),
			Children:   children,
			CustomData: cloneValue(c.CustomData),
		}
	}
	if t := w.Text; t != nil {
		out.Text = &TextWidget[D]{
			Node:       t.Node.Clone(),
			Text:       t.Text.Clone(),
			CustomData: cloneValue(t.CustomData),
		}
	}
	if img := w.Image; img != nil {
		out.Image = &ImageWidget[D]{
			Node:       img.Node.Clone(),
			Image:      img.Image,
			CustomData: cloneValue(img.CustomData),
		}
	}
	if b := w.Button; b != nil {
		out.Button = &ButtonWidget[D]{
			Node:       b.Node.Clone(),
			Button:     b.Button.Clone(),
			Callback:   cloneValue(b.Callback),
			CustomData: cloneValue(b.CustomData),
		}
		if b.Label != nil {
			label := b.Label.Clone()
			out.Button.Label = &label
		}
	}
	out.Custom = cloneValue(w.Custom)
	return out
}

// cloneValue copies *v, deeply when the value has a Clone method.
func cloneValue[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	if cl, ok := any(c).(interface{ Clone() T }); ok {
		c = cl.Clone()
	}
	return &c
}

// appendText appends s to the first section of every text in w, including
// button labels. Custom widgets are left alone.
func (w *Widget[C, D]) appendText(s string) {
	if w.Text != nil && len(w.Text.Text.Sections) > 0 {
		w.Text.Text.Sections[0].Text += s
	}
	if w.Button != nil && w.Button.Label != nil && len(w.Button.Label.Sections) > 0 {
		w.Button.Label.Sections[0].Text += s
	}
	if w.Container != nil {
		for i := range w.Container.Children {
			w.Container.Children[i].appendText(s)
		}
	}
}
