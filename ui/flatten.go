package ui

import (
	"strconv"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/components"
	"github.com/rotisserie/eris"
)

// Expander rewrites a custom widget into a native one. The result may hold
// further custom widgets.
type Expander[C, D any] interface {
	Expand() (Widget[C, D], error)
}

// Flatten writes w into p at index and appends its descendants in
// pre-order. Custom widgets are expanded just before they are written. A
// button label is written as an extra child of the button.
func Flatten[C Expander[C, D], D any](w Widget[C, D], index int, p *prefab.Prefab[Data[D]]) error {
	node, ok := p.Node(index)
	if !ok {
		return eris.Wrapf(prefab.ErrIndexNotFound, "flatten index %d", index)
	}
	if _, n := w.kind(); n != 1 {
		return eris.Wrapf(ErrInvalidWidget, "index %d: %d variants set", index, n)
	}

	switch {
	case w.Custom != nil:
		native, err := (*w.Custom).Expand()
		if err != nil {
			return eris.Wrap(err, ErrExpand.Error())
		}
		return Flatten(native, index, p)

	case w.Text != nil:
		node.SetData(Data[D]{Node: &w.Text.Node, Text: &w.Text.Text, Custom: w.Text.CustomData})

	case w.Image != nil:
		node.SetData(Data[D]{Node: &w.Image.Node, Image: &w.Image.Image, Custom: w.Image.CustomData})

	case w.Button != nil:
		b := w.Button
		node.SetData(Data[D]{Node: &b.Node, Button: &b.Button, Callback: b.Callback, Custom: b.CustomData})
		if b.Label != nil {
			p.Add(index, Data[D]{Text: b.Label})
		}

	case w.Container != nil:
		c := w.Container
		node.SetData(Data[D]{Node: &c.Node, Custom: c.CustomData})
		for _, child := range c.Children {
			if err := Flatten(child, p.AddEmpty(index), p); err != nil {
				return err
			}
		}
	}
	return nil
}

// FromWidget returns a new prefab holding w.
func FromWidget[C Expander[C, D], D any](w Widget[C, D]) (*prefab.Prefab[Data[D]], error) {
	p := prefab.New[Data[D]]()
	if err := Flatten(w, 0, p); err != nil {
		return nil, err
	}
	return p, nil
}

// NoCustom is the custom widget type of UIs without custom widgets.
type NoCustom struct{}

// Expand always fails.
func (NoCustom) Expand() (Widget[NoCustom, NoData], error) {
	return Widget[NoCustom, NoData]{}, eris.New("custom widgets are not supported")
}

// NoData is the custom data type of UIs without custom data.
type NoData struct{}

// Standard is the custom widget type with the built-in expanders.
//
//	custom:
//	  repeat: {times: 3, template: {...}}
type Standard struct {
	Repeat *Repeat[Standard, NoData] `yaml:"repeat,omitempty" json:"repeat,omitempty"`
}

// Expand expands the set expander.
func (s Standard) Expand() (Widget[Standard, NoData], error) {
	if s.Repeat == nil {
		return Widget[Standard, NoData]{}, eris.New("custom widget has no expander set")
	}
	return s.Repeat.Expand()
}

// Clone returns a deep copy of s.
func (s Standard) Clone() Standard {
	if s.Repeat != nil {
		r := s.Repeat.Clone()
		s.Repeat = &r
	}
	return s
}

// StandardWidget is a widget using Standard custom widgets.
type StandardWidget = Widget[Standard, NoData]

// Repeat expands into a container holding Times clones of Template. The
// first section of every text in clone i gets the suffix " <Start+i>";
// Start defaults to 1, giving "Item 1", "Item 2", "Item 3".
type Repeat[C, D any] struct {
	Node       components.NodePrefab `yaml:"node" json:"node"`
	CustomData *D                    `yaml:"custom_data" json:"custom_data"`
	Template   Widget[C, D]          `yaml:"template" json:"template"`
	Times      int                   `yaml:"times" json:"times"`
	Start      *int                  `yaml:"start" json:"start"`
}

// Expand implements Expander.
func (r Repeat[C, D]) Expand() (Widget[C, D], error) {
	if r.Times < 0 {
		return Widget[C, D]{}, eris.Errorf("repeat times must not be negative, got %d", r.Times)
	}
	start := 1
	if r.Start != nil {
		start = *r.Start
	}
	children := make([]Widget[C, D], r.Times)
	for i := range children {
		children[i] = r.Template.Clone()
		children[i].appendText(" " + strconv.Itoa(start+i))
	}
	return Widget[C, D]{Container: &ContainerWidget[C, D]{
		Node:       r.Node.Clone(),
		Children:   children,
		CustomData: cloneValue(r.CustomData),
	}}, nil
}

// Clone returns a deep copy of r.
func (r Repeat[C, D]) Clone() Repeat[C, D] {
	r.Node = r.Node.Clone()
	r.CustomData = cloneValue(r.CustomData)
	r.Template = r.Template.Clone()
	r.Start = cloneValue(r.Start)
	return r
}
