package prefab

import (
	"io/fs"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Format turns raw bytes into a prefab.
type Format[T Data] interface {
	Decode(data []byte) (*Prefab[T], error)
}

// FormatFunc adapts a function to the Format interface.
type FormatFunc[T Data] func(data []byte) (*Prefab[T], error)

// Decode calls f(data).
func (f FormatFunc[T]) Decode(data []byte) (*Prefab[T], error) {
	return f(data)
}

// Tree is the generic recursive description of a prefab. A nil Data leaves
// the node without a payload.
//
//	data: {x: 1}
//	children:
//	  - data: {x: 2}
//	  - children: [...]
type Tree[T Data] struct {
	Data     *T        `yaml:"data,omitempty" json:"data,omitempty"`
	Children []Tree[T] `yaml:"children,omitempty" json:"children,omitempty"`
}

// Flatten writes t into p at index, then appends every descendant in
// pre-order: each child gets the next free index, and its subtree is
// written before the next sibling.
func Flatten[T Data](t Tree[T], index int, p *Prefab[T]) {
	node, ok := p.Node(index)
	if !ok {
		panic("prefab: flatten target index out of range")
	}
	if t.Data != nil {
		node.SetData(*t.Data)
	}
	for _, c := range t.Children {
		Flatten(c, p.AddEmpty(index), p)
	}
}

// FromTree returns a new prefab holding t.
func FromTree[T Data](t Tree[T]) *Prefab[T] {
	p := New[T]()
	Flatten(t, 0, p)
	return p
}

// YAML decodes a Tree[T] written in YAML.
type YAML[T Data] struct{}

// Decode implements Format.
func (YAML[T]) Decode(data []byte) (*Prefab[T], error) {
	var t Tree[T]
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, WrapDecode(err)
	}
	return FromTree(t), nil
}

// JSON decodes a Tree[T] written in JSON.
type JSON[T Data] struct{}

// Decode implements Format.
func (JSON[T]) Decode(data []byte) (*Prefab[T], error) {
	var t Tree[T]
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, WrapDecode(err)
	}
	return FromTree(t), nil
}

// LoadFile reads name from fsys and decodes it with f. Nothing is returned
// on failure.
func LoadFile[T Data](fsys fs.FS, f Format[T], name string) (*Prefab[T], error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, eris.Wrapf(err, "read prefab %q", name)
	}
	p, err := f.Decode(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "load prefab %q", name)
	}
	return p, nil
}
