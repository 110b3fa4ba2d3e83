package ui

import (
	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/components"
)

// Data is the payload of a flattened UI node. Flatten sets only the fields
// the widget kind uses. Custom data is applied and resolved when *D
// implements prefab.Data or prefab.Resolver.
type Data[D any] struct {
	Node     *components.NodePrefab
	Text     *components.TextPrefab
	Image    *components.ImagePrefab
	Button   *components.ButtonPrefab
	Callback *Callback
	Custom   *D
}

// Apply applies every present part.
func (d Data[D]) Apply(e *prefab.EntityMut) {
	prefab.ApplyAll(e, d.Node, d.Text, d.Image, d.Button, d.Callback, d.Custom)
}

// Resolve resolves every present part; any failure fails the node.
func (d *Data[D]) Resolve(w *prefab.World) bool {
	return prefab.ResolveAll(w, d.Node, d.Text, d.Image, d.Button, d.Callback, d.Custom)
}

// Clone returns a copy that shares no parts with d.
func (d Data[D]) Clone() Data[D] {
	out := Data[D]{
		Node:     cloneValue(d.Node),
		Image:    cloneValue(d.Image),
		Callback: cloneValue(d.Callback),
		Custom:   cloneValue(d.Custom),
	}
	if d.Text != nil {
		t := d.Text.Clone()
		out.Text = &t
	}
	if d.Button != nil {
		b := d.Button.Clone()
		out.Button = &b
	}
	return out
}
