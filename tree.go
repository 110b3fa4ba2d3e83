package prefab

import (
	"github.com/rotisserie/eris"
)

// --- Node ---

// Node is one entry of a Prefab: an optional parent index and an optional
// payload.
type Node[T any] struct {
	parent    int
	hasParent bool
	data      T
	hasData   bool
}

// Parent returns the parent index, if the node has one.
func (n *Node[T]) Parent() (int, bool) {
	return n.parent, n.hasParent
}

// SetParent sets the parent index. No validation is performed.
func (n *Node[T]) SetParent(parent int) {
	n.parent = parent
	n.hasParent = true
}

// Data returns a copy of the payload, if present.
func (n *Node[T]) Data() (T, bool) {
	return n.data, n.hasData
}

// DataMut returns a pointer to the payload, or nil if the node has none.
func (n *Node[T]) DataMut() *T {
	if !n.hasData {
		return nil
	}
	return &n.data
}

// HasData reports whether the node carries a payload.
func (n *Node[T]) HasData() bool {
	return n.hasData
}

// SetData replaces the payload.
func (n *Node[T]) SetData(data T) {
	n.data = data
	n.hasData = true
}

// TakeData moves the payload out of the node, leaving it empty.
func (n *Node[T]) TakeData() (T, bool) {
	var zero T
	if !n.hasData {
		return zero, false
	}
	data := n.data
	n.data = zero
	n.hasData = false
	return data, true
}

// DataOrInsertWith returns the payload, first storing fn() if the node has none.
func (n *Node[T]) DataOrInsertWith(fn func() T) *T {
	if !n.hasData {
		n.SetData(fn())
	}
	return &n.data
}

// DataOrDefault returns the payload, first storing the zero value of T if the
// node has none.
func (n *Node[T]) DataOrDefault() *T {
	if !n.hasData {
		var zero T
		n.SetData(zero)
	}
	return &n.data
}

// --- Prefab ---

// Prefab is an indexed tree of payloads. Nodes are only ever appended, so an
// index stays valid for the lifetime of the prefab. Index 0 is the root.
type Prefab[T Data] struct {
	nodes []Node[T]
}

// New returns a prefab holding a single empty root node.
func New[T Data]() *Prefab[T] {
	return &Prefab[T]{nodes: make([]Node[T], 1)}
}

// FromData returns a prefab whose root node holds data.
func FromData[T Data](data T) *Prefab[T] {
	p := New[T]()
	p.nodes[0].SetData(data)
	return p
}

// Len returns the number of nodes, including the root.
func (p *Prefab[T]) Len() int {
	return len(p.nodes)
}

// Add appends a child of parent carrying data and returns its index.
// The parent index is not checked; see Validate.
func (p *Prefab[T]) Add(parent int, data T) int {
	idx := len(p.nodes)
	p.nodes = append(p.nodes, Node[T]{parent: parent, hasParent: true, data: data, hasData: true})
	return idx
}

// AddEmpty appends a child of parent without a payload and returns its index.
func (p *Prefab[T]) AddEmpty(parent int) int {
	idx := len(p.nodes)
	p.nodes = append(p.nodes, Node[T]{parent: parent, hasParent: true})
	return idx
}

// AddRoot appends a node with no parent. Such a node is unreachable from
// index 0 and is never spawned; it is kept as dead data and reported by
// Orphans.
func (p *Prefab[T]) AddRoot(data T) int {
	idx := len(p.nodes)
	p.nodes = append(p.nodes, Node[T]{data: data, hasData: true})
	return idx
}

// Node returns the node at index, or false when index is out of range.
func (p *Prefab[T]) Node(index int) (*Node[T], bool) {
	if index < 0 || index >= len(p.nodes) {
		return nil, false
	}
	return &p.nodes[index], true
}

// ChildrenMap maps each node index to its direct children, in insertion
// order. Every index in [0, Len) has an entry, possibly empty.
type ChildrenMap map[int][]int

// ChildrenMap derives the parent to children adjacency in a single pass.
func (p *Prefab[T]) ChildrenMap() ChildrenMap {
	m := make(ChildrenMap, len(p.nodes))
	for i := range p.nodes {
		if _, ok := m[i]; !ok {
			m[i] = []int{}
		}
		if parent, ok := p.nodes[i].Parent(); ok {
			m[parent] = append(m[parent], i)
		}
	}
	return m
}

// Reachable returns the indices reachable from the root, in pre-order.
func (p *Prefab[T]) Reachable() []int {
	if len(p.nodes) == 0 {
		return nil
	}
	children := p.ChildrenMap()
	out := make([]int, 0, len(p.nodes))
	seen := make([]bool, len(p.nodes))
	var walk func(int)
	walk = func(i int) {
		if i < 0 || i >= len(seen) || seen[i] {
			return
		}
		seen[i] = true
		out = append(out, i)
		for _, c := range children[i] {
			walk(c)
		}
	}
	walk(0)
	return out
}

// Orphans returns the indices that cannot be reached from the root.
func (p *Prefab[T]) Orphans() []int {
	seen := make([]bool, len(p.nodes))
	for _, i := range p.Reachable() {
		seen[i] = true
	}
	var out []int
	for i, ok := range seen {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

// Validate reports the first node whose parent is out of range or not
// strictly smaller than the node's own index.
func (p *Prefab[T]) Validate() error {
	for i := range p.nodes {
		parent, ok := p.nodes[i].Parent()
		if !ok {
			continue
		}
		if parent < 0 || parent >= i {
			return eris.Wrapf(ErrInvalidParent, "node %d has parent %d", i, parent)
		}
	}
	return nil
}

// Prepare runs the resolution pass once over every node and reports whether
// any payload failed to resolve.
func (p *Prefab[T]) Prepare(w *World) bool {
	failed := false
	for i := range p.nodes {
		failed = p.nodes[i].resolve(w) || failed
	}
	return failed
}

func (n *Node[T]) resolve(w *World) bool {
	if !n.hasData {
		return false
	}
	if r, ok := any(&n.data).(Resolver); ok {
		return r.Resolve(w)
	}
	return ResolveData(w, n.data)
}

// Clone returns a copy of the prefab. Payloads with a Clone() T method are
// deep-copied through it; all others are copied by value.
func (p *Prefab[T]) Clone() *Prefab[T] {
	nodes := make([]Node[T], len(p.nodes))
	copy(nodes, p.nodes)
	for i := range nodes {
		if !nodes[i].hasData {
			continue
		}
		if c, ok := any(nodes[i].data).(interface{ Clone() T }); ok {
			nodes[i].data = c.Clone()
		}
	}
	return &Prefab[T]{nodes: nodes}
}
