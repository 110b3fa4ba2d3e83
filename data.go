package prefab

import (
	"reflect"

	"github.com/yohamta/donburi"
)

// Data is the payload carried by a prefab node.
type Data interface {
	// Apply consumes the payload and attaches its components to e.
	Apply(e *EntityMut)
}

// Resolver is implemented by payloads that reference external resources.
//
// Resolve converts pending references into resolved handles using the
// capabilities registered on w. It reports true when anything could not be
// resolved, including a second resolve of an already resolved reference.
// The pass runs once per node; it is never retried.
type Resolver interface {
	Resolve(w *World) (failed bool)
}

// ResolveData resolves v when it implements Resolver. Nil interfaces and nil
// pointers resolve successfully with nothing to do.
func ResolveData(w *World, v any) bool {
	if isNil(v) {
		return false
	}
	if r, ok := v.(Resolver); ok {
		return r.Resolve(w)
	}
	return false
}

// ApplyData applies v to e when it implements Data. Nil interfaces and nil
// pointers are skipped.
func ApplyData(e *EntityMut, v any) {
	if isNil(v) {
		return
	}
	if d, ok := v.(Data); ok {
		d.Apply(e)
	}
}

// ResolveAll resolves every part and OR-combines the results. Every part is
// visited even after a failure.
func ResolveAll(w *World, parts ...any) bool {
	failed := false
	for _, p := range parts {
		failed = ResolveData(w, p) || failed
	}
	return failed
}

// ApplyAll applies every part in order.
func ApplyAll(e *EntityMut, parts ...any) {
	for _, p := range parts {
		ApplyData(e, p)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// --- Composites ---

// Bundle is a payload made of several payloads. Store pointers for parts
// whose Resolve method has a pointer receiver.
type Bundle []Data

// Apply applies every part in order.
func (b Bundle) Apply(e *EntityMut) {
	for _, d := range b {
		ApplyData(e, d)
	}
}

// Resolve resolves every part; any failure fails the bundle.
func (b Bundle) Resolve(w *World) bool {
	failed := false
	for _, d := range b {
		failed = ResolveData(w, d) || failed
	}
	return failed
}

// Option is a payload that may be absent. The zero value is absent.
type Option[T Data] struct {
	Value T
	Valid bool
}

// Some returns a present Option.
func Some[T Data](v T) Option[T] {
	return Option[T]{Value: v, Valid: true}
}

// None returns an absent Option.
func None[T Data]() Option[T] {
	return Option[T]{}
}

// Apply applies the value when present.
func (o Option[T]) Apply(e *EntityMut) {
	if o.Valid {
		ApplyData(e, o.Value)
	}
}

// Resolve resolves the value when present; an absent value reports no
// failure.
func (o *Option[T]) Resolve(w *World) bool {
	if !o.Valid {
		return false
	}
	if r, ok := any(&o.Value).(Resolver); ok {
		return r.Resolve(w)
	}
	return ResolveData(w, o.Value)
}

// Component is a payload that inserts a plain value under a donburi
// component type. It has nothing to resolve.
type Component[V any] struct {
	Type  *donburi.ComponentType[V]
	Value V
}

// NewComponent returns a Component payload for value.
func NewComponent[V any](ctype *donburi.ComponentType[V], value V) Component[V] {
	return Component[V]{Type: ctype, Value: value}
}

// Apply inserts the value.
func (c Component[V]) Apply(e *EntityMut) {
	Insert(e, c.Type, c.Value)
}
