package prefab

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
)

type valueData struct {
	N int
}

var valueComp = donburi.NewComponentType[valueData]()

// value is a plain payload with nothing to resolve.
type value struct {
	N int `yaml:"n" json:"n"`
}

func (v value) Apply(e *EntityMut) {
	Insert(e, valueComp, valueData{N: v.N})
}

// ref resolves once; resolving it again is reported as a failure.
type ref struct {
	Path     string
	Fail     bool
	resolved bool
}

func (r ref) Apply(e *EntityMut) {
	Insert(e, valueComp, valueData{N: len(r.Path)})
}

func (r *ref) Resolve(*World) bool {
	if r.Fail || r.resolved {
		return true
	}
	r.resolved = true
	return false
}

func newTestWorld(t *testing.T, opts ...WorldOption) (*World, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]WorldOption{WithLogger(zerolog.New(&buf))}, opts...)
	return NewWorld(opts...), &buf
}

func valueOf(t *testing.T, w *World, id donburi.Entity) int {
	t.Helper()
	e, ok := w.Entity(id)
	if !ok {
		t.Fatalf("entity %v is not alive", id)
	}
	v, ok := Get(e, valueComp)
	if !ok {
		t.Fatalf("entity %v has no value", id)
	}
	return v.N
}
