package assets

import (
	"github.com/goccy/go-json"
	"github.com/phanxgames/prefab"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Install registers s as the asset loading capability of w.
func Install(w *prefab.World, s *Server) {
	prefab.InsertResource(w, s)
}

// ServerOf returns the asset server installed on w.
func ServerOf(w *prefab.World) (*Server, bool) {
	return prefab.Resource[*Server](w)
}

// Handle is a typed view of an asset id. The zero Handle is the default
// handle: it is never loaded and Get reports false.
type Handle[A any] struct {
	server *Server
	id     ID
}

// Load requests p from s and returns a handle to it.
func Load[A any](s *Server, p string) Handle[A] {
	return Handle[A]{server: s, id: s.Load(p)}
}

// ID returns the asset id.
func (h Handle[A]) ID() ID {
	return h.id
}

// IsZero reports whether h is the default handle.
func (h Handle[A]) IsZero() bool {
	return h.id == 0
}

// State returns the load state of the asset.
func (h Handle[A]) State() State {
	if h.server == nil {
		return Unloaded
	}
	return h.server.State(h.id)
}

// Path returns the path the handle was loaded from.
func (h Handle[A]) Path() string {
	if h.server == nil {
		return ""
	}
	return h.server.Path(h.id)
}

// Get returns the asset once it has loaded.
func (h Handle[A]) Get() (A, bool) {
	var zero A
	if h.server == nil {
		return zero, false
	}
	v, ok := h.server.Value(h.id)
	if !ok {
		return zero, false
	}
	a, ok := v.(A)
	if !ok {
		h.server.logger.Warn().
			Str("target", "assets").
			Str("path", h.server.Path(h.id)).
			Err(eris.Wrapf(ErrAssetType, "%T", v)).
			Msg("asset has a different type than requested")
		return zero, false
	}
	return a, true
}

// Ref is a payload field referring to an asset. It starts out pending,
// holding a path, and becomes resolved once Resolve has requested the path
// from the world's asset server. An empty path resolves to the default
// handle.
//
// In YAML and JSON a Ref is written as its path:
//
//	texture: sprites/hero.png
type Ref[A any] struct {
	path     string
	handle   Handle[A]
	resolved bool
}

// NewRef returns a pending reference to p.
func NewRef[A any](p string) Ref[A] {
	return Ref[A]{path: p}
}

// RefOf returns a reference already resolved to h.
func RefOf[A any](h Handle[A]) Ref[A] {
	return Ref[A]{path: h.Path(), handle: h, resolved: true}
}

// Path returns the referenced path.
func (r Ref[A]) Path() string {
	return r.path
}

// Resolved reports whether Resolve has succeeded.
func (r Ref[A]) Resolved() bool {
	return r.resolved
}

// Handle returns the resolved handle. It reports false while the reference
// is pending.
func (r Ref[A]) Handle() (Handle[A], bool) {
	if !r.resolved {
		return Handle[A]{}, false
	}
	return r.handle, true
}

// Resolve requests the path from the world's asset server. It fails when no
// server is installed and when the reference was already resolved.
func (r *Ref[A]) Resolve(w *prefab.World) bool {
	if r.resolved {
		w.Logger().Warn().
			Str("target", "assets").
			Str("path", r.path).
			Msg("tried to load an already loaded asset")
		return true
	}
	s, ok := ServerOf(w)
	if !ok {
		w.Logger().Error().
			Str("target", "assets").
			Str("path", r.path).
			Msg("asset server is not installed")
		return true
	}
	if r.path != "" {
		r.handle = Load[A](s, r.path)
	}
	r.resolved = true
	return false
}

// MarshalYAML writes the path.
func (r Ref[A]) MarshalYAML() (any, error) {
	return r.path, nil
}

// UnmarshalYAML reads a path; the result is pending.
func (r *Ref[A]) UnmarshalYAML(node *yaml.Node) error {
	var p string
	if err := node.Decode(&p); err != nil {
		return eris.Wrap(err, "asset reference must be a path")
	}
	*r = Ref[A]{path: p}
	return nil
}

// MarshalJSON writes the path.
func (r Ref[A]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.path)
}

// UnmarshalJSON reads a path; the result is pending.
func (r *Ref[A]) UnmarshalJSON(data []byte) error {
	var p string
	if err := json.Unmarshal(data, &p); err != nil {
		return eris.Wrap(err, "asset reference must be a path")
	}
	*r = Ref[A]{path: p}
	return nil
}
