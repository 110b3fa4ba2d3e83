package ui

import (
	"io/fs"
	"path"
	"strings"

	"github.com/goccy/go-json"
	"github.com/phanxgames/prefab"
	"gopkg.in/yaml.v3"
)

// YAML decodes a Widget written in YAML and flattens it.
type YAML[C Expander[C, D], D any] struct{}

// Decode implements prefab.Format.
func (YAML[C, D]) Decode(data []byte) (*prefab.Prefab[Data[D]], error) {
	var w Widget[C, D]
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, prefab.WrapDecode(err)
	}
	return FromWidget(w)
}

// JSON decodes a Widget written in JSON and flattens it.
type JSON[C Expander[C, D], D any] struct{}

// Decode implements prefab.Format.
func (JSON[C, D]) Decode(data []byte) (*prefab.Prefab[Data[D]], error) {
	var w Widget[C, D]
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, prefab.WrapDecode(err)
	}
	return FromWidget(w)
}

// FormatFor picks the JSON format for .json files and YAML otherwise.
func FormatFor[C Expander[C, D], D any](name string) prefab.Format[Data[D]] {
	if strings.EqualFold(path.Ext(name), ".json") {
		return JSON[C, D]{}
	}
	return YAML[C, D]{}
}

// Install registers the loaded event for UI prefabs with custom data D and
// an empty Callbacks table, unless one is already installed.
func Install[D any](w *prefab.World) *prefab.Plugin[Data[D]] {
	if _, ok := CallbacksOf(w); !ok {
		prefab.InsertResource(w, NewCallbacks())
	}
	return prefab.Install[Data[D]](w)
}

// LoadUI loads a UI description from fsys into c. Load errors are logged
// and leave an empty prefab.
func LoadUI[C Expander[C, D], D any](c *prefab.Commands, fsys fs.FS, name string) *prefab.PrefabCommands[Data[D]] {
	return prefab.LoadPrefab(c, fsys, FormatFor[C, D](name), name)
}
