package prefab

import (
	"github.com/yohamta/donburi"
)

// debugMaxTreeDepth is the live hierarchy depth above which a warning is logged.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckTreeDepth(w *World, id donburi.Entity) {
	depth := 0
	for cur, ok := id, true; ok; cur, ok = ParentOf(w, cur) {
		depth++
		if depth > debugMaxTreeDepth {
			w.logger.Warn().
				Str("target", "prefab").
				Int("depth", depth).
				Int("threshold", debugMaxTreeDepth).
				Msgf("entity %v is nested too deep", id)
			return
		}
	}
}

func debugCheckChildCount(w *World, id donburi.Entity) {
	if n := len(ChildrenOf(w, id)); n > debugMaxChildCount {
		w.logger.Warn().
			Str("target", "prefab").
			Int("children", n).
			Int("threshold", debugMaxChildCount).
			Msgf("entity %v has too many children", id)
	}
}
