package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/components"
	"github.com/phanxgames/prefab/ui"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
)

var spawnCmd = &cobra.Command{
	Use:   "spawn <file>",
	Short: "Validate a UI file and print the entity tree it spawns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		p, err := readUI(args[0])
		if err != nil {
			return err
		}
		return s.spawn(cmd.Context(), cmd.OutOrStdout(), p)
	},
}

func init() {
	spawnCmd.Flags().StringSlice("systems", nil, "registered system callback names")
	rootCmd.AddCommand(spawnCmd)
}

// spawn validates p, spawns it from the root and prints the live tree.
func (s *session) spawn(ctx context.Context, out io.Writer, p *uiPrefab) error {
	if err := s.validate(ctx, out, p); err != nil {
		return err
	}
	if orphans := p.Orphans(); len(orphans) > 0 {
		s.logger.Warn().
			Str("target", "prefab").
			Ints("orphans", orphans).
			Msg("prefab has nodes unreachable from the root")
	}
	root, ok := p.Spawn(p.ChildrenMap(), 0, s.world)
	if !ok {
		return eris.Wrap(prefab.ErrIndexNotFound, "spawn")
	}
	fmt.Fprintf(out, "spawned %d entities\n", s.world.Len())
	printEntity(out, s.world, root, 0)
	return nil
}

func printEntity(out io.Writer, w *prefab.World, id donburi.Entity, depth int) {
	fmt.Fprintf(out, "%s%v %s\n", strings.Repeat("  ", depth), id, entitySummary(w, id))
	for _, child := range prefab.ChildrenOf(w, id) {
		printEntity(out, w, child, depth+1)
	}
}

func entitySummary(w *prefab.World, id donburi.Entity) string {
	e, ok := w.Entity(id)
	if !ok {
		return "(dead)"
	}
	var parts []string
	if m, ok := prefab.Get(e, prefab.Marker); ok {
		parts = append(parts, "#"+strconv.Itoa(m.Index))
	}
	if prefab.Has(e, components.Node) {
		parts = append(parts, "node")
	}
	if t, ok := prefab.Get(e, components.Text); ok {
		parts = append(parts, "text "+strconv.Quote(t.String()))
	}
	if img, ok := prefab.Get(e, components.Image); ok {
		parts = append(parts, "image "+img.Texture.Path())
	}
	if prefab.Has(e, components.Button) {
		parts = append(parts, "button")
	}
	if cb, ok := prefab.Get(e, ui.ButtonCallback); ok {
		kind := "event"
		if cb.System != nil {
			kind = "system"
		}
		parts = append(parts, kind+" "+cb.Name)
	}
	return strings.Join(parts, ", ")
}
