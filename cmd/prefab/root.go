package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/ui"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prefab",
	Short: "Inspect, validate and spawn UI prefab files",
	Long: `prefab reads UI descriptions in YAML or JSON, checks that every asset and
callback they reference can be resolved, and spawns them into a scratch world.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd)
}

// uiPrefab is a flattened UI using the standard custom widgets.
type uiPrefab = prefab.Prefab[ui.Data[ui.NoData]]

// readUI decodes the UI file name, picking the format by extension.
func readUI(name string) (*uiPrefab, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", name)
	}
	p, err := ui.FormatFor[ui.Standard, ui.NoData](name).Decode(data)
	if err != nil {
		return nil, eris.Wrapf(err, "decode %s", name)
	}
	return p, nil
}
