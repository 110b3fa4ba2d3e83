package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/phanxgames/prefab/ui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the flattened nodes of a UI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readUI(args[0])
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// inspect writes one line per node: index, parent and payload summary.
func inspect(out io.Writer, p *uiPrefab) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tPARENT\tPAYLOAD")
	for i := 0; i < p.Len(); i++ {
		n, _ := p.Node(i)
		parent := "-"
		if idx, ok := n.Parent(); ok {
			parent = strconv.Itoa(idx)
		}
		summary := "empty"
		if d, ok := n.Data(); ok {
			summary = describe(d)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, parent, summary)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	orphans := p.Orphans()
	if len(orphans) == 0 {
		_, err := fmt.Fprintln(out, "orphans: none")
		return err
	}
	_, err := fmt.Fprintf(out, "orphans: %v\n", orphans)
	return err
}

func describe(d ui.Data[ui.NoData]) string {
	var parts []string
	if d.Node != nil {
		parts = append(parts, "node")
	}
	if d.Text != nil {
		var b strings.Builder
		for _, s := range d.Text.Sections {
			b.WriteString(s.Text)
		}
		parts = append(parts, "text "+strconv.Quote(b.String()))
	}
	if d.Image != nil {
		parts = append(parts, "image "+d.Image.Texture.Path())
	}
	if d.Button != nil {
		parts = append(parts, "button")
		if d.Button.Image != nil {
			parts = append(parts, "image "+d.Button.Image.Texture.Path())
		}
	}
	if d.Callback != nil {
		switch {
		case d.Callback.System != "":
			parts = append(parts, "system "+d.Callback.System)
		case d.Callback.Event != "":
			parts = append(parts, "event "+d.Callback.Event)
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}
