package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/chazu/floorplan/pkg/scene"
	"github.com/spf13/cobra"
)

type catalogEntry struct {
	Type       scene.ElementType `json:"type"`
	Dimensions scene.Dimensions  `json:"dimensions"`
	Placement  string            `json:"placement"`
}

func catalogEntries() []catalogEntry {
	entries := make([]catalogEntry, 0, len(scene.ElementTypes))
	for _, t := range scene.ElementTypes {
		p := "click"
		if !t.IsPoint() {
			p = "polyline"
		}
		entries = append(entries, catalogEntry{Type: t, Dimensions: scene.DefaultDimensions(t), Placement: p})
	}
	return entries
}

func newCatalogCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List placeable elements and their default dimensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := catalogEntries()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tWIDTH\tHEIGHT\tDEPTH\tPLACEMENT")
			for _, e := range entries {
				d := e.Dimensions
				fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\n", e.Type, d.Width, d.Height, d.Depth, e.Placement)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
