package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/domain"
	"github.com/rpattn/metacat/internal/view"
)

var showCmd = &cobra.Command{
	Use:   "show [collection]",
	Short: "Show catalog collections as tables",
	Long: `Show the workspace as tables with references rendered as compound keys.
Without an argument every collection is shown with its entity counts;
"dag_config" shows the flattened pipeline configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.loadWorkspace(ctx); err != nil {
			return err
		}

		ws := a.manager.Workspace()
		if len(args) == 0 {
			records, err := view.Records(ws)
			if err != nil {
				return err
			}
			view.WriteCounts(a.out, ws.Graph.Counts(), color.NoColor)
			for _, c := range domain.Collections {
				fmt.Fprintf(a.out, "\n%s\n", c)
				view.WriteCollection(a.out, c, records[c], color.NoColor)
			}
			return nil
		}

		c, err := domain.ParseCollection(args[0])
		if err != nil {
			return err
		}
		if c == domain.CollectionDAGConfig {
			if !ws.Valid() {
				view.WriteReport(a.out, ws.Report, color.NoColor)
				return errors.New("dag config unavailable: workspace is invalid")
			}
			return view.WriteDAG(a.out, ws.DAG, color.NoColor)
		}
		records, err := view.Records(ws)
		if err != nil {
			return err
		}
		view.WriteCollection(a.out, c, records[c], color.NoColor)
		return nil
	},
}
