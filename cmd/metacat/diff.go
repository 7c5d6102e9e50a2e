package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/manager"
	"github.com/rpattn/metacat/internal/view"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the stash against the store",
	Long: `Compare the stashed workspace against the committed store, entity by
entity: added and removed entities on one line each, changed entities with
a field-level diff. Derived compound keys are not compared.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.manager.LoadCurrent(ctx); err != nil {
			return err
		}
		if err := a.manager.LoadWorkspace(ctx, manager.SourceStash); err != nil {
			return err
		}

		d, err := catalog.DiffGraphs(
			"store", a.manager.Current().Graph,
			"stash", a.manager.Workspace().Graph,
		)
		if err != nil {
			return err
		}
		view.WriteGraphDiff(a.out, d, color.NoColor)
		return nil
	},
}
