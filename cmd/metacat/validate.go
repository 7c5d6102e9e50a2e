package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/view"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the workspace",
	Long:  "Build the workspace from its source and print the validation report. Exits non-zero when the metadata is invalid.",
	Args:  cobra.NoArgs,
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
		view.WriteReport(a.out, ws.Report, color.NoColor)
		if !ws.Valid() {
			return errors.New("metadata is not valid")
		}
		return nil
	},
}
