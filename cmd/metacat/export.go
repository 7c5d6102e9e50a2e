package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/view"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the workspace to an xlsx workbook",
	Long:  "Write the workspace to an xlsx workbook, one sheet per collection, with references rendered as compound keys.",
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

		records, err := view.Records(a.manager.Workspace())
		if err != nil {
			return err
		}
		if err := view.WriteWorkbook(exportFile, records); err != nil {
			return err
		}
		view.WriteSuccess(a.out, fmt.Sprintf("exported to %q", exportFile), color.NoColor)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFile, "file", "catalog.xlsx", "output workbook path")
}
