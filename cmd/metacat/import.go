package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/view"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an xlsx workbook as the workspace",
	Long: `Replace the workspace with the contents of an xlsx workbook and write it
back to the --source location. Sheets are matched to collections by name and
cells are parsed back to authored values; records missing created or
modified are stamped with the current time. An invalid workbook is imported
with its validation report shown, and the usual stash and store rules decide
whether it persists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := view.ReadWorkbook(importFile)
		if err != nil {
			return err
		}
		now := time.Now().UTC().Format(time.RFC3339)
		total := 0
		for _, recs := range records {
			for _, rec := range recs {
				if rec["created"] == nil {
					rec["created"] = now
				}
				if rec["modified"] == nil {
					rec["modified"] = now
				}
				total++
			}
		}

		tx, err := a.manager.ImportWorkspace(records)
		if err != nil {
			return err
		}
		if tx.Report != nil {
			view.WriteReport(a.out, tx.Report, color.NoColor)
		}
		view.WriteSuccess(a.out, fmt.Sprintf("imported %d records from %q (tx %s)", total, importFile, tx.ID), color.NoColor)
		return a.persistWorkspace(ctx)
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "catalog.xlsx", "input workbook path")
}
