package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

var addFile string

var addCmd = &cobra.Command{
	Use:   "add <collection>",
	Short: "Add an entity to the workspace",
	Long: `Add the entity defined in the given JSON file. Missing id, created, and
modified fields are filled in; references may be numeric ids or compound
keys. The change only lands if the whole workspace still validates, and a
committed change is written back to the source location.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := domain.ParseEntityCollection(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.loadWorkspace(ctx); err != nil {
			return err
		}

		rec, err := readRecordFile(addFile)
		if err != nil {
			return err
		}
		if rec["id"] == nil {
			id, err := a.manager.NextFreeID(c)
			if err != nil {
				return err
			}
			rec["id"] = id
		}
		now := time.Now().UTC().Format(time.RFC3339)
		if rec["created"] == nil {
			rec["created"] = now
		}
		if rec["modified"] == nil {
			rec["modified"] = now
		}

		e, err := catalog.DecodeEntity(c, rec)
		if err != nil {
			return err
		}
		tx, err := a.manager.AddEntity(ctx, e)
		if err != nil {
			return err
		}
		if err := a.reportTx(tx, fmt.Sprintf("added %q to %s", e.EntityName(), c)); err != nil {
			return err
		}
		if !tx.Committed {
			return nil
		}
		return a.persistWorkspace(ctx)
	},
}

func init() {
	addCmd.Flags().StringVar(&addFile, "file", "", "entity definition file (JSON)")
	addCmd.MarkFlagRequired("file")
}
