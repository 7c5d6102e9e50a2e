package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/domain"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <collection> <key>",
	Short: "Delete an entity from the workspace",
	Long: `Delete the entity behind the given compound key. Deletion is refused while
other entities still reference the target; pipelines are never referenced
and always delete.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := domain.ParseEntityCollection(args[0])
		if err != nil {
			return err
		}
		key := args[1]
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.loadWorkspace(ctx); err != nil {
			return err
		}

		tx, err := a.manager.DeleteEntity(ctx, c, key)
		if err != nil {
			return err
		}
		if err := a.reportTx(tx, fmt.Sprintf("deleted %s %q", c, key)); err != nil {
			return err
		}
		if !tx.Committed {
			return nil
		}
		return a.persistWorkspace(ctx)
	},
}
