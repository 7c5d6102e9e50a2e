package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/domain"
)

var nextIDCmd = &cobra.Command{
	Use:   "next-id <collection>",
	Short: "Print the next free id for a collection",
	Args:  cobra.ExactArgs(1),
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

		id, err := a.manager.NextFreeID(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, id)
		return nil
	},
}
