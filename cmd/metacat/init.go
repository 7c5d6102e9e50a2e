package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/view"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create empty store and stash locations",
	Long:  "Create the configured store and stash locations, each with an empty document per collection.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.manager.InitStore(ctx); err != nil {
			return err
		}
		view.WriteSuccess(a.out, fmt.Sprintf("store created at %q", a.cfg.Store.Path), color.NoColor)

		if err := a.manager.InitStash(ctx); err != nil {
			return err
		}
		view.WriteSuccess(a.out, fmt.Sprintf("stash created at %q", a.cfg.Stash.Path), color.NoColor)
		return nil
	},
}
