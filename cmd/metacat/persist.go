package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stashCmd = &cobra.Command{
	Use:   "stash",
	Short: "Write the workspace to the stash",
	Long:  "Write the workspace to the stash location. An invalid workspace may be stashed after confirmation.",
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

		tx, err := a.manager.StashWorkspace(ctx)
		if err != nil {
			return err
		}
		return a.reportTx(tx, fmt.Sprintf("workspace stashed at %q", a.cfg.Stash.Path))
	},
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Commit the workspace to the store",
	Long:  "Write the workspace to the store location. An invalid workspace is refused outright.",
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

		tx, err := a.manager.StoreWorkspace(ctx)
		if err != nil {
			return err
		}
		return a.reportTx(tx, fmt.Sprintf("workspace stored at %q", a.cfg.Store.Path))
	},
}

var publishDAGCmd = &cobra.Command{
	Use:   "publish-dag",
	Short: "Publish the dag configuration to the store",
	Long:  "Flatten the workspace's enabled pipelines and write the dag_config document to the store.",
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

		tx, err := a.manager.PublishDAGConfig(ctx)
		if err != nil {
			return err
		}
		entries := len(a.manager.Workspace().DAG)
		return a.reportTx(tx, fmt.Sprintf("published %d dag entries to %q", entries, a.cfg.Store.Path))
	},
}
