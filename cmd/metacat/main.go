package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configPath string
	sourceName string
	debug      bool
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "metacat",
	Short: "Metadata catalog manager for a data platform",
	Long: `metacat manages a typed metadata catalog: namespaces, schemas, systems,
data entities, and pipelines. It derives compound keys, validates references,
stages every change through a validate-then-commit transaction, and flattens
enabled pipelines into the dag configuration the scheduler consumes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml, then $HOME/.metacat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourceName, "source", "store", "location the workspace loads from (store|stash)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose development logging")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(stashCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(publishDAGCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(nextIDCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
