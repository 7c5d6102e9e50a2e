package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

var editFile string

var editCmd = &cobra.Command{
	Use:   "edit <collection> <key>",
	Short: "Replace an entity in the workspace",
	Long: `Replace the entity behind the given compound key with the definition in
the JSON file. The id is taken from the existing entity when the file
omits it and must match when it does not; the modification time is
stamped on commit.`,
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

		existing, err := a.manager.EntityByKey(c, key)
		if err != nil {
			return err
		}
		rec, err := readRecordFile(editFile)
		if err != nil {
			return err
		}
		if rec["id"] == nil {
			rec["id"] = existing.EntityID()
		}
		e, err := catalog.DecodeEntity(c, fillTimes(rec, existing))
		if err != nil {
			return err
		}
		if e.EntityID() != existing.EntityID() {
			return fmt.Errorf("file id %d does not match %q (id %d)", e.EntityID(), key, existing.EntityID())
		}
		tx, err := a.manager.UpdateEntity(ctx, e)
		if err != nil {
			return err
		}
		if err := a.reportTx(tx, fmt.Sprintf("updated %s %q", c, key)); err != nil {
			return err
		}
		if !tx.Committed {
			return nil
		}
		return a.persistWorkspace(ctx)
	},
}

// fillTimes carries the existing entity's timestamps into a record that omits
// them. The manager restamps modified on commit regardless.
func fillTimes(rec domain.Record, existing domain.Entity) domain.Record {
	created, modified := entityTimes(existing)
	if rec["created"] == nil {
		rec["created"] = created.UTC().Format(time.RFC3339)
	}
	if rec["modified"] == nil {
		rec["modified"] = modified.UTC().Format(time.RFC3339)
	}
	return rec
}

func entityTimes(e domain.Entity) (time.Time, time.Time) {
	switch v := e.(type) {
	case *domain.Namespace:
		return v.Created, v.Modified
	case *domain.Schema:
		return v.Created, v.Modified
	case *domain.System:
		return v.Created, v.Modified
	case *domain.DataEntity:
		return v.Created, v.Modified
	case *domain.Pipeline:
		return v.Created, v.Modified
	}
	return time.Time{}, time.Time{}
}

func init() {
	editCmd.Flags().StringVar(&editFile, "file", "", "entity definition file (JSON)")
	editCmd.MarkFlagRequired("file")
}
