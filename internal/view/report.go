package view

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

// WriteReport renders a whole-graph validation report: a green check when
// the graph is clean, otherwise one block per failing entity with a line per
// finding.
func WriteReport(w io.Writer, rep *catalog.Report, noColor bool) {
	if rep == nil {
		return
	}
	if rep.Valid {
		WriteSuccess(w, "metadata valid", noColor)
		return
	}

	red := color.New(color.FgRed, color.Bold)
	if noColor {
		red.DisableColor()
	}
	red.Fprintf(w, "✗ metadata invalid: %d findings\n\n", rep.FindingCount())

	for _, c := range domain.Collections {
		for _, res := range rep.Results[c] {
			WriteResult(w, res, noColor)
		}
	}
}

// WriteResult renders the findings of one entity.
func WriteResult(w io.Writer, res catalog.Result, noColor bool) {
	if res.Valid {
		return
	}
	red := color.New(color.FgRed)
	if noColor {
		red.DisableColor()
	}
	red.Fprintf(w, "✗ %s id %d\n", res.Collection, res.EntityID)
	for _, f := range res.Findings {
		if f.Field == "" {
			fmt.Fprintf(w, "    %s\n", f.Message)
			continue
		}
		fmt.Fprintf(w, "    %s: %s\n", f.Field, f.Message)
	}
}

// WriteDependents renders the entities blocking a delete.
func WriteDependents(w io.Writer, rep *catalog.DependencyReport, noColor bool) {
	if rep == nil || !rep.HasDependents {
		return
	}
	red := color.New(color.FgRed)
	if noColor {
		red.DisableColor()
	}
	red.Fprintf(w, "✗ entity is referenced by %d dependents\n", len(rep.Dependents))
	for _, d := range rep.Dependents {
		if d.CompoundKey != "" {
			fmt.Fprintf(w, "    %s id %d (%s)\n", d.Collection, d.ID, d.CompoundKey)
			continue
		}
		fmt.Fprintf(w, "    %s id %d (%s)\n", d.Collection, d.ID, d.Name)
	}
}

// WriteSuccess renders a green check line.
func WriteSuccess(w io.Writer, message string, noColor bool) {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	green.Fprintf(w, "✓ %s\n", message)
}
