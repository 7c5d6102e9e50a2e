package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/rpattn/metacat/internal/catalog"
)

// WriteGraphDiff renders the differences between two catalogs: one line per
// added or removed entity, changed entities followed by their field diff.
func WriteGraphDiff(w io.Writer, d *catalog.GraphDiff, noColor bool) {
	if d == nil {
		return
	}
	if d.Empty() {
		WriteSuccess(w, fmt.Sprintf("%s and %s are identical", d.BaseLabel, d.TargetLabel), noColor)
		return
	}

	bold := color.New(color.Bold, color.FgCyan)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	if noColor {
		bold.DisableColor()
		green.DisableColor()
		red.DisableColor()
	}

	bold.Fprintf(w, "%s to %s: %d differences\n", d.BaseLabel, d.TargetLabel, len(d.Entries))
	for _, e := range d.Entries {
		label := e.Key
		if label == "" {
			label = fmt.Sprintf("id %d", e.ID)
		}
		switch e.Status {
		case catalog.DiffAdded:
			green.Fprintf(w, "+ %s %s\n", e.Collection, label)
		case catalog.DiffRemoved:
			red.Fprintf(w, "- %s %s\n", e.Collection, label)
		case catalog.DiffChanged:
			fmt.Fprintf(w, "~ %s %s\n", e.Collection, label)
			for _, line := range strings.Split(strings.TrimRight(e.Diff, "\n"), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					green.Fprintf(w, "    %s\n", line)
				case strings.HasPrefix(line, "-"):
					red.Fprintf(w, "    %s\n", line)
				default:
					fmt.Fprintf(w, "    %s\n", line)
				}
			}
		}
	}
}
