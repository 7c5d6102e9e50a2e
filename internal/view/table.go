package view

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

// Table is a width-computed plain table: bold headers, a ─ separator row,
// and two-space gutters between columns.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a table with the given header row.
func NewTable(w io.Writer, headers []string, noColor bool) *Table {
	return &Table{
		writer:  w,
		headers: headers,
		rows:    make([][]string, 0),
		noColor: noColor,
	}
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table to the writer. A table without headers renders
// nothing.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	if t.noColor {
		bold.DisableColor()
	}
	for i, header := range t.headers {
		bold.Fprint(t.writer, padRight(header, widths[i]))
		if i < len(t.headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	gray := color.New(color.FgHiBlack)
	if t.noColor {
		gray.DisableColor()
	}
	for i, width := range widths {
		gray.Fprint(t.writer, strings.Repeat("─", width))
		if i < len(widths)-1 {
			gray.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprint(t.writer, padRight(cell, widths[i]))
				if i < len(row)-1 {
					fmt.Fprint(t.writer, "  ")
				}
			}
		}
		fmt.Fprintln(t.writer)
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// WriteCollection renders one collection's records as a table under its
// fixed column set.
func WriteCollection(w io.Writer, c domain.Collection, records []domain.Record, noColor bool) {
	table := NewTable(w, Columns(c), noColor)
	for _, rec := range records {
		cells := make([]string, 0, len(Columns(c)))
		for _, col := range Columns(c) {
			cells = append(cells, FormatValue(rec[col]))
		}
		table.AddRow(cells...)
	}
	table.Render()
}

// WriteCounts renders entity counts per collection, in build order.
func WriteCounts(w io.Writer, counts map[domain.Collection]int, noColor bool) {
	table := NewTable(w, []string{"collection", "entities"}, noColor)
	for _, c := range domain.Collections {
		table.AddRow(string(c), fmt.Sprintf("%d", counts[c]))
	}
	table.Render()
}

// WriteDAG renders the dag config: each versionless pipeline key in sorted
// order, followed by its flat instances as indented JSON.
func WriteDAG(w io.Writer, cfg catalog.DAGConfig, noColor bool) error {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bold := color.New(color.Bold, color.FgCyan)
	if noColor {
		bold.DisableColor()
	}
	for _, k := range keys {
		bold.Fprintf(w, "%s (%d instances)\n", k, len(cfg[k]))
		doc, err := json.MarshalIndent(cfg[k], "", "    ")
		if err != nil {
			return fmt.Errorf("failed to render dag entry %q: %w", k, err)
		}
		fmt.Fprintf(w, "%s\n", doc)
	}
	return nil
}
