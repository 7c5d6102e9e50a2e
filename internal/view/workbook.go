package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/metacat/internal/domain"
)

// WriteWorkbook writes the rendered records to an xlsx workbook, one sheet
// per collection: a header row of the collection's columns, then one row per
// record with cells rendered by FormatValue.
func WriteWorkbook(path string, records map[domain.Collection][]domain.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, c := range domain.Collections {
		sheet := string(c)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		cols := Columns(c)
		if err := f.SetSheetRow(sheet, "A1", &cols); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", sheet, err)
		}
		for rowIdx, rec := range records[c] {
			row := make([]any, len(cols))
			for colIdx, col := range cols {
				row[colIdx] = FormatValue(rec[col])
			}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to address row %d in %s: %w", rowIdx+2, sheet, err)
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write row to %s: %w", sheet, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ReadWorkbook reads a workbook back into raw records, the inverse of
// WriteWorkbook. Sheets named after collections are read against their header
// row; other sheets are ignored. The derived compound_key column is dropped
// and cells are coerced back to the authored value shapes by column name.
func ReadWorkbook(path string) (map[domain.Collection][]domain.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	records := make(map[domain.Collection][]domain.Record)
	found := false
	for _, sheet := range f.GetSheetList() {
		c, err := domain.ParseEntityCollection(sheet)
		if err != nil {
			continue
		}
		found = true

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		headers := make([]string, len(rows[0]))
		for i, cell := range rows[0] {
			headers[i] = strings.TrimSpace(cell)
		}

		for i, row := range rows[1:] {
			if emptyRow(row) {
				continue
			}
			rec := make(domain.Record, len(headers))
			for colIdx, header := range headers {
				if header == "" || header == "compound_key" || colIdx >= len(row) {
					continue
				}
				raw := strings.TrimSpace(row[colIdx])
				if raw == "" {
					continue
				}
				value, err := coerceCell(header, raw)
				if err != nil {
					return nil, fmt.Errorf("sheet %s row %d: field %s: %w", sheet, i+2, header, err)
				}
				rec[header] = value
			}
			records[c] = append(records[c], rec)
		}
	}
	if !found {
		return nil, errors.New("workbook has no collection sheets")
	}
	return records, nil
}

// Cell coercion by column name. References may be ids or compound keys, so a
// numeric cell becomes an id and anything else stays a key.
var (
	intColumns  = map[string]bool{"id": true, "version": true}
	boolColumns = map[string]bool{"enabled": true}
	refColumns  = map[string]bool{"namespace": true, "system": true, "entity_schema": true}
	jsonColumns = map[string]bool{"config": true, "checks": true, "instances": true}
)

func coerceCell(column, raw string) (any, error) {
	switch {
	case intColumns[column]:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse %q as a number", raw)
		}
		return i, nil
	case boolColumns[column]:
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, fmt.Errorf("unable to parse %q as a boolean", raw)
		}
		return b, nil
	case refColumns[column]:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		return raw, nil
	case jsonColumns[column]:
		var out any
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("unable to parse %q as json: %v", raw, err)
		}
		return out, nil
	case column == "schema_body":
		// Schema bodies are free-form: structured ones round-trip through
		// json, plain text stays text.
		var out any
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return raw, nil
		}
		return out, nil
	}
	return raw, nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
