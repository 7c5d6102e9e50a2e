// Package view turns built catalog structures into human-facing output:
// per-collection records with readable references, terminal tables,
// validation report rendering, and workbook export. Everything here is a
// stateless projection; nothing in the catalog is mutated.
package view

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

// Records renders every collection of a built structure as ordered records
// with references projected to compound keys. Unlike persisted records these
// carry the derived compound_key, so they are for reading, not for storage.
func Records(s *catalog.Structure) (map[domain.Collection][]domain.Record, error) {
	projected := catalog.ProjectKeys(s.Graph, s.ByID)
	out := make(map[domain.Collection][]domain.Record, len(domain.Collections))
	for _, c := range domain.Collections {
		entities := projected.Entities(c)
		records := make([]domain.Record, 0, len(entities))
		for _, e := range entities {
			raw, err := json.Marshal(e)
			if err != nil {
				return nil, fmt.Errorf("failed to render %s %d: %w", c, e.EntityID(), err)
			}
			var rec domain.Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("failed to render %s %d: %w", c, e.EntityID(), err)
			}
			records = append(records, rec)
		}
		out[c] = records
	}
	return out, nil
}

// Columns is the fixed field order per collection, mirroring the entity
// struct layout. Tables and workbook sheets both render against it so a
// record field can never drift out of position.
func Columns(c domain.Collection) []string {
	switch c {
	case domain.CollectionNamespaces:
		return []string{"id", "compound_key", "name", "description", "created", "modified"}
	case domain.CollectionSchemas:
		return []string{"id", "compound_key", "namespace", "name", "description", "type", "version", "schema_body", "created", "modified"}
	case domain.CollectionSystems:
		return []string{"id", "compound_key", "namespace", "name", "description", "type", "config", "created", "modified"}
	case domain.CollectionDataEntities:
		return []string{"id", "compound_key", "namespace", "system", "name", "description", "type", "interface", "entity_schema", "checks", "config", "created", "modified"}
	case domain.CollectionPipelines:
		return []string{"id", "compound_key", "namespace", "name", "description", "enabled", "version", "scope", "type", "velocity", "instances", "config", "created", "modified"}
	}
	return nil
}

// FormatValue renders one record value as a cell. Maps and lists become
// compact JSON; absent values become the empty string.
func FormatValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case json.Number:
		return v.String()
	case float32, float64, int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%v", v)
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}
