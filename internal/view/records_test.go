package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rpattn/metacat/internal/domain"
)

func TestRecordsProjectsCompoundKeys(t *testing.T) {
	s := builtStructure(t)

	records, err := Records(s)
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}

	for _, c := range domain.Collections {
		if len(records[c]) != s.Graph.Counts()[c] {
			t.Fatalf("collection %s: expected %d records, got %d", c, s.Graph.Counts()[c], len(records[c]))
		}
	}

	ns := records[domain.CollectionNamespaces][0]
	if ns["compound_key"] != "sales" {
		t.Fatalf("expected namespace compound_key %q, got %v", "sales", ns["compound_key"])
	}
	if ns["created"] != "2024-03-01T12:00:00Z" {
		t.Fatalf("expected RFC3339 created, got %v", ns["created"])
	}

	schema := records[domain.CollectionSchemas][0]
	if schema["namespace"] != "sales" {
		t.Fatalf("expected namespace ref projected to key, got %v", schema["namespace"])
	}
	if schema["compound_key"] != "orders.1" {
		t.Fatalf("expected schema compound_key %q, got %v", "orders.1", schema["compound_key"])
	}

	entity := records[domain.CollectionDataEntities][0]
	if entity["system"] != "sales.erp" {
		t.Fatalf("expected system ref projected to key, got %v", entity["system"])
	}
	if entity["entity_schema"] != "orders.1" {
		t.Fatalf("expected entity_schema ref projected to key, got %v", entity["entity_schema"])
	}
	if entity["compound_key"] != "sales.sales.erp.orders_raw.dataset" {
		t.Fatalf("unexpected data entity compound_key: %v", entity["compound_key"])
	}

	pipeline := records[domain.CollectionPipelines][0]
	instances, ok := pipeline["instances"].([]any)
	if !ok || len(instances) != 1 {
		t.Fatalf("expected one rendered instance, got %v", pipeline["instances"])
	}
	pair, ok := instances[0].(map[string]any)
	if !ok {
		t.Fatalf("expected instance object, got %T", instances[0])
	}
	if pair["input"] != "sales.sales.erp.orders_raw.dataset" {
		t.Fatalf("expected single input projected to key, got %v", pair["input"])
	}
	if pair["output"] != "sales.sales.erp.orders_clean.dataset" {
		t.Fatalf("expected single output projected to key, got %v", pair["output"])
	}
}

func TestRecordsLeavesGraphUntouched(t *testing.T) {
	s := builtStructure(t)

	if _, err := Records(s); err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}

	if _, ok := s.Graph.Schemas[0].Namespace.ID(); !ok {
		t.Fatalf("rendering should not rewrite the graph's references")
	}
	if _, ok := s.Graph.Pipelines[0].Instances[0].Input.Refs()[0].ID(); !ok {
		t.Fatalf("rendering should not rewrite instance references")
	}
}

func TestColumnsCoverEveryCollection(t *testing.T) {
	for _, c := range domain.Collections {
		cols := Columns(c)
		if len(cols) == 0 {
			t.Fatalf("collection %s has no columns", c)
		}
		if cols[0] != "id" || cols[1] != "compound_key" {
			t.Fatalf("collection %s should lead with id and compound_key, got %v", c, cols[:2])
		}
	}
	if Columns(domain.Collection("bogus")) != nil {
		t.Fatalf("unknown collection should have no columns")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "plain", "plain"},
		{"stringer", domain.CollectionSchemas, "schemas"},
		{"time", fixtureTime, "2024-03-01T12:00:00Z"},
		{"time non-utc", fixtureTime.In(time.FixedZone("CET", 3600)), "2024-03-01T12:00:00Z"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"number", json.Number("42"), "42"},
		{"whole float", float64(7), "7"},
		{"fraction", 3.5, "3.5"},
		{"int", 12, "12"},
		{"map", map[string]any{"a": 1}, `{"a":1}`},
		{"list", []any{"x", "y"}, `["x","y"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
