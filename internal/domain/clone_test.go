package domain

import (
	"testing"
	"time"
)

func testPipeline() *Pipeline {
	return &Pipeline{
		ID:        5,
		Namespace: IDRef(1),
		Name:      "orders_ingest",
		Enabled:   true,
		Version:   1,
		Scope:     PipelineScopeCompound,
		Type:      PipelineTypeIngest,
		Velocity:  VelocityBatch,
		Instances: InstanceList{
			{Input: SingleRef(IDRef(1)), Output: RefList(IDRef(2), IDRef(3))},
		},
		Config: map[string]any{
			"schedule": "0 4 * * *",
			"retries":  map[string]any{"max": 3},
		},
		Created:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Modified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPipelineCloneIsolation(t *testing.T) {
	original := testPipeline()
	clone := original.Clone()

	clone.Name = "changed"
	clone.Config["schedule"] = "never"
	clone.Config["retries"].(map[string]any)["max"] = 9
	clone.Instances[0].Input = SingleRef(IDRef(99))

	if original.Name != "orders_ingest" {
		t.Errorf("clone mutation leaked into original name: %s", original.Name)
	}
	if original.Config["schedule"] != "0 4 * * *" {
		t.Errorf("clone mutation leaked into original config: %v", original.Config)
	}
	if max := original.Config["retries"].(map[string]any)["max"]; max != 3 {
		t.Errorf("clone mutation leaked into nested config: %v", max)
	}
	if id, _ := original.Instances[0].Input.Refs()[0].ID(); id != 1 {
		t.Errorf("clone mutation leaked into instance refs: %d", id)
	}
}

func TestDataEntityCloneIsolation(t *testing.T) {
	original := &DataEntity{
		ID:           4,
		Namespace:    IDRef(1),
		System:       IDRef(2),
		EntitySchema: IDRef(3),
		Name:         "orders_raw",
		Type:         DataEntityTypeDataset,
		Interface:    InterfaceSQL,
		Checks:       []any{map[string]any{"not_null": "order_id"}},
		Config:       map[string]any{"table": "orders_raw"},
	}
	clone := original.Clone()
	clone.Checks[0].(map[string]any)["not_null"] = "changed"
	clone.Config["table"] = "changed"

	if original.Checks[0].(map[string]any)["not_null"] != "order_id" {
		t.Errorf("check mutation leaked into original: %v", original.Checks)
	}
	if original.Config["table"] != "orders_raw" {
		t.Errorf("config mutation leaked into original: %v", original.Config)
	}
}

func TestGraphCloneIsolation(t *testing.T) {
	g := &Graph{
		Namespaces: []*Namespace{{ID: 1, Name: "sales"}},
		Schemas:    []*Schema{{ID: 1, Namespace: IDRef(1), Name: "orders", Version: 1, SchemaBody: map[string]any{"type": "record"}}},
		Pipelines:  []*Pipeline{testPipeline()},
	}
	clone := g.Clone()

	clone.Namespaces[0].Name = "changed"
	clone.Schemas[0].SchemaBody.(map[string]any)["type"] = "changed"
	clone.Pipelines = clone.Pipelines[:0]

	if g.Namespaces[0].Name != "sales" {
		t.Errorf("namespace mutation leaked into source graph")
	}
	if g.Schemas[0].SchemaBody.(map[string]any)["type"] != "record" {
		t.Errorf("schema body mutation leaked into source graph")
	}
	if len(g.Pipelines) != 1 {
		t.Errorf("pipeline truncation leaked into source graph")
	}
}

func TestCloneEmbeddedRef(t *testing.T) {
	ns := &Namespace{ID: 1, Name: "sales"}
	ref := ObjectRef(ns)
	clone := ref.Clone()

	obj, ok := clone.Object()
	if !ok {
		t.Fatalf("expected embedded object, got %v", clone)
	}
	obj.(*Namespace).Name = "changed"
	if ns.Name != "sales" {
		t.Errorf("embedded clone shares memory with source namespace")
	}
}

func TestGraphRemoveByKey(t *testing.T) {
	g := &Graph{
		Systems: []*System{
			{ID: 1, CompoundKey: "sales.erp", Namespace: IDRef(1), Name: "erp", Type: SystemTypeExternal},
			{ID: 2, CompoundKey: "sales.crm", Namespace: IDRef(1), Name: "crm", Type: SystemTypeExternal},
		},
	}
	if !g.RemoveByKey(CollectionSystems, "sales.erp") {
		t.Fatalf("expected removal of sales.erp")
	}
	if len(g.Systems) != 1 || g.Systems[0].CompoundKey != "sales.crm" {
		t.Fatalf("unexpected systems after removal: %+v", g.Systems)
	}
	if g.RemoveByKey(CollectionSystems, "sales.erp") {
		t.Errorf("second removal should report not found")
	}
}

func TestGraphReplaceByID(t *testing.T) {
	g := &Graph{Namespaces: []*Namespace{{ID: 1, Name: "sales"}, {ID: 2, Name: "hr"}}}
	replaced, err := g.ReplaceByID(&Namespace{ID: 2, Name: "people"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !replaced {
		t.Fatalf("expected replacement of id 2")
	}
	if g.Namespaces[1].Name != "people" {
		t.Errorf("replacement did not land: %+v", g.Namespaces[1])
	}
	replaced, _ = g.ReplaceByID(&Namespace{ID: 9, Name: "ghost"})
	if replaced {
		t.Errorf("expected no replacement for unknown id")
	}
}
