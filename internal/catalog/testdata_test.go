package catalog

import (
	"testing"
	"time"

	"github.com/rpattn/metacat/internal/domain"
)

var fixtureTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixtureGraph is a small but complete catalog: one namespace, one schema,
// one system, three data entities, and a two-instance ingest pipeline
// exercising both side shapes.
func fixtureGraph() *domain.Graph {
	return &domain.Graph{
		Namespaces: []*domain.Namespace{
			{ID: 1, Name: "sales", Description: "sales domain", Created: fixtureTime, Modified: fixtureTime},
		},
		Schemas: []*domain.Schema{
			{
				ID: 1, Namespace: domain.IDRef(1), Name: "orders", Type: domain.SchemaTypeAvro, Version: 1,
				SchemaBody: map[string]any{"type": "record", "name": "orders"},
				Created:    fixtureTime, Modified: fixtureTime,
			},
		},
		Systems: []*domain.System{
			{
				ID: 1, Namespace: domain.IDRef(1), Name: "erp", Type: domain.SystemTypeExternal,
				Config:  map[string]any{"host": "erp.internal", "shared": "from_system"},
				Created: fixtureTime, Modified: fixtureTime,
			},
		},
		DataEntities: []*domain.DataEntity{
			{
				ID: 1, Namespace: domain.IDRef(1), System: domain.IDRef(1), Name: "orders_raw",
				Type: domain.DataEntityTypeDataset, Interface: domain.InterfaceSQL, EntitySchema: domain.IDRef(1),
				Config:  map[string]any{"table": "orders_raw", "shared": "from_entity"},
				Created: fixtureTime, Modified: fixtureTime,
			},
			{
				ID: 2, Namespace: domain.IDRef(1), System: domain.IDRef(1), Name: "orders_clean",
				Type: domain.DataEntityTypeDataset, Interface: domain.InterfaceSQL, EntitySchema: domain.IDRef(1),
				Config:  map[string]any{"table": "orders_clean"},
				Created: fixtureTime, Modified: fixtureTime,
			},
			{
				ID: 3, Namespace: domain.IDRef(1), System: domain.IDRef(1), Name: "orders_export",
				Type: domain.DataEntityTypeDataset, Interface: domain.InterfaceGoogleCloudStorage, EntitySchema: domain.IDRef(1),
				Created: fixtureTime, Modified: fixtureTime,
			},
		},
		Pipelines: []*domain.Pipeline{
			{
				ID: 1, Namespace: domain.IDRef(1), Name: "orders_ingest", Enabled: true, Version: 1,
				Scope: domain.PipelineScopeCompound, Type: domain.PipelineTypeIngest, Velocity: domain.VelocityBatch,
				Instances: domain.InstanceList{
					{Input: domain.SingleRef(domain.IDRef(1)), Output: domain.SingleRef(domain.IDRef(2))},
					{Input: domain.RefList(domain.IDRef(1)), Output: domain.RefList(domain.IDRef(2), domain.IDRef(3))},
				},
				Config:  map[string]any{"schedule": "@daily"},
				Created: fixtureTime, Modified: fixtureTime,
			},
		},
	}
}

func builtFixture(t *testing.T) *Structure {
	t.Helper()
	s, err := NewStructureFromGraph(fixtureGraph(), nil)
	if err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}
	if !s.Valid() {
		t.Fatalf("fixture should validate, report: %+v", s.Report)
	}
	return s
}

func fixtureRecords(t *testing.T) map[domain.Collection][]domain.Record {
	t.Helper()
	g := fixtureGraph()
	out := make(map[domain.Collection][]domain.Record, len(domain.Collections))
	for _, c := range domain.Collections {
		doc, err := EncodeCollection(g, c)
		if err != nil {
			t.Fatalf("failed to encode %s: %v", c, err)
		}
		records, err := DecodeRecords(doc)
		if err != nil {
			t.Fatalf("failed to re-decode %s: %v", c, err)
		}
		out[c] = records
	}
	return out
}
