package view

import (
	"testing"
	"time"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

var fixtureTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixtureGraph is a minimal valid catalog: one of everything plus a second
// data entity so the pipeline has distinct input and output.
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
				Config:  map[string]any{"host": "erp.internal"},
				Created: fixtureTime, Modified: fixtureTime,
			},
		},
		DataEntities: []*domain.DataEntity{
			{
				ID: 1, Namespace: domain.IDRef(1), System: domain.IDRef(1), Name: "orders_raw",
				Type: domain.DataEntityTypeDataset, Interface: domain.InterfaceSQL, EntitySchema: domain.IDRef(1),
				Config:  map[string]any{"table": "orders_raw"},
				Created: fixtureTime, Modified: fixtureTime,
			},
			{
				ID: 2, Namespace: domain.IDRef(1), System: domain.IDRef(1), Name: "orders_clean",
				Type: domain.DataEntityTypeDataset, Interface: domain.InterfaceSQL, EntitySchema: domain.IDRef(1),
				Created: fixtureTime, Modified: fixtureTime,
			},
		},
		Pipelines: []*domain.Pipeline{
			{
				ID: 1, Namespace: domain.IDRef(1), Name: "orders_ingest", Enabled: true, Version: 1,
				Scope: domain.PipelineScopeCompound, Type: domain.PipelineTypeIngest, Velocity: domain.VelocityBatch,
				Instances: domain.InstanceList{
					{Input: domain.SingleRef(domain.IDRef(1)), Output: domain.SingleRef(domain.IDRef(2))},
				},
				Config:  map[string]any{"schedule": "@daily"},
				Created: fixtureTime, Modified: fixtureTime,
			},
		},
	}
}

func builtStructure(t *testing.T) *catalog.Structure {
	t.Helper()
	s, err := catalog.NewStructureFromGraph(fixtureGraph(), nil)
	if err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}
	if !s.Valid() {
		t.Fatalf("fixture should validate, report: %+v", s.Report)
	}
	return s
}
