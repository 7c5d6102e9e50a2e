package catalog

import (
	"testing"

	"github.com/rpattn/metacat/internal/domain"
)

func TestNamespaceDependentsExactSet(t *testing.T) {
	s := builtFixture(t)
	rep := NamespaceDependents(s.Graph, s.Graph.Namespaces[0])
	if !rep.HasDependents {
		t.Fatalf("the sales namespace is referenced by everything")
	}
	// 1 schema + 1 system + 3 data entities + 1 pipeline.
	if len(rep.Dependents) != 6 {
		t.Fatalf("expected six dependents, got %d: %+v", len(rep.Dependents), rep.Dependents)
	}
	byCollection := map[domain.Collection]int{}
	for _, d := range rep.Dependents {
		byCollection[d.Collection]++
	}
	if byCollection[domain.CollectionSchemas] != 1 ||
		byCollection[domain.CollectionSystems] != 1 ||
		byCollection[domain.CollectionDataEntities] != 3 ||
		byCollection[domain.CollectionPipelines] != 1 {
		t.Errorf("unexpected dependent spread: %v", byCollection)
	}
}

func TestSchemaAndSystemDependents(t *testing.T) {
	s := builtFixture(t)
	rep := SchemaDependents(s.Graph, s.Graph.Schemas[0])
	if len(rep.Dependents) != 3 {
		t.Errorf("all three data entities use the orders schema, got %+v", rep.Dependents)
	}
	rep = SystemDependents(s.Graph, s.Graph.Systems[0])
	if len(rep.Dependents) != 3 {
		t.Errorf("all three data entities live on erp, got %+v", rep.Dependents)
	}
}

func TestDataEntityDependentsDeduplicated(t *testing.T) {
	s := builtFixture(t)
	// Entity 2 appears in both instances of the pipeline; the pipeline is
	// still one dependent.
	rep := DataEntityDependents(s.Graph, s.Graph.DataEntities[1])
	if len(rep.Dependents) != 1 {
		t.Fatalf("expected the pipeline once, got %+v", rep.Dependents)
	}
	d := rep.Dependents[0]
	if d.Collection != domain.CollectionPipelines || d.ID != 1 || d.CompoundKey != "sales.orders_ingest.ingest.1" {
		t.Errorf("unexpected dependent: %+v", d)
	}
}

func TestUnreferencedEntityHasNoDependents(t *testing.T) {
	g := fixtureGraph()
	g.Schemas = append(g.Schemas, &domain.Schema{
		ID: 2, Namespace: domain.IDRef(1), Name: "invoices", Type: domain.SchemaTypeAvro, Version: 1,
		Created: fixtureTime, Modified: fixtureTime,
	})
	s, err := NewStructureFromGraph(g, nil)
	if err != nil {
		t.Fatalf("failed to build: %v", err)
	}
	rep := SchemaDependents(s.Graph, s.Graph.Schemas[1])
	if rep.HasDependents {
		t.Errorf("nothing references the invoices schema: %+v", rep.Dependents)
	}
}

func TestPipelinesNeverHaveDependents(t *testing.T) {
	s := builtFixture(t)
	rep, err := Dependents(s.Graph, s.Graph.Pipelines[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.HasDependents {
		t.Errorf("pipelines cannot be referenced: %+v", rep.Dependents)
	}
}
