package catalog

import (
	"errors"
	"testing"

	"github.com/rpattn/metacat/internal/domain"
)

func TestIntegrateDefaultProjection(t *testing.T) {
	s := builtFixture(t)
	integrated, err := Integrate(s.ByID, DefaultIntegrateOptions())
	if err != nil {
		t.Fatalf("failed to integrate: %v", err)
	}

	// Namespaces collapse to their name, which is also their key.
	if key, ok := integrated.Schemas[0].Namespace.Key(); !ok || key != "sales" {
		t.Errorf("schema namespace should collapse to its name, got %v", integrated.Schemas[0].Namespace)
	}

	// Data entities embed their system and schema.
	ent := integrated.DataEntities[0]
	sysObj, ok := ent.System.Object()
	if !ok {
		t.Fatalf("entity system should be embedded, got %v", ent.System)
	}
	sys := sysObj.(*domain.System)
	if sys.Name != "erp" {
		t.Errorf("embedded system should be erp, got %+v", sys)
	}
	if key, ok := sys.Namespace.Key(); !ok || key != "sales" {
		t.Errorf("embedded system's namespace should collapse too, got %v", sys.Namespace)
	}
	schObj, ok := ent.EntitySchema.Object()
	if !ok {
		t.Fatalf("entity schema should be embedded, got %v", ent.EntitySchema)
	}
	if schObj.(*domain.Schema).Name != "orders" {
		t.Errorf("embedded schema should be orders, got %+v", schObj)
	}

	// Pipeline instances embed their data entities, transitively integrated.
	in := integrated.Pipelines[0].Instances[0].Input
	inObj, ok := in.Refs()[0].Object()
	if !ok {
		t.Fatalf("instance input should be embedded, got %v", in.Refs()[0])
	}
	if _, ok := inObj.(*domain.DataEntity).System.Object(); !ok {
		t.Errorf("embedded instance entity should carry its embedded system")
	}
}

func TestIntegrateFullNamespaces(t *testing.T) {
	s := builtFixture(t)
	integrated, err := Integrate(s.ByID, IntegrateOptions{})
	if err != nil {
		t.Fatalf("failed to integrate: %v", err)
	}
	obj, ok := integrated.Systems[0].Namespace.Object()
	if !ok {
		t.Fatalf("expected embedded namespace, got %v", integrated.Systems[0].Namespace)
	}
	if obj.(*domain.Namespace).Name != "sales" {
		t.Errorf("unexpected embedded namespace: %+v", obj)
	}
}

func TestIntegrateSchemasAsBodies(t *testing.T) {
	s := builtFixture(t)
	integrated, err := Integrate(s.ByID, IntegrateOptions{NamespacesAsNames: true, SchemasAsBodies: true})
	if err != nil {
		t.Fatalf("failed to integrate: %v", err)
	}
	obj, ok := integrated.DataEntities[0].EntitySchema.Object()
	if !ok {
		t.Fatalf("expected embedded schema body, got %v", integrated.DataEntities[0].EntitySchema)
	}
	body, ok := obj.(map[string]any)
	if !ok {
		t.Fatalf("expected the bare body mapping, got %T", obj)
	}
	if body["type"] != "record" {
		t.Errorf("unexpected schema body: %v", body)
	}
}

func TestIntegrateNeverMutatesSources(t *testing.T) {
	s := builtFixture(t)
	integrated, err := Integrate(s.ByID, DefaultIntegrateOptions())
	if err != nil {
		t.Fatalf("failed to integrate: %v", err)
	}

	// Mutate the integrated copy hard.
	integrated.Systems[0].Config["host"] = "changed"
	obj, _ := integrated.DataEntities[0].System.Object()
	obj.(*domain.System).Name = "changed"

	if s.Graph.Systems[0].Config["host"] != "erp.internal" {
		t.Errorf("integration shares config maps with the source graph")
	}
	if s.Graph.Systems[0].Name != "erp" {
		t.Errorf("integration shares entities with the source graph")
	}
	if _, ok := s.Graph.DataEntities[0].System.ID(); !ok {
		t.Errorf("source refs should remain id form, got %v", s.Graph.DataEntities[0].System)
	}
}

func TestIntegrateDanglingReference(t *testing.T) {
	g := fixtureGraph()
	g.DataEntities[0].EntitySchema = domain.IDRef(77)
	idx, err := BuildIDIndex(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	DeriveKeys(idx)
	if _, err := Integrate(idx, DefaultIntegrateOptions()); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected reference not found, got %v", err)
	}
}
