package catalog

import (
	"strings"
	"testing"

	"github.com/rpattn/metacat/internal/domain"
)

func TestDiffGraphsIdentical(t *testing.T) {
	base := builtFixture(t)
	target := builtFixture(t)

	d, err := DiffGraphs("store", base.Graph, "stash", target.Graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Empty() {
		t.Fatalf("expected no differences, got %+v", d.Entries)
	}
}

func TestDiffGraphs(t *testing.T) {
	base := builtFixture(t)

	g := fixtureGraph()
	g.Namespaces = append(g.Namespaces, &domain.Namespace{
		ID: 2, Name: "ops", Created: fixtureTime, Modified: fixtureTime,
	})
	g.Systems[0].Config["host"] = "erp.cloud"
	g.DataEntities = g.DataEntities[:2]
	g.Pipelines[0].Instances[1].Output = domain.RefList(domain.IDRef(2))
	target, err := NewStructureFromGraph(g, nil)
	if err != nil {
		t.Fatalf("failed to build target: %v", err)
	}
	if !target.Valid() {
		t.Fatalf("target should validate, report: %+v", target.Report)
	}

	d, err := DiffGraphs("store", base.Graph, "stash", target.Graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %+v", d.Entries)
	}

	added := d.Entries[0]
	if added.Status != DiffAdded || added.Collection != domain.CollectionNamespaces || added.Key != "ops" {
		t.Errorf("unexpected first entry: %+v", added)
	}

	changed := d.Entries[1]
	if changed.Status != DiffChanged || changed.Collection != domain.CollectionSystems || changed.Key != "sales.erp" {
		t.Fatalf("unexpected second entry: %+v", changed)
	}
	if !strings.Contains(changed.Diff, `-config.host: "erp.internal"`) {
		t.Errorf("expected the old host in the diff, got:\n%s", changed.Diff)
	}
	if !strings.Contains(changed.Diff, `+config.host: "erp.cloud"`) {
		t.Errorf("expected the new host in the diff, got:\n%s", changed.Diff)
	}

	removed := d.Entries[2]
	if removed.Status != DiffRemoved || removed.Collection != domain.CollectionDataEntities || removed.ID != 3 {
		t.Errorf("unexpected third entry: %+v", removed)
	}
	if removed.Key != "sales.sales.erp.orders_export.dataset" {
		t.Errorf("expected the removed entry keyed from the base graph, got %q", removed.Key)
	}

	pipeline := d.Entries[3]
	if pipeline.Status != DiffChanged || pipeline.Collection != domain.CollectionPipelines {
		t.Fatalf("unexpected fourth entry: %+v", pipeline)
	}
	if !strings.Contains(pipeline.Diff, "-instances[1].output[1]: 3") {
		t.Errorf("expected the dropped output in the diff, got:\n%s", pipeline.Diff)
	}
	if strings.Contains(pipeline.Diff, "compound_key") {
		t.Errorf("derived keys should not be diffed, got:\n%s", pipeline.Diff)
	}
}

func TestDiffGraphsNilBase(t *testing.T) {
	target := builtFixture(t)

	d, err := DiffGraphs("store", nil, "stash", target.Graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0
	for _, c := range domain.Collections {
		want += len(target.Graph.Entities(c))
	}
	if len(d.Entries) != want {
		t.Fatalf("expected %d added entries, got %d", want, len(d.Entries))
	}
	for _, e := range d.Entries {
		if e.Status != DiffAdded {
			t.Fatalf("expected every entry added, got %+v", e)
		}
	}
}
