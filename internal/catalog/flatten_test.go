package catalog

import (
	"testing"
)

func TestFlattenInstanceFields(t *testing.T) {
	s := builtFixture(t)
	pl := s.Integrated.Pipelines[0]
	flat, err := FlattenInstance(pl, 0)
	if err != nil {
		t.Fatalf("failed to flatten: %v", err)
	}

	want := map[string]any{
		"pl_id":           1,
		"pl_compound_key": "sales.orders_ingest.ingest.1",
		"pl_namespace":    "sales",
		"pl_name":         "orders_ingest",
		"pl_type":         "ingest",
		"pl_version":      1,
		"pl_scope":        "compound",
		"pl_velocity":     "batch",
		"schedule":        "@daily",
	}
	for k, v := range want {
		if flat[k] != v {
			t.Errorf("flat[%q]: expected %v got %v", k, v, flat[k])
		}
	}

	in, ok := flat["i"].(map[string]any)
	if !ok {
		t.Fatalf("scalar input side should render as one mapping, got %T", flat["i"])
	}
	if in["ent_id"] != 1 || in["ent_compound_key"] != "sales.sales.erp.orders_raw.dataset" {
		t.Errorf("unexpected input entity fields: %v", in)
	}
	if in["ent_name"] != "orders_raw" || in["ent_type"] != "dataset" || in["ent_interface"] != "sql" {
		t.Errorf("unexpected input entity fields: %v", in)
	}
	if in["sys_id"] != 1 || in["sys_compound_key"] != "sales.erp" || in["sys_name"] != "erp" || in["sys_type"] != "external" {
		t.Errorf("unexpected input system fields: %v", in)
	}
	if in["ent_namespace"] != "sales" || in["sys_namespace"] != "sales" {
		t.Errorf("namespaces should flatten to names: %v", in)
	}

	schema, ok := in["ent_entity_schema"].(map[string]any)
	if !ok {
		t.Fatalf("ent_entity_schema should inline the schema as a mapping, got %T", in["ent_entity_schema"])
	}
	if schema["name"] != "orders" {
		t.Errorf("unexpected inlined schema: %v", schema)
	}
	body, ok := schema["schema_body"].(map[string]any)
	if !ok || body["type"] != "record" {
		t.Errorf("inlined schema should carry its body: %v", schema)
	}
}

func TestFlattenConfigMergePrecedence(t *testing.T) {
	s := builtFixture(t)
	flat, err := FlattenInstance(s.Integrated.Pipelines[0], 0)
	if err != nil {
		t.Fatalf("failed to flatten: %v", err)
	}
	in := flat["i"].(map[string]any)

	// The entity and system both set "shared"; the system merges last and
	// wins.
	if in["shared"] != "from_system" {
		t.Errorf("system config should win the collision, got %v", in["shared"])
	}
	if in["table"] != "orders_raw" {
		t.Errorf("entity config should merge in, got %v", in["table"])
	}
	if in["host"] != "erp.internal" {
		t.Errorf("system config should merge in, got %v", in["host"])
	}
}

func TestFlattenPreservesSideShapes(t *testing.T) {
	s := builtFixture(t)
	flat, err := FlattenInstance(s.Integrated.Pipelines[0], 1)
	if err != nil {
		t.Fatalf("failed to flatten: %v", err)
	}
	in, ok := flat["i"].([]any)
	if !ok {
		t.Fatalf("list input side should render as a list, got %T", flat["i"])
	}
	if len(in) != 1 {
		t.Errorf("expected one input entity, got %d", len(in))
	}
	out, ok := flat["o"].([]any)
	if !ok {
		t.Fatalf("list output side should render as a list, got %T", flat["o"])
	}
	if len(out) != 2 {
		t.Errorf("expected two output entities, got %d", len(out))
	}
	second := out[1].(map[string]any)
	if second["ent_name"] != "orders_export" || second["ent_interface"] != "google_cloud_storage" {
		t.Errorf("unexpected second output entity: %v", second)
	}
}

func TestFlattenRequiresIntegration(t *testing.T) {
	s := builtFixture(t)
	// The workspace pipeline still has id-form refs.
	if _, err := FlattenInstance(s.Graph.Pipelines[0], 0); err == nil {
		t.Fatalf("flattening an unintegrated pipeline should fail")
	}
}

func TestBuildDAGConfig(t *testing.T) {
	s := builtFixture(t)
	cfg, err := BuildDAGConfig(s.Integrated)
	if err != nil {
		t.Fatalf("failed to build dag config: %v", err)
	}
	entry, ok := cfg["sales.orders_ingest.ingest"]
	if !ok {
		t.Fatalf("expected the versionless pipeline key, got %v", keysOf(cfg))
	}
	if len(entry) != 2 {
		t.Errorf("expected two flat instances, got %d", len(entry))
	}
}

func TestBuildDAGConfigSkipsDisabled(t *testing.T) {
	g := fixtureGraph()
	g.Pipelines[0].Enabled = false
	s, err := NewStructureFromGraph(g, nil)
	if err != nil {
		t.Fatalf("failed to build: %v", err)
	}
	if len(s.DAG) != 0 {
		t.Errorf("disabled pipelines must not reach the dag config: %v", keysOf(s.DAG))
	}
}

func TestBuildDAGConfigLaterVersionWins(t *testing.T) {
	g := fixtureGraph()
	v2 := g.Pipelines[0].Clone()
	v2.ID = 2
	v2.Version = 2
	v2.Config = map[string]any{"schedule": "@hourly"}
	g.Pipelines = append(g.Pipelines, v2)

	s, err := NewStructureFromGraph(g, nil)
	if err != nil {
		t.Fatalf("failed to build: %v", err)
	}
	if len(s.DAG) != 1 {
		t.Fatalf("both versions share one dag key, got %v", keysOf(s.DAG))
	}
	entry := s.DAG["sales.orders_ingest.ingest"]
	if entry[0]["pl_version"] != 2 {
		t.Errorf("the newer version should win the entry, got %v", entry[0]["pl_version"])
	}
	if entry[0]["schedule"] != "@hourly" {
		t.Errorf("the newer version's config should win, got %v", entry[0]["schedule"])
	}
}

func TestHasReservedPrefix(t *testing.T) {
	for key, want := range map[string]bool{
		"pl_id":     true,
		"ent_extra": true,
		"sys_host":  true,
		"schedule":  false,
		"plain":     false,
		"entity":    false,
	} {
		if got := HasReservedPrefix(key); got != want {
			t.Errorf("HasReservedPrefix(%q): expected %v got %v", key, want, got)
		}
	}
}

func keysOf(cfg DAGConfig) []string {
	out := make([]string, 0, len(cfg))
	for k := range cfg {
		out = append(out, k)
	}
	return out
}
