package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpattn/metacat/internal/domain"
)

// FlatInstance is one pipeline instance collapsed into a single mapping, the
// shape schedulers consume. Derived fields carry the reserved pl_/ent_/sys_
// prefixes; authored config keys are merged in unprefixed.
type FlatInstance map[string]any

// DAGConfig is the full flattened output: one entry per enabled pipeline,
// keyed by the pipeline's compound key with the version segment stripped.
type DAGConfig map[string][]FlatInstance

var reservedPrefixes = []string{"pl_", "ent_", "sys_"}

// HasReservedPrefix reports whether a config key collides with the
// flattener's derived fields.
func HasReservedPrefix(key string) bool {
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// FlattenPipeline flattens every instance of an integrated pipeline, in
// order.
func FlattenPipeline(pl *domain.Pipeline) ([]FlatInstance, error) {
	out := make([]FlatInstance, len(pl.Instances))
	for i := range pl.Instances {
		flat, err := FlattenInstance(pl, i)
		if err != nil {
			return nil, err
		}
		out[i] = flat
	}
	return out, nil
}

// FlattenInstance collapses one instance of an integrated pipeline. Pipeline
// fields land under pl_, the pipeline config merges unprefixed at the top
// level, and each side renders under "i" and "o" keeping its scalar-vs-list
// shape. The pipeline must have been integrated first: instance references
// need their data entities, systems, and schemas embedded.
func FlattenInstance(pl *domain.Pipeline, n int) (FlatInstance, error) {
	if n < 0 || n >= len(pl.Instances) {
		return nil, fmt.Errorf("pipeline %d has no instance %d", pl.ID, n)
	}
	flat := FlatInstance{
		"pl_id":           pl.ID,
		"pl_compound_key": pl.CompoundKey,
		"pl_namespace":    renderRef(pl.Namespace),
		"pl_name":         pl.Name,
		"pl_type":         string(pl.Type),
		"pl_version":      pl.Version,
		"pl_scope":        string(pl.Scope),
		"pl_velocity":     string(pl.Velocity),
	}
	for k, v := range pl.Config {
		flat[k] = domain.CopyValue(v)
	}

	instance := pl.Instances[n]
	in, err := flattenSide(pl.ID, n, "input", instance.Input)
	if err != nil {
		return nil, err
	}
	flat["i"] = in
	out, err := flattenSide(pl.ID, n, "output", instance.Output)
	if err != nil {
		return nil, err
	}
	flat["o"] = out
	return flat, nil
}

// flattenSide keeps the authored shape: a scalar side renders as one mapping,
// a list side as a list of mappings.
func flattenSide(plID, n int, name string, side domain.RefSet) (any, error) {
	refs := side.Refs()
	rendered := make([]map[string]any, len(refs))
	for i, r := range refs {
		m, err := flattenEntityRef(r)
		if err != nil {
			return nil, fmt.Errorf("pipeline %d instances[%d].%s[%d]: %w", plID, n, name, i, err)
		}
		rendered[i] = m
	}
	if !side.IsList() {
		if len(rendered) == 0 {
			return nil, fmt.Errorf("pipeline %d instances[%d].%s is empty", plID, n, name)
		}
		return rendered[0], nil
	}
	out := make([]any, len(rendered))
	for i, m := range rendered {
		out[i] = m
	}
	return out, nil
}

// flattenEntityRef renders one integrated data entity: ent_ fields, the sys_
// fields of its embedded system, then the entity and system configs merged
// unprefixed. The system config wins collisions with the entity config.
func flattenEntityRef(r domain.Ref) (map[string]any, error) {
	obj, ok := r.Object()
	if !ok {
		return nil, fmt.Errorf("reference %s is not integrated", r)
	}
	ent, ok := obj.(*domain.DataEntity)
	if !ok {
		return nil, fmt.Errorf("reference embeds %T, not a data entity", obj)
	}
	sysObj, ok := ent.System.Object()
	if !ok {
		return nil, fmt.Errorf("data entity %d has no integrated system", ent.ID)
	}
	sys, ok := sysObj.(*domain.System)
	if !ok {
		return nil, fmt.Errorf("data entity %d system embeds %T", ent.ID, sysObj)
	}
	schema, err := renderSchema(ent)
	if err != nil {
		return nil, err
	}

	m := map[string]any{
		"ent_id":            ent.ID,
		"ent_compound_key":  ent.CompoundKey,
		"ent_namespace":     renderRef(ent.Namespace),
		"ent_name":          ent.Name,
		"ent_type":          string(ent.Type),
		"ent_interface":     string(ent.Interface),
		"ent_entity_schema": schema,
		"sys_id":            sys.ID,
		"sys_compound_key":  sys.CompoundKey,
		"sys_namespace":     renderRef(sys.Namespace),
		"sys_name":          sys.Name,
		"sys_type":          string(sys.Type),
	}
	for k, v := range ent.Config {
		m[k] = domain.CopyValue(v)
	}
	for k, v := range sys.Config {
		m[k] = domain.CopyValue(v)
	}
	return m, nil
}

// renderSchema inlines the integrated schema as plain JSON data: the full
// schema record as a mapping, or the bare body when integration projected
// schemas down to bodies.
func renderSchema(ent *domain.DataEntity) (any, error) {
	obj, ok := ent.EntitySchema.Object()
	if !ok {
		return nil, fmt.Errorf("data entity %d has no integrated schema", ent.ID)
	}
	if sch, ok := obj.(*domain.Schema); ok {
		return entityToMap(sch)
	}
	return domain.CopyValue(obj), nil
}

// renderRef turns a reference into plain JSON data: an id, a key string, or
// the embedded entity as a mapping.
func renderRef(r domain.Ref) any {
	if obj, ok := r.Object(); ok {
		if e, isEntity := obj.(domain.Entity); isEntity {
			if m, err := entityToMap(e); err == nil {
				return m
			}
		}
		return domain.CopyValue(obj)
	}
	return r.Value()
}

func entityToMap(e any) (map[string]any, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to render entity: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to render entity: %w", err)
	}
	return m, nil
}

// BuildDAGConfig flattens every enabled pipeline of an integrated graph.
// Pipelines are walked in graph order (ascending id), so when several
// versions share a versionless key the newest one wins the entry.
func BuildDAGConfig(integrated *domain.Graph) (DAGConfig, error) {
	cfg := DAGConfig{}
	for _, pl := range integrated.Pipelines {
		if !pl.Enabled {
			continue
		}
		flats, err := FlattenPipeline(pl)
		if err != nil {
			return nil, err
		}
		key, err := versionlessKey(pl)
		if err != nil {
			return nil, err
		}
		cfg[key] = flats
	}
	return cfg, nil
}

func versionlessKey(pl *domain.Pipeline) (string, error) {
	dot := strings.LastIndex(pl.CompoundKey, ".")
	if dot < 0 {
		return "", fmt.Errorf("pipeline %d has no versioned compound key %q", pl.ID, pl.CompoundKey)
	}
	return pl.CompoundKey[:dot], nil
}
