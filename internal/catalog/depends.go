package catalog

import (
	"fmt"

	"github.com/rpattn/metacat/internal/domain"
)

// Dependency scans back the delete gate: an entity other entities still
// reference must not be removed. Scans run over the workspace graph, where
// references are id form.

// Dependent describes one entity referencing the delete target.
type Dependent struct {
	Collection  domain.Collection `json:"collection"`
	ID          int               `json:"id"`
	CompoundKey string            `json:"compound_key,omitempty"`
	Name        string            `json:"name"`
}

// DependencyReport is the outcome of a dependency scan.
type DependencyReport struct {
	HasDependents bool        `json:"has_dependents"`
	Dependents    []Dependent `json:"dependents,omitempty"`
}

func (r *DependencyReport) add(e domain.Entity) {
	r.HasDependents = true
	r.Dependents = append(r.Dependents, Dependent{
		Collection:  e.Collection(),
		ID:          e.EntityID(),
		CompoundKey: e.EntityKey(),
		Name:        e.EntityName(),
	})
}

// Dependents scans for entities referencing the target. Pipelines come back
// clean by construction: nothing in the graph references a pipeline.
func Dependents(g *domain.Graph, e domain.Entity) (*DependencyReport, error) {
	switch v := e.(type) {
	case *domain.Namespace:
		return NamespaceDependents(g, v), nil
	case *domain.Schema:
		return SchemaDependents(g, v), nil
	case *domain.System:
		return SystemDependents(g, v), nil
	case *domain.DataEntity:
		return DataEntityDependents(g, v), nil
	case *domain.Pipeline:
		return &DependencyReport{}, nil
	}
	return nil, fmt.Errorf("%w: %T", domain.ErrUnknownEntityType, e)
}

// NamespaceDependents finds every schema, system, data entity, and pipeline
// inside the namespace.
func NamespaceDependents(g *domain.Graph, ns *domain.Namespace) *DependencyReport {
	rep := &DependencyReport{}
	for _, s := range g.Schemas {
		if refersTo(s.Namespace, ns.ID) {
			rep.add(s)
		}
	}
	for _, s := range g.Systems {
		if refersTo(s.Namespace, ns.ID) {
			rep.add(s)
		}
	}
	for _, e := range g.DataEntities {
		if refersTo(e.Namespace, ns.ID) {
			rep.add(e)
		}
	}
	for _, p := range g.Pipelines {
		if refersTo(p.Namespace, ns.ID) {
			rep.add(p)
		}
	}
	return rep
}

// SchemaDependents finds every data entity described by the schema.
func SchemaDependents(g *domain.Graph, s *domain.Schema) *DependencyReport {
	rep := &DependencyReport{}
	for _, e := range g.DataEntities {
		if refersTo(e.EntitySchema, s.ID) {
			rep.add(e)
		}
	}
	return rep
}

// SystemDependents finds every data entity living on the system.
func SystemDependents(g *domain.Graph, s *domain.System) *DependencyReport {
	rep := &DependencyReport{}
	for _, e := range g.DataEntities {
		if refersTo(e.System, s.ID) {
			rep.add(e)
		}
	}
	return rep
}

// DataEntityDependents finds every pipeline touching the entity on either
// side of any instance. A pipeline reading and writing the same entity is
// reported once.
func DataEntityDependents(g *domain.Graph, e *domain.DataEntity) *DependencyReport {
	rep := &DependencyReport{}
	for _, p := range g.Pipelines {
		if pipelineTouches(p, e.ID) {
			rep.add(p)
		}
	}
	return rep
}

func pipelineTouches(p *domain.Pipeline, entityID int) bool {
	for _, instance := range p.Instances {
		for _, r := range instance.Input.Refs() {
			if refersTo(r, entityID) {
				return true
			}
		}
		for _, r := range instance.Output.Refs() {
			if refersTo(r, entityID) {
				return true
			}
		}
	}
	return false
}

// refersTo matches id-form references only. Key-form refs never gate a
// delete: the workspace normalizes them away before any scan runs.
func refersTo(r domain.Ref, id int) bool {
	refID, ok := r.ID()
	return ok && refID == id
}
