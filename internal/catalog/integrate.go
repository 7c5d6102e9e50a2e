package catalog

import (
	"fmt"

	"github.com/rpattn/metacat/internal/domain"
)

// IntegrateOptions control how far denormalization collapses the graph.
type IntegrateOptions struct {
	// NamespacesAsNames replaces integrated namespaces with their name, which
	// doubles as their compound key. Embeds the full namespace when false.
	NamespacesAsNames bool
	// SchemasAsBodies replaces integrated schemas with only their schema
	// body. Lossy: a graph integrated this way cannot be deintegrated.
	SchemasAsBodies bool
}

// DefaultIntegrateOptions is the projection the flattener and the dag config
// are built from.
func DefaultIntegrateOptions() IntegrateOptions {
	return IntegrateOptions{NamespacesAsNames: true}
}

// Integrate denormalizes the indexed graph: every foreign-key field on a deep
// copy is replaced by the referenced entity, transitively, so a pipeline
// instance carries its data entities, each with its system and schema
// embedded. Sources are never touched. Collections come out in ascending-id
// order and shared references alias the same integrated copy. A dangling
// reference fails with ErrReferenceNotFound: integration requires a
// referentially valid graph.
func Integrate(idx *IDIndex, opts IntegrateOptions) (*domain.Graph, error) {
	namespaces := make(map[int]*domain.Namespace, len(idx.Namespaces))
	for id, v := range idx.Namespaces {
		namespaces[id] = v.Clone()
	}
	schemas := make(map[int]*domain.Schema, len(idx.Schemas))
	for id, v := range idx.Schemas {
		schemas[id] = v.Clone()
	}
	systems := make(map[int]*domain.System, len(idx.Systems))
	for id, v := range idx.Systems {
		systems[id] = v.Clone()
	}
	entities := make(map[int]*domain.DataEntity, len(idx.DataEntities))
	for id, v := range idx.DataEntities {
		entities[id] = v.Clone()
	}
	pipelines := make(map[int]*domain.Pipeline, len(idx.Pipelines))
	for id, v := range idx.Pipelines {
		pipelines[id] = v.Clone()
	}

	nsRef := func(owner string, id int, ref domain.Ref) (domain.Ref, error) {
		refID, ok := ref.ID()
		if !ok {
			return domain.Ref{}, fmt.Errorf("%w: %s %d namespace reference %s is not an id", domain.ErrReferenceNotFound, owner, id, ref)
		}
		ns, ok := namespaces[refID]
		if !ok {
			return domain.Ref{}, fmt.Errorf("%w: %s %d references namespace %d", domain.ErrReferenceNotFound, owner, id, refID)
		}
		if opts.NamespacesAsNames {
			return domain.KeyRef(ns.Name), nil
		}
		return domain.ObjectRef(ns), nil
	}

	for id, s := range schemas {
		ref, err := nsRef("schema", id, s.Namespace)
		if err != nil {
			return nil, err
		}
		s.Namespace = ref
	}
	for id, s := range systems {
		ref, err := nsRef("system", id, s.Namespace)
		if err != nil {
			return nil, err
		}
		s.Namespace = ref
	}
	for id, e := range entities {
		ref, err := nsRef("data entity", id, e.Namespace)
		if err != nil {
			return nil, err
		}
		e.Namespace = ref

		sysID, ok := e.System.ID()
		if !ok {
			return nil, fmt.Errorf("%w: data entity %d system reference %s is not an id", domain.ErrReferenceNotFound, id, e.System)
		}
		sys, ok := systems[sysID]
		if !ok {
			return nil, fmt.Errorf("%w: data entity %d references system %d", domain.ErrReferenceNotFound, id, sysID)
		}
		e.System = domain.ObjectRef(sys)

		schemaID, ok := e.EntitySchema.ID()
		if !ok {
			return nil, fmt.Errorf("%w: data entity %d schema reference %s is not an id", domain.ErrReferenceNotFound, id, e.EntitySchema)
		}
		sch, ok := schemas[schemaID]
		if !ok {
			return nil, fmt.Errorf("%w: data entity %d references schema %d", domain.ErrReferenceNotFound, id, schemaID)
		}
		if opts.SchemasAsBodies {
			e.EntitySchema = domain.ObjectRef(domain.CopyValue(sch.SchemaBody))
		} else {
			e.EntitySchema = domain.ObjectRef(sch)
		}
	}
	for id, p := range pipelines {
		ref, err := nsRef("pipeline", id, p.Namespace)
		if err != nil {
			return nil, err
		}
		p.Namespace = ref
		for i := range p.Instances {
			in, err := integrateSide(fmt.Sprintf("pipeline %d instances[%d].input", id, i), p.Instances[i].Input, entities)
			if err != nil {
				return nil, err
			}
			p.Instances[i].Input = in
			out, err := integrateSide(fmt.Sprintf("pipeline %d instances[%d].output", id, i), p.Instances[i].Output, entities)
			if err != nil {
				return nil, err
			}
			p.Instances[i].Output = out
		}
	}

	g := &domain.Graph{}
	for _, id := range sortedIDs(namespaces) {
		g.Namespaces = append(g.Namespaces, namespaces[id])
	}
	for _, id := range sortedIDs(schemas) {
		g.Schemas = append(g.Schemas, schemas[id])
	}
	for _, id := range sortedIDs(systems) {
		g.Systems = append(g.Systems, systems[id])
	}
	for _, id := range sortedIDs(entities) {
		g.DataEntities = append(g.DataEntities, entities[id])
	}
	for _, id := range sortedIDs(pipelines) {
		g.Pipelines = append(g.Pipelines, pipelines[id])
	}
	return g, nil
}

func integrateSide(field string, side domain.RefSet, entities map[int]*domain.DataEntity) (domain.RefSet, error) {
	refs := side.Refs()
	out := make([]domain.Ref, len(refs))
	for i, r := range refs {
		id, ok := r.ID()
		if !ok {
			return domain.RefSet{}, fmt.Errorf("%w: %s[%d] reference %s is not an id", domain.ErrReferenceNotFound, field, i, r)
		}
		e, ok := entities[id]
		if !ok {
			return domain.RefSet{}, fmt.Errorf("%w: %s[%d] references data entity %d", domain.ErrReferenceNotFound, field, i, id)
		}
		out[i] = domain.ObjectRef(e)
	}
	return side.WithRefs(out), nil
}
