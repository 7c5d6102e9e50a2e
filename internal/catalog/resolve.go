package catalog

import (
	"fmt"

	"github.com/rpattn/metacat/internal/domain"
)

// Reference conversion between the three wire forms. Persisted records use
// ids; authored entities may use compound keys; integrated copies embed the
// entities themselves. The workspace always holds id form, so every mutation
// normalizes before the graph is touched.

// NormalizeRefs rewrites key-form references on one entity to id form using
// the key index. Id-form refs pass through untouched; an unknown key is an
// ErrUnresolvedReference.
func NormalizeRefs(e domain.Entity, kidx *KeyIndex) error {
	switch v := e.(type) {
	case *domain.Namespace:
		return nil
	case *domain.Schema:
		ref, err := resolveRef("namespace", v.Namespace, domain.CollectionNamespaces, kidx)
		if err != nil {
			return err
		}
		v.Namespace = ref
	case *domain.System:
		ref, err := resolveRef("namespace", v.Namespace, domain.CollectionNamespaces, kidx)
		if err != nil {
			return err
		}
		v.Namespace = ref
	case *domain.DataEntity:
		ref, err := resolveRef("namespace", v.Namespace, domain.CollectionNamespaces, kidx)
		if err != nil {
			return err
		}
		v.Namespace = ref
		ref, err = resolveRef("system", v.System, domain.CollectionSystems, kidx)
		if err != nil {
			return err
		}
		v.System = ref
		ref, err = resolveRef("entity_schema", v.EntitySchema, domain.CollectionSchemas, kidx)
		if err != nil {
			return err
		}
		v.EntitySchema = ref
	case *domain.Pipeline:
		ref, err := resolveRef("namespace", v.Namespace, domain.CollectionNamespaces, kidx)
		if err != nil {
			return err
		}
		v.Namespace = ref
		for i := range v.Instances {
			in, err := resolveSide(fmt.Sprintf("instances[%d].input", i), v.Instances[i].Input, kidx)
			if err != nil {
				return err
			}
			v.Instances[i].Input = in
			out, err := resolveSide(fmt.Sprintf("instances[%d].output", i), v.Instances[i].Output, kidx)
			if err != nil {
				return err
			}
			v.Instances[i].Output = out
		}
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownEntityType, e)
	}
	return nil
}

// NormalizeGraphRefs normalizes every entity in the graph, in place.
func NormalizeGraphRefs(g *domain.Graph, kidx *KeyIndex) error {
	for _, c := range domain.Collections {
		for _, e := range g.Entities(c) {
			if err := NormalizeRefs(e, kidx); err != nil {
				return fmt.Errorf("%s %d: %w", c, e.EntityID(), err)
			}
		}
	}
	return nil
}

func resolveSide(field string, side domain.RefSet, kidx *KeyIndex) (domain.RefSet, error) {
	refs := side.Refs()
	out := make([]domain.Ref, len(refs))
	for i, r := range refs {
		resolved, err := resolveRef(fmt.Sprintf("%s[%d]", field, i), r, domain.CollectionDataEntities, kidx)
		if err != nil {
			return domain.RefSet{}, err
		}
		out[i] = resolved
	}
	return side.WithRefs(out), nil
}

func resolveRef(field string, ref domain.Ref, target domain.Collection, kidx *KeyIndex) (domain.Ref, error) {
	switch ref.Kind() {
	case domain.RefID:
		return ref, nil
	case domain.RefKey:
		key, _ := ref.Key()
		e, ok := kidx.Lookup(target, key)
		if !ok {
			return domain.Ref{}, fmt.Errorf("%w: %s %q has no %s behind it", domain.ErrUnresolvedReference, field, key, target)
		}
		return domain.IDRef(e.EntityID()), nil
	case domain.RefObject:
		if e, ok := embeddedEntity(ref); ok {
			return domain.IDRef(e.EntityID()), nil
		}
		return domain.Ref{}, fmt.Errorf("%w: %s carries an embedded value with no id", domain.ErrUnresolvedReference, field)
	}
	return domain.Ref{}, fmt.Errorf("%w: %s is empty", domain.ErrUnresolvedReference, field)
}

func embeddedEntity(ref domain.Ref) (domain.Entity, bool) {
	obj, ok := ref.Object()
	if !ok {
		return nil, false
	}
	e, ok := obj.(domain.Entity)
	return e, ok
}

// ProjectKeys returns a deep copy of the graph with id-form references
// replaced by the referenced entity's compound key. Views and exports use it;
// refs that cannot be projected stay as they are, so an invalid workspace
// still renders.
func ProjectKeys(g *domain.Graph, idx *IDIndex) *domain.Graph {
	out := g.Clone()
	for _, s := range out.Schemas {
		s.Namespace = keyForm(s.Namespace, domain.CollectionNamespaces, idx)
	}
	for _, s := range out.Systems {
		s.Namespace = keyForm(s.Namespace, domain.CollectionNamespaces, idx)
	}
	for _, e := range out.DataEntities {
		e.Namespace = keyForm(e.Namespace, domain.CollectionNamespaces, idx)
		e.System = keyForm(e.System, domain.CollectionSystems, idx)
		e.EntitySchema = keyForm(e.EntitySchema, domain.CollectionSchemas, idx)
	}
	for _, p := range out.Pipelines {
		p.Namespace = keyForm(p.Namespace, domain.CollectionNamespaces, idx)
		for i := range p.Instances {
			p.Instances[i].Input = keyFormSide(p.Instances[i].Input, idx)
			p.Instances[i].Output = keyFormSide(p.Instances[i].Output, idx)
		}
	}
	return out
}

func keyFormSide(side domain.RefSet, idx *IDIndex) domain.RefSet {
	refs := side.Refs()
	out := make([]domain.Ref, len(refs))
	for i, r := range refs {
		out[i] = keyForm(r, domain.CollectionDataEntities, idx)
	}
	return side.WithRefs(out)
}

func keyForm(ref domain.Ref, target domain.Collection, idx *IDIndex) domain.Ref {
	id, ok := ref.ID()
	if !ok {
		return ref
	}
	e, ok := idx.Lookup(target, id)
	if !ok || e.EntityKey() == "" {
		return ref
	}
	return domain.KeyRef(e.EntityKey())
}

// Deintegrate folds an integrated graph back to id form: embedded entities
// and key projections become plain id refs. Together with Integrate it
// round-trips the id-indexed graph, compound keys aside.
func Deintegrate(g *domain.Graph, kidx *KeyIndex) (*domain.Graph, error) {
	out := g.Clone()
	if err := NormalizeGraphRefs(out, kidx); err != nil {
		return nil, err
	}
	return out, nil
}
