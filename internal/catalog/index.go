// Package catalog builds and validates the metadata structure: typed
// decoding, id and key indexes, compound-key derivation, reference
// resolution, denormalization, pipeline flattening, and report-as-data
// validation. Everything here is pure over the graph; persistence lives in
// storage and transactional state in manager.
package catalog

import (
	"fmt"
	"sort"

	"github.com/rpattn/metacat/internal/domain"
)

// IDIndex maps id to entity per collection. Ids are unique inside one
// collection only; the same number may appear in several collections.
type IDIndex struct {
	Namespaces   map[int]*domain.Namespace
	Schemas      map[int]*domain.Schema
	Systems      map[int]*domain.System
	DataEntities map[int]*domain.DataEntity
	Pipelines    map[int]*domain.Pipeline
}

// BuildIDIndex indexes the graph by id. A duplicate id inside a collection is
// fatal: the raw data is unusable and the build must not continue.
func BuildIDIndex(g *domain.Graph) (*IDIndex, error) {
	idx := &IDIndex{
		Namespaces:   make(map[int]*domain.Namespace, len(g.Namespaces)),
		Schemas:      make(map[int]*domain.Schema, len(g.Schemas)),
		Systems:      make(map[int]*domain.System, len(g.Systems)),
		DataEntities: make(map[int]*domain.DataEntity, len(g.DataEntities)),
		Pipelines:    make(map[int]*domain.Pipeline, len(g.Pipelines)),
	}
	for _, v := range g.Namespaces {
		if _, taken := idx.Namespaces[v.ID]; taken {
			return nil, dupID(domain.CollectionNamespaces, v.ID)
		}
		idx.Namespaces[v.ID] = v
	}
	for _, v := range g.Schemas {
		if _, taken := idx.Schemas[v.ID]; taken {
			return nil, dupID(domain.CollectionSchemas, v.ID)
		}
		idx.Schemas[v.ID] = v
	}
	for _, v := range g.Systems {
		if _, taken := idx.Systems[v.ID]; taken {
			return nil, dupID(domain.CollectionSystems, v.ID)
		}
		idx.Systems[v.ID] = v
	}
	for _, v := range g.DataEntities {
		if _, taken := idx.DataEntities[v.ID]; taken {
			return nil, dupID(domain.CollectionDataEntities, v.ID)
		}
		idx.DataEntities[v.ID] = v
	}
	for _, v := range g.Pipelines {
		if _, taken := idx.Pipelines[v.ID]; taken {
			return nil, dupID(domain.CollectionPipelines, v.ID)
		}
		idx.Pipelines[v.ID] = v
	}
	return idx, nil
}

func dupID(c domain.Collection, id int) error {
	return fmt.Errorf("%w: %s id %d", domain.ErrDuplicateID, c, id)
}

// Lookup returns the entity behind (collection, id).
func (idx *IDIndex) Lookup(c domain.Collection, id int) (domain.Entity, bool) {
	switch c {
	case domain.CollectionNamespaces:
		v, ok := idx.Namespaces[id]
		return v, ok
	case domain.CollectionSchemas:
		v, ok := idx.Schemas[id]
		return v, ok
	case domain.CollectionSystems:
		v, ok := idx.Systems[id]
		return v, ok
	case domain.CollectionDataEntities:
		v, ok := idx.DataEntities[id]
		return v, ok
	case domain.CollectionPipelines:
		v, ok := idx.Pipelines[id]
		return v, ok
	}
	return nil, false
}

// Has reports whether (collection, id) is indexed.
func (idx *IDIndex) Has(c domain.Collection, id int) bool {
	_, ok := idx.Lookup(c, id)
	return ok
}

// WithEntity returns a shallow copy of the index with the candidate inserted,
// replacing any entity sharing its id. Uniqueness and key-derivation checks
// for new and updated entities run against such scratch indexes so the live
// index never sees unvalidated data.
func (idx *IDIndex) WithEntity(e domain.Entity) *IDIndex {
	out := &IDIndex{
		Namespaces:   make(map[int]*domain.Namespace, len(idx.Namespaces)+1),
		Schemas:      make(map[int]*domain.Schema, len(idx.Schemas)+1),
		Systems:      make(map[int]*domain.System, len(idx.Systems)+1),
		DataEntities: make(map[int]*domain.DataEntity, len(idx.DataEntities)+1),
		Pipelines:    make(map[int]*domain.Pipeline, len(idx.Pipelines)+1),
	}
	for id, v := range idx.Namespaces {
		out.Namespaces[id] = v
	}
	for id, v := range idx.Schemas {
		out.Schemas[id] = v
	}
	for id, v := range idx.Systems {
		out.Systems[id] = v
	}
	for id, v := range idx.DataEntities {
		out.DataEntities[id] = v
	}
	for id, v := range idx.Pipelines {
		out.Pipelines[id] = v
	}
	switch v := e.(type) {
	case *domain.Namespace:
		out.Namespaces[v.ID] = v
	case *domain.Schema:
		out.Schemas[v.ID] = v
	case *domain.System:
		out.Systems[v.ID] = v
	case *domain.DataEntity:
		out.DataEntities[v.ID] = v
	case *domain.Pipeline:
		out.Pipelines[v.ID] = v
	}
	return out
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// KeyIndex maps compound key to entity per collection. Entities whose key
// could not be derived are absent; on a key collision the later graph entry
// wins and the validator reports the duplicate.
type KeyIndex struct {
	Namespaces   map[string]*domain.Namespace
	Schemas      map[string]*domain.Schema
	Systems      map[string]*domain.System
	DataEntities map[string]*domain.DataEntity
	Pipelines    map[string]*domain.Pipeline
}

// BuildKeyIndex indexes the graph by stamped compound key, walking graph
// order so collisions resolve deterministically.
func BuildKeyIndex(g *domain.Graph) *KeyIndex {
	idx := &KeyIndex{
		Namespaces:   make(map[string]*domain.Namespace, len(g.Namespaces)),
		Schemas:      make(map[string]*domain.Schema, len(g.Schemas)),
		Systems:      make(map[string]*domain.System, len(g.Systems)),
		DataEntities: make(map[string]*domain.DataEntity, len(g.DataEntities)),
		Pipelines:    make(map[string]*domain.Pipeline, len(g.Pipelines)),
	}
	for _, v := range g.Namespaces {
		if v.CompoundKey != "" {
			idx.Namespaces[v.CompoundKey] = v
		}
	}
	for _, v := range g.Schemas {
		if v.CompoundKey != "" {
			idx.Schemas[v.CompoundKey] = v
		}
	}
	for _, v := range g.Systems {
		if v.CompoundKey != "" {
			idx.Systems[v.CompoundKey] = v
		}
	}
	for _, v := range g.DataEntities {
		if v.CompoundKey != "" {
			idx.DataEntities[v.CompoundKey] = v
		}
	}
	for _, v := range g.Pipelines {
		if v.CompoundKey != "" {
			idx.Pipelines[v.CompoundKey] = v
		}
	}
	return idx
}

// Lookup returns the entity behind (collection, compound key).
func (idx *KeyIndex) Lookup(c domain.Collection, key string) (domain.Entity, bool) {
	switch c {
	case domain.CollectionNamespaces:
		v, ok := idx.Namespaces[key]
		return v, ok
	case domain.CollectionSchemas:
		v, ok := idx.Schemas[key]
		return v, ok
	case domain.CollectionSystems:
		v, ok := idx.Systems[key]
		return v, ok
	case domain.CollectionDataEntities:
		v, ok := idx.DataEntities[key]
		return v, ok
	case domain.CollectionPipelines:
		v, ok := idx.Pipelines[key]
		return v, ok
	}
	return nil, false
}
