package domain

import (
	"fmt"
	"sort"
)

// Graph is the decoded object graph, one slice per collection. Order is
// meaningful: builds walk slices front to back, so later entries win where
// the derived artifacts overwrite by key.
type Graph struct {
	Namespaces   []*Namespace
	Schemas      []*Schema
	Systems      []*System
	DataEntities []*DataEntity
	Pipelines    []*Pipeline
}

// Append adds an entity to its collection.
func (g *Graph) Append(e Entity) error {
	switch v := e.(type) {
	case *Namespace:
		g.Namespaces = append(g.Namespaces, v)
	case *Schema:
		g.Schemas = append(g.Schemas, v)
	case *System:
		g.Systems = append(g.Systems, v)
	case *DataEntity:
		g.DataEntities = append(g.DataEntities, v)
	case *Pipeline:
		g.Pipelines = append(g.Pipelines, v)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEntityType, e)
	}
	return nil
}

// ReplaceByID swaps the entity with the same id inside the collection,
// reporting whether a match existed.
func (g *Graph) ReplaceByID(e Entity) (bool, error) {
	for i, existing := range g.Entities(e.Collection()) {
		if existing.EntityID() == e.EntityID() {
			return true, g.setAt(e.Collection(), i, e)
		}
	}
	return false, nil
}

// RemoveByKey drops the entity carrying the given compound key from the
// collection, reporting whether one was found.
func (g *Graph) RemoveByKey(c Collection, key string) bool {
	switch c {
	case CollectionNamespaces:
		for i, v := range g.Namespaces {
			if v.CompoundKey == key {
				g.Namespaces = append(g.Namespaces[:i], g.Namespaces[i+1:]...)
				return true
			}
		}
	case CollectionSchemas:
		for i, v := range g.Schemas {
			if v.CompoundKey == key {
				g.Schemas = append(g.Schemas[:i], g.Schemas[i+1:]...)
				return true
			}
		}
	case CollectionSystems:
		for i, v := range g.Systems {
			if v.CompoundKey == key {
				g.Systems = append(g.Systems[:i], g.Systems[i+1:]...)
				return true
			}
		}
	case CollectionDataEntities:
		for i, v := range g.DataEntities {
			if v.CompoundKey == key {
				g.DataEntities = append(g.DataEntities[:i], g.DataEntities[i+1:]...)
				return true
			}
		}
	case CollectionPipelines:
		for i, v := range g.Pipelines {
			if v.CompoundKey == key {
				g.Pipelines = append(g.Pipelines[:i], g.Pipelines[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Entities returns the collection as the shared interface, in graph order.
func (g *Graph) Entities(c Collection) []Entity {
	switch c {
	case CollectionNamespaces:
		out := make([]Entity, len(g.Namespaces))
		for i, v := range g.Namespaces {
			out[i] = v
		}
		return out
	case CollectionSchemas:
		out := make([]Entity, len(g.Schemas))
		for i, v := range g.Schemas {
			out[i] = v
		}
		return out
	case CollectionSystems:
		out := make([]Entity, len(g.Systems))
		for i, v := range g.Systems {
			out[i] = v
		}
		return out
	case CollectionDataEntities:
		out := make([]Entity, len(g.DataEntities))
		for i, v := range g.DataEntities {
			out[i] = v
		}
		return out
	case CollectionPipelines:
		out := make([]Entity, len(g.Pipelines))
		for i, v := range g.Pipelines {
			out[i] = v
		}
		return out
	}
	return nil
}

func (g *Graph) setAt(c Collection, i int, e Entity) error {
	switch v := e.(type) {
	case *Namespace:
		g.Namespaces[i] = v
	case *Schema:
		g.Schemas[i] = v
	case *System:
		g.Systems[i] = v
	case *DataEntity:
		g.DataEntities[i] = v
	case *Pipeline:
		g.Pipelines[i] = v
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEntityType, e)
	}
	return nil
}

// SortByID orders every collection by ascending id, the canonical persisted
// order.
func (g *Graph) SortByID() {
	sort.Slice(g.Namespaces, func(i, j int) bool { return g.Namespaces[i].ID < g.Namespaces[j].ID })
	sort.Slice(g.Schemas, func(i, j int) bool { return g.Schemas[i].ID < g.Schemas[j].ID })
	sort.Slice(g.Systems, func(i, j int) bool { return g.Systems[i].ID < g.Systems[j].ID })
	sort.Slice(g.DataEntities, func(i, j int) bool { return g.DataEntities[i].ID < g.DataEntities[j].ID })
	sort.Slice(g.Pipelines, func(i, j int) bool { return g.Pipelines[i].ID < g.Pipelines[j].ID })
}

// Counts reports the number of entities per collection.
func (g *Graph) Counts() map[Collection]int {
	return map[Collection]int{
		CollectionNamespaces:   len(g.Namespaces),
		CollectionSchemas:      len(g.Schemas),
		CollectionSystems:      len(g.Systems),
		CollectionDataEntities: len(g.DataEntities),
		CollectionPipelines:    len(g.Pipelines),
	}
}
