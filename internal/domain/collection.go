package domain

import "fmt"

// Record is the raw persisted form of an entity: one decoded JSON object.
type Record = map[string]any

// Collection names one logical set of catalog entities. The storage layer
// keeps one document per collection and the indexes are partitioned by it.
type Collection string

const (
	CollectionNamespaces   Collection = "namespaces"
	CollectionSchemas      Collection = "schemas"
	CollectionSystems      Collection = "systems"
	CollectionDataEntities Collection = "data_entities"
	CollectionPipelines    Collection = "pipelines"

	// CollectionDAGConfig is the flattened pipeline output. It is written and
	// read like the entity collections but holds a mapping, not a record list.
	CollectionDAGConfig Collection = "dag_config"
)

// Collections lists the five entity collections in build order. DAG config is
// deliberately absent: it is derived, never loaded.
var Collections = []Collection{
	CollectionNamespaces,
	CollectionSchemas,
	CollectionSystems,
	CollectionDataEntities,
	CollectionPipelines,
}

// ParseCollection validates a collection name, accepting dag_config as well.
func ParseCollection(name string) (Collection, error) {
	switch c := Collection(name); c {
	case CollectionNamespaces, CollectionSchemas, CollectionSystems,
		CollectionDataEntities, CollectionPipelines, CollectionDAGConfig:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, name)
}

// ParseEntityCollection is ParseCollection restricted to the five entity
// collections; dag_config is rejected because it holds no entities.
func ParseEntityCollection(name string) (Collection, error) {
	c, err := ParseCollection(name)
	if err != nil {
		return "", err
	}
	if c == CollectionDAGConfig {
		return "", fmt.Errorf("%w: %q holds no entities", ErrUnknownEntityType, name)
	}
	return c, nil
}

func (c Collection) String() string { return string(c) }
