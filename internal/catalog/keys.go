package catalog

import (
	"fmt"
	"strconv"

	"github.com/rpattn/metacat/internal/domain"
)

// Compound key recipes. Keys are derived, never persisted, and rebuilt on
// every load and every mutation:
//
//	namespace    name
//	schema       name.version
//	system       <namespace>.name
//	data entity  <namespace>.<system key>.name.type
//	pipeline     <namespace>.name.type.version
//
// Derivation walks ancestor references, so it requires id-form refs pointing
// at indexed entities and fails with ErrReferenceNotFound otherwise.

// DeriveKey computes the compound key for (collection, id) against the index.
func DeriveKey(idx *IDIndex, c domain.Collection, id int) (string, error) {
	switch c {
	case domain.CollectionNamespaces:
		ns, ok := idx.Namespaces[id]
		if !ok {
			return "", notFound(c, id)
		}
		return ns.Name, nil
	case domain.CollectionSchemas:
		s, ok := idx.Schemas[id]
		if !ok {
			return "", notFound(c, id)
		}
		return s.Name + "." + strconv.Itoa(s.Version), nil
	case domain.CollectionSystems:
		s, ok := idx.Systems[id]
		if !ok {
			return "", notFound(c, id)
		}
		nsKey, err := ancestorKey(idx, domain.CollectionNamespaces, "namespace", s.Namespace)
		if err != nil {
			return "", fmt.Errorf("system %d: %w", id, err)
		}
		return nsKey + "." + s.Name, nil
	case domain.CollectionDataEntities:
		e, ok := idx.DataEntities[id]
		if !ok {
			return "", notFound(c, id)
		}
		nsKey, err := ancestorKey(idx, domain.CollectionNamespaces, "namespace", e.Namespace)
		if err != nil {
			return "", fmt.Errorf("data entity %d: %w", id, err)
		}
		sysKey, err := ancestorKey(idx, domain.CollectionSystems, "system", e.System)
		if err != nil {
			return "", fmt.Errorf("data entity %d: %w", id, err)
		}
		return nsKey + "." + sysKey + "." + e.Name + "." + string(e.Type), nil
	case domain.CollectionPipelines:
		p, ok := idx.Pipelines[id]
		if !ok {
			return "", notFound(c, id)
		}
		nsKey, err := ancestorKey(idx, domain.CollectionNamespaces, "namespace", p.Namespace)
		if err != nil {
			return "", fmt.Errorf("pipeline %d: %w", id, err)
		}
		return nsKey + "." + p.Name + "." + string(p.Type) + "." + strconv.Itoa(p.Version), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, c)
}

func notFound(c domain.Collection, id int) error {
	return fmt.Errorf("%w: %s id %d", domain.ErrReferenceNotFound, c, id)
}

// ancestorKey resolves a reference to an ancestor's compound key. Only
// id-form refs derive; key-form and embedded refs have not been normalized
// and count as unresolved ancestors.
func ancestorKey(idx *IDIndex, c domain.Collection, field string, ref domain.Ref) (string, error) {
	id, ok := ref.ID()
	if !ok {
		return "", fmt.Errorf("%w: %s reference %s is not an id", domain.ErrReferenceNotFound, field, ref)
	}
	key, err := DeriveKey(idx, c, id)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", field, ref, err)
	}
	return key, nil
}

// DeriveKeys stamps the compound key on every indexed entity. Entities whose
// key cannot be derived keep an empty key and stay out of the key index; the
// validator reports the underlying dangling reference, so a failed derivation
// never aborts a build. The returned errors exist for logging only.
func DeriveKeys(idx *IDIndex) []error {
	var failures []error
	for id, v := range idx.Namespaces {
		v.CompoundKey, _ = DeriveKey(idx, domain.CollectionNamespaces, id)
	}
	for id, v := range idx.Schemas {
		v.CompoundKey, _ = DeriveKey(idx, domain.CollectionSchemas, id)
	}
	for id, v := range idx.Systems {
		key, err := DeriveKey(idx, domain.CollectionSystems, id)
		if err != nil {
			failures = append(failures, err)
		}
		v.CompoundKey = key
	}
	for id, v := range idx.DataEntities {
		key, err := DeriveKey(idx, domain.CollectionDataEntities, id)
		if err != nil {
			failures = append(failures, err)
		}
		v.CompoundKey = key
	}
	for id, v := range idx.Pipelines {
		key, err := DeriveKey(idx, domain.CollectionPipelines, id)
		if err != nil {
			failures = append(failures, err)
		}
		v.CompoundKey = key
	}
	return failures
}
