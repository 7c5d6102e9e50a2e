// Package storage moves catalog documents in and out of storage locations.
// Adapters deal in opaque JSON: one document per collection, a record array
// for the entity collections and a mapping for dag_config. Everything above
// the byte level (decoding, validation, indexing) is the catalog's job.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpattn/metacat/internal/domain"
)

// ErrNotFound signals a location or collection document that does not exist.
var ErrNotFound = errors.New("document not found")

// Adapter is the storage contract. A location is an adapter-specific address:
// a directory for the filesystem, a row-key prefix for postgres and redis.
type Adapter interface {
	// Exists reports whether the location has been created.
	Exists(ctx context.Context, location string) (bool, error)
	// Create prepares the location, writing an empty document for every
	// collection, dag_config included. Creating an existing location is an
	// error.
	Create(ctx context.Context, location string) error
	// Read returns one collection document.
	Read(ctx context.Context, location string, c domain.Collection) ([]byte, error)
	// Write replaces one collection document.
	Write(ctx context.Context, location string, c domain.Collection, doc []byte) error
}

// createCollections are the documents a fresh location starts with: the
// entity collections plus an empty dag_config.
var createCollections = func() []domain.Collection {
	out := make([]domain.Collection, 0, len(domain.Collections)+1)
	out = append(out, domain.Collections...)
	return append(out, domain.CollectionDAGConfig)
}()

func checkCollection(c domain.Collection) error {
	_, err := domain.ParseCollection(string(c))
	return err
}

func emptyDocument(c domain.Collection) []byte {
	if c == domain.CollectionDAGConfig {
		return []byte("{}")
	}
	return []byte("[]")
}

func alreadyExists(location string) error {
	return fmt.Errorf("location %q already exists", location)
}
