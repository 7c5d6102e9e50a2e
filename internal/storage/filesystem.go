package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rpattn/metacat/internal/domain"
)

// Filesystem stores each location as a directory holding one
// <collection>.json file per collection.
type Filesystem struct{}

// NewFilesystem returns the filesystem adapter.
func NewFilesystem() *Filesystem { return &Filesystem{} }

func (f *Filesystem) Exists(_ context.Context, location string) (bool, error) {
	info, err := os.Stat(location)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat location: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("location %q is not a directory", location)
	}
	return true, nil
}

func (f *Filesystem) Create(ctx context.Context, location string) error {
	exists, err := f.Exists(ctx, location)
	if err != nil {
		return err
	}
	if exists {
		return alreadyExists(location)
	}
	if err := os.MkdirAll(location, 0o755); err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	for _, c := range createCollections {
		if err := f.Write(ctx, location, c, emptyDocument(c)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filesystem) Read(_ context.Context, location string, c domain.Collection) ([]byte, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	doc, err := os.ReadFile(f.path(location, c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s in %q", ErrNotFound, c, location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c, err)
	}
	return doc, nil
}

func (f *Filesystem) Write(_ context.Context, location string, c domain.Collection, doc []byte) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	if err := os.MkdirAll(location, 0o755); err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	if err := os.WriteFile(f.path(location, c), doc, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	return nil
}

func (f *Filesystem) path(location string, c domain.Collection) string {
	return filepath.Join(location, string(c)+".json")
}
