// Package manager orchestrates staged mutations of the catalog. Every change
// is applied to a deep copy of the workspace, the copy is rebuilt end to end,
// and only a copy that validates replaces the workspace. The store location
// holds the committed catalog; the stash location holds work in progress.
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
	"github.com/rpattn/metacat/internal/storage"
)

// ErrNotLoaded is returned when an operation needs a workspace and none has
// been loaded yet.
var ErrNotLoaded = errors.New("workspace not loaded")

// Source names which location a workspace is loaded from.
type Source string

const (
	SourceStore Source = "store"
	SourceStash Source = "stash"
)

// ParseSource validates a user-supplied source name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceStore, SourceStash:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: source %q", domain.ErrUnknownSource, s)
}

// Location names one storage spot: an adapter plus an address the adapter
// understands (a directory, a table partition, a key prefix).
type Location struct {
	Adapter storage.Adapter
	Address string
}

// Op labels what a transaction did.
type Op string

const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpStash   Op = "stash"
	OpStore   Op = "store"
	OpPublish Op = "publish"
	OpImport  Op = "import"
)

// TxResult is the receipt of one transaction. Exactly one of Committed,
// Declined, or a populated Result/Report/Dependents describes the outcome;
// failed pre-checks and rejected commits are data, not errors.
type TxResult struct {
	ID         uuid.UUID
	Op         Op
	Collection domain.Collection
	Committed  bool
	Declined   bool
	Result     *catalog.Result
	Report     *catalog.Report
	Dependents *catalog.DependencyReport
}

// ConfirmFunc answers an interactive yes/no decision. A nil hook means
// proceed.
type ConfirmFunc func(prompt string) (bool, error)

// Manager owns the store and stash locations, the pristine read of the store
// (current), and the mutable workspace.
type Manager struct {
	store Location
	stash Location

	current   *catalog.Structure
	workspace *catalog.Structure

	// Confirm is consulted before anything is committed or written.
	Confirm ConfirmFunc

	now    func() time.Time
	logger *zap.SugaredLogger
}

// New creates a manager over the given locations.
func New(store, stash Location, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Manager{
		store:  store,
		stash:  stash,
		now:    time.Now,
		logger: logger,
	}
}

// Current returns the last pristine read of the store.
func (m *Manager) Current() *catalog.Structure { return m.current }

// Workspace returns the mutable working copy.
func (m *Manager) Workspace() *catalog.Structure { return m.workspace }

// LoadCurrent reads the store into the pristine current structure.
func (m *Manager) LoadCurrent(ctx context.Context) error {
	s, err := m.load(ctx, m.store)
	if err != nil {
		return err
	}
	m.current = s
	return nil
}

// LoadWorkspace reads the named location into the workspace.
func (m *Manager) LoadWorkspace(ctx context.Context, source Source) error {
	var loc Location
	switch source {
	case SourceStore:
		loc = m.store
	case SourceStash:
		loc = m.stash
	default:
		return fmt.Errorf("%w: source %q", domain.ErrUnknownSource, source)
	}
	s, err := m.load(ctx, loc)
	if err != nil {
		return err
	}
	m.workspace = s
	m.logger.Debugw("workspace loaded", "source", source, "address", loc.Address)
	return nil
}

func (m *Manager) load(ctx context.Context, loc Location) (*catalog.Structure, error) {
	records := make(map[domain.Collection][]domain.Record, len(domain.Collections))
	for _, c := range domain.Collections {
		doc, err := loc.Adapter.Read(ctx, loc.Address, c)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s from %q: %w", c, loc.Address, err)
		}
		recs, err := catalog.DecodeRecords(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s from %q: %w", c, loc.Address, err)
		}
		records[c] = recs
	}
	return catalog.NewStructure(records, m.logger)
}

// InitStore creates an empty catalog at the store location.
func (m *Manager) InitStore(ctx context.Context) error {
	if err := m.store.Adapter.Create(ctx, m.store.Address); err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}
	m.logger.Infow("store initialised", "address", m.store.Address)
	return nil
}

// InitStash creates an empty catalog at the stash location.
func (m *Manager) InitStash(ctx context.Context) error {
	if err := m.stash.Adapter.Create(ctx, m.stash.Address); err != nil {
		return fmt.Errorf("failed to init stash: %w", err)
	}
	m.logger.Infow("stash initialised", "address", m.stash.Address)
	return nil
}

// StashWorkspace writes the workspace to the stash. An invalid workspace may
// be stashed, but only after the confirm hook agrees.
func (m *Manager) StashWorkspace(ctx context.Context) (*TxResult, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	tx := m.newTx(OpStash, "")
	if !m.workspace.Valid() {
		ok, err := m.confirm("workspace is invalid; stash it anyway?")
		if err != nil {
			return nil, err
		}
		if !ok {
			tx.Declined = true
			return tx, nil
		}
		tx.Report = m.workspace.Report
	}
	if err := m.save(ctx, m.stash, m.workspace); err != nil {
		return nil, err
	}
	tx.Committed = true
	m.logger.Infow("workspace stashed", "tx", tx.ID, "address", m.stash.Address)
	return tx, nil
}

// StoreWorkspace writes the workspace to the store and reloads current. An
// invalid workspace is refused outright.
func (m *Manager) StoreWorkspace(ctx context.Context) (*TxResult, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	tx := m.newTx(OpStore, "")
	if !m.workspace.Valid() {
		tx.Report = m.workspace.Report
		m.logger.Infow("store refused, workspace invalid",
			"tx", tx.ID, "findings", m.workspace.Report.FindingCount())
		return tx, nil
	}
	ok, err := m.confirm(fmt.Sprintf("write workspace to store at %q?", m.store.Address))
	if err != nil {
		return nil, err
	}
	if !ok {
		tx.Declined = true
		return tx, nil
	}
	if err := m.save(ctx, m.store, m.workspace); err != nil {
		return nil, err
	}
	if err := m.LoadCurrent(ctx); err != nil {
		return nil, err
	}
	tx.Committed = true
	m.logger.Infow("workspace stored", "tx", tx.ID, "address", m.store.Address)
	return tx, nil
}

// PublishDAGConfig writes the workspace's flattened dag config to the store.
// Only a valid workspace has one.
func (m *Manager) PublishDAGConfig(ctx context.Context) (*TxResult, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	tx := m.newTx(OpPublish, domain.CollectionDAGConfig)
	if !m.workspace.Valid() {
		tx.Report = m.workspace.Report
		m.logger.Infow("publish refused, workspace invalid",
			"tx", tx.ID, "findings", m.workspace.Report.FindingCount())
		return tx, nil
	}
	ok, err := m.confirm(fmt.Sprintf("publish dag config to %q?", m.store.Address))
	if err != nil {
		return nil, err
	}
	if !ok {
		tx.Declined = true
		return tx, nil
	}
	doc, err := catalog.EncodeDAGConfig(m.workspace.DAG)
	if err != nil {
		return nil, err
	}
	if err := m.store.Adapter.Write(ctx, m.store.Address, domain.CollectionDAGConfig, doc); err != nil {
		return nil, fmt.Errorf("failed to publish dag config: %w", err)
	}
	tx.Committed = true
	m.logger.Infow("dag config published",
		"tx", tx.ID, "address", m.store.Address, "entries", len(m.workspace.DAG))
	return tx, nil
}

func (m *Manager) save(ctx context.Context, loc Location, s *catalog.Structure) error {
	for _, c := range domain.Collections {
		doc, err := catalog.EncodeCollection(s.Graph, c)
		if err != nil {
			return err
		}
		if err := loc.Adapter.Write(ctx, loc.Address, c, doc); err != nil {
			return fmt.Errorf("failed to save %s to %q: %w", c, loc.Address, err)
		}
	}
	return nil
}

// ImportWorkspace replaces the workspace with a structure built from raw
// records, typically read back from a workbook. The import is staged in
// memory only; persisting it goes through the usual stash and store paths.
// An invalid import still replaces the workspace, with the report attached.
func (m *Manager) ImportWorkspace(records map[domain.Collection][]domain.Record) (*TxResult, error) {
	s, err := catalog.NewStructure(records, m.logger)
	if err != nil {
		return nil, err
	}
	tx := m.newTx(OpImport, "")
	m.workspace = s
	tx.Committed = true
	if !s.Valid() {
		tx.Report = s.Report
	}
	m.logger.Infow("workspace imported", "tx", tx.ID, "entities", s.Graph.Counts())
	return tx, nil
}

// EntityByKey returns a deep copy of a workspace entity for editing.
func (m *Manager) EntityByKey(c domain.Collection, key string) (domain.Entity, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseEntityCollection(string(c)); err != nil {
		return nil, err
	}
	e, ok := m.workspace.ByKey.Lookup(c, key)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrUnresolvedReference, c, key)
	}
	return domain.CloneEntity(e), nil
}

// NextFreeID returns the lowest id above every id in use, a convenience for
// authoring new entities.
func (m *Manager) NextFreeID(c domain.Collection) (int, error) {
	if err := m.requireWorkspace(); err != nil {
		return 0, err
	}
	if _, err := domain.ParseEntityCollection(string(c)); err != nil {
		return 0, err
	}
	next := 1
	for _, e := range m.workspace.Graph.Entities(c) {
		if e.EntityID() >= next {
			next = e.EntityID() + 1
		}
	}
	return next, nil
}

// WorkspaceRecords renders the workspace back to persisted-shape records.
func (m *Manager) WorkspaceRecords() (map[domain.Collection][]domain.Record, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	return m.workspace.Records()
}

func (m *Manager) requireWorkspace() error {
	if m.workspace == nil {
		return ErrNotLoaded
	}
	return nil
}

func (m *Manager) confirm(prompt string) (bool, error) {
	if m.Confirm == nil {
		return true, nil
	}
	return m.Confirm(prompt)
}

func (m *Manager) newTx(op Op, c domain.Collection) *TxResult {
	return &TxResult{ID: uuid.New(), Op: op, Collection: c}
}
