package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

// AddEntity stages the candidate into a copy of the workspace and commits the
// copy if the whole graph still validates. The workspace is untouched on any
// failure.
func (m *Manager) AddEntity(ctx context.Context, e domain.Entity) (*TxResult, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	tx := m.newTx(OpAdd, e.Collection())

	res := catalog.NewValidator(m.workspace.ByID, m.workspace.ByKey).NewEntity(e)
	if !res.Valid {
		tx.Result = &res
		return tx, nil
	}

	ok, err := m.confirm(fmt.Sprintf("add %q to %s?", e.EntityName(), e.Collection()))
	if err != nil {
		return nil, err
	}
	if !ok {
		tx.Declined = true
		return tx, nil
	}

	staging, err := m.workspace.Clone()
	if err != nil {
		return nil, err
	}
	cand := domain.CloneEntity(e)
	clearDerivedKey(cand)
	if err := catalog.NormalizeRefs(cand, staging.ByKey); err != nil {
		return nil, fmt.Errorf("failed to normalize references: %w", err)
	}
	if err := staging.Graph.Append(cand); err != nil {
		return nil, err
	}
	staging.Graph.SortByID()
	if err := staging.Rebuild(); err != nil {
		return nil, err
	}
	return m.settle(tx, staging), nil
}

// UpdateEntity replaces the entity sharing the candidate's id, stamping its
// modification time. Compound keys are always derived, so any caller-supplied
// key is discarded before staging.
func (m *Manager) UpdateEntity(ctx context.Context, e domain.Entity) (*TxResult, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	tx := m.newTx(OpUpdate, e.Collection())

	res := catalog.NewValidator(m.workspace.ByID, m.workspace.ByKey).UpdatedEntity(e)
	if !res.Valid {
		tx.Result = &res
		return tx, nil
	}

	ok, err := m.confirm(fmt.Sprintf("update %s id %d (%q)?", e.Collection(), e.EntityID(), e.EntityName()))
	if err != nil {
		return nil, err
	}
	if !ok {
		tx.Declined = true
		return tx, nil
	}

	staging, err := m.workspace.Clone()
	if err != nil {
		return nil, err
	}
	cand := domain.CloneEntity(e)
	clearDerivedKey(cand)
	stampModified(cand, m.now().UTC())
	if err := catalog.NormalizeRefs(cand, staging.ByKey); err != nil {
		return nil, fmt.Errorf("failed to normalize references: %w", err)
	}
	replaced, err := staging.Graph.ReplaceByID(cand)
	if err != nil {
		return nil, err
	}
	if !replaced {
		return nil, fmt.Errorf("%w: %s id %d", domain.ErrReferenceNotFound, cand.Collection(), cand.EntityID())
	}
	if err := staging.Rebuild(); err != nil {
		return nil, err
	}
	return m.settle(tx, staging), nil
}

// DeleteEntity removes the entity behind (collection, key) after the
// dependency gate passes. Pipelines have no dependents and are always
// deletable.
func (m *Manager) DeleteEntity(ctx context.Context, c domain.Collection, key string) (*TxResult, error) {
	if err := m.requireWorkspace(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseEntityCollection(string(c)); err != nil {
		return nil, err
	}
	tx := m.newTx(OpDelete, c)

	target, ok := m.workspace.ByKey.Lookup(c, key)
	if !ok {
		tx.Result = &catalog.Result{
			Collection: c,
			Valid:      false,
			Findings: []catalog.Finding{{
				Err:     domain.ErrUnresolvedReference,
				Field:   "compound_key",
				Message: fmt.Sprintf("no %s with compound key %q", c, key),
				Value:   key,
			}},
		}
		return tx, nil
	}

	deps, err := catalog.Dependents(m.workspace.Graph, target)
	if err != nil {
		return nil, err
	}
	if deps.HasDependents {
		tx.Dependents = deps
		return tx, nil
	}

	ok, err = m.confirm(fmt.Sprintf("delete %q from %s?", key, c))
	if err != nil {
		return nil, err
	}
	if !ok {
		tx.Declined = true
		return tx, nil
	}

	staging, err := m.workspace.Clone()
	if err != nil {
		return nil, err
	}
	if !staging.Graph.RemoveByKey(c, key) {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrUnresolvedReference, c, key)
	}
	if err := staging.Rebuild(); err != nil {
		return nil, err
	}
	return m.settle(tx, staging), nil
}

// settle commits a rebuilt staging structure when it validates, or drops it
// and hands back the report.
func (m *Manager) settle(tx *TxResult, staging *catalog.Structure) *TxResult {
	if !staging.Valid() {
		tx.Report = staging.Report
		m.logger.Infow("transaction rejected",
			"tx", tx.ID, "op", tx.Op, "collection", tx.Collection,
			"findings", staging.Report.FindingCount())
		return tx
	}
	m.workspace = staging
	tx.Committed = true
	m.logger.Infow("transaction committed",
		"tx", tx.ID, "op", tx.Op, "collection", tx.Collection)
	return tx
}

func clearDerivedKey(e domain.Entity) {
	switch v := e.(type) {
	case *domain.Namespace:
		v.CompoundKey = ""
	case *domain.Schema:
		v.CompoundKey = ""
	case *domain.System:
		v.CompoundKey = ""
	case *domain.DataEntity:
		v.CompoundKey = ""
	case *domain.Pipeline:
		v.CompoundKey = ""
	}
}

func stampModified(e domain.Entity, t time.Time) {
	switch v := e.(type) {
	case *domain.Namespace:
		v.Modified = t
	case *domain.Schema:
		v.Modified = t
	case *domain.System:
		v.Modified = t
	case *domain.DataEntity:
		v.Modified = t
	case *domain.Pipeline:
		v.Modified = t
	}
}
