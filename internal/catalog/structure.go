package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rpattn/metacat/internal/domain"
)

// Structure is one fully built metadata catalog: the typed graph, its
// indexes, the stamped compound keys, the validation report, and, when the
// graph is valid, the integrated copy and the flattened dag config. Every
// mutation rebuilds the whole thing from the graph; nothing derived is ever
// patched in place.
type Structure struct {
	Graph      *domain.Graph
	ByID       *IDIndex
	ByKey      *KeyIndex
	Report     *Report
	Integrated *domain.Graph
	DAG        DAGConfig

	logger *zap.SugaredLogger
}

// NewStructure decodes raw records and builds the catalog. Structural
// problems like malformed records and duplicate ids are fatal; semantic
// problems land in the report, so an invalid catalog still loads and can be
// inspected.
func NewStructure(records map[domain.Collection][]domain.Record, logger *zap.SugaredLogger) (*Structure, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	g, err := DecodeGraph(records)
	if err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	s := &Structure{Graph: g, logger: logger}
	if err := s.Rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStructureFromGraph builds the catalog over an already-typed graph.
func NewStructureFromGraph(g *domain.Graph, logger *zap.SugaredLogger) (*Structure, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Structure{Graph: g, logger: logger}
	if err := s.Rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// Rebuild derives everything from the graph: id index, compound keys, key
// index, validation report, and, on a valid graph, the integrated copy and
// the dag config. An invalid graph leaves Integrated and DAG nil.
func (s *Structure) Rebuild() error {
	idx, err := BuildIDIndex(s.Graph)
	if err != nil {
		return fmt.Errorf("failed to index metadata: %w", err)
	}
	s.ByID = idx

	for _, derr := range DeriveKeys(idx) {
		s.logger.Debugw("compound key not derivable", "cause", derr.Error())
	}
	s.ByKey = BuildKeyIndex(s.Graph)

	s.Report = NewValidator(s.ByID, s.ByKey).Graph(s.Graph)
	if !s.Report.Valid {
		s.Integrated = nil
		s.DAG = nil
		s.logger.Infow("metadata invalid",
			"findings", s.Report.FindingCount(),
		)
		return nil
	}

	integrated, err := Integrate(s.ByID, DefaultIntegrateOptions())
	if err != nil {
		return fmt.Errorf("failed to integrate metadata: %w", err)
	}
	s.Integrated = integrated

	dag, err := BuildDAGConfig(integrated)
	if err != nil {
		return fmt.Errorf("failed to flatten pipelines: %w", err)
	}
	s.DAG = dag

	s.logger.Debugw("metadata built",
		"namespaces", len(s.Graph.Namespaces),
		"schemas", len(s.Graph.Schemas),
		"systems", len(s.Graph.Systems),
		"data_entities", len(s.Graph.DataEntities),
		"pipelines", len(s.Graph.Pipelines),
		"dag_entries", len(s.DAG),
	)
	return nil
}

// Valid reports whether the last build passed validation.
func (s *Structure) Valid() bool {
	return s.Report != nil && s.Report.Valid
}

// Clone deep-copies the structure for staging. Only the graph is copied; the
// clone rebuilds its own indexes and derived artifacts.
func (s *Structure) Clone() (*Structure, error) {
	out := &Structure{Graph: s.Graph.Clone(), logger: s.logger}
	if err := out.Rebuild(); err != nil {
		return nil, err
	}
	return out, nil
}

// Records renders the graph back to raw persisted records per collection.
func (s *Structure) Records() (map[domain.Collection][]domain.Record, error) {
	out := make(map[domain.Collection][]domain.Record, len(domain.Collections))
	for _, c := range domain.Collections {
		doc, err := EncodeCollection(s.Graph, c)
		if err != nil {
			return nil, err
		}
		records, err := DecodeRecords(doc)
		if err != nil {
			return nil, err
		}
		out[c] = records
	}
	return out, nil
}
