package domain

import "time"

// The five catalog entity types. Persisted records carry references as
// numeric ids and omit compound_key; keys are derived on every build and
// stamped in memory only.

// Namespace is the top-level grouping everything else hangs off.
type Namespace struct {
	ID          int       `json:"id"`
	CompoundKey string    `json:"compound_key,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

// Schema describes the shape of a data entity. The body is opaque to the
// catalog: an avro mapping or a bigquery field list, carried as decoded JSON.
type Schema struct {
	ID          int        `json:"id"`
	CompoundKey string     `json:"compound_key,omitempty"`
	Namespace   Ref        `json:"namespace"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        SchemaType `json:"type"`
	Version     int        `json:"version"`
	SchemaBody  any        `json:"schema_body,omitempty"`
	Created     time.Time  `json:"created"`
	Modified    time.Time  `json:"modified"`
}

// System is a source or target platform a data entity lives on.
type System struct {
	ID          int            `json:"id"`
	CompoundKey string         `json:"compound_key,omitempty"`
	Namespace   Ref            `json:"namespace"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Type        SystemType     `json:"type"`
	Config      map[string]any `json:"config,omitempty"`
	Created     time.Time      `json:"created"`
	Modified    time.Time      `json:"modified"`
}

// DataEntity is a concrete datasource or dataset: it references its
// namespace, the system it lives on, and the schema describing it. Checks
// carry authored data quality definitions and pass through untouched.
type DataEntity struct {
	ID           int            `json:"id"`
	CompoundKey  string         `json:"compound_key,omitempty"`
	Namespace    Ref            `json:"namespace"`
	System       Ref            `json:"system"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Type         DataEntityType `json:"type"`
	Interface    InterfaceType  `json:"interface"`
	EntitySchema Ref            `json:"entity_schema"`
	Checks       []any          `json:"checks,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	Created      time.Time      `json:"created"`
	Modified     time.Time      `json:"modified"`
}

// Pipeline moves data between entities. Each instance pairs input and output
// sides; scope=single means exactly one instance.
type Pipeline struct {
	ID          int            `json:"id"`
	CompoundKey string         `json:"compound_key,omitempty"`
	Namespace   Ref            `json:"namespace"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Enabled     bool           `json:"enabled"`
	Version     int            `json:"version"`
	Scope       PipelineScope  `json:"scope"`
	Type        PipelineType   `json:"type"`
	Velocity    Velocity       `json:"velocity"`
	Instances   InstanceList   `json:"instances"`
	Config      map[string]any `json:"config,omitempty"`
	Created     time.Time      `json:"created"`
	Modified    time.Time      `json:"modified"`
}

// Entity is the behaviour shared by all five catalog types, enough for the
// generic graph operations and dependency reporting.
type Entity interface {
	EntityID() int
	EntityKey() string
	EntityName() string
	Collection() Collection
}

func (n *Namespace) EntityID() int          { return n.ID }
func (n *Namespace) EntityKey() string      { return n.CompoundKey }
func (n *Namespace) EntityName() string     { return n.Name }
func (n *Namespace) Collection() Collection { return CollectionNamespaces }

func (s *Schema) EntityID() int          { return s.ID }
func (s *Schema) EntityKey() string      { return s.CompoundKey }
func (s *Schema) EntityName() string     { return s.Name }
func (s *Schema) Collection() Collection { return CollectionSchemas }

func (s *System) EntityID() int          { return s.ID }
func (s *System) EntityKey() string      { return s.CompoundKey }
func (s *System) EntityName() string     { return s.Name }
func (s *System) Collection() Collection { return CollectionSystems }

func (e *DataEntity) EntityID() int          { return e.ID }
func (e *DataEntity) EntityKey() string      { return e.CompoundKey }
func (e *DataEntity) EntityName() string     { return e.Name }
func (e *DataEntity) Collection() Collection { return CollectionDataEntities }

func (p *Pipeline) EntityID() int          { return p.ID }
func (p *Pipeline) EntityKey() string      { return p.CompoundKey }
func (p *Pipeline) EntityName() string     { return p.Name }
func (p *Pipeline) Collection() Collection { return CollectionPipelines }
