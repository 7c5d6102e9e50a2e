package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rpattn/metacat/internal/domain"
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// DecodeRecords parses one collection document into raw records. A nil or
// empty document decodes to no records.
func DecodeRecords(doc []byte) ([]domain.Record, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	var records []domain.Record
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	return records, nil
}

// DecodeGraph materializes typed entities from raw records, collection by
// collection. Any malformed record is fatal: the error names the collection,
// the record position, and every bad field at once.
func DecodeGraph(records map[domain.Collection][]domain.Record) (*domain.Graph, error) {
	g := &domain.Graph{}
	for _, c := range domain.Collections {
		for i, rec := range records[c] {
			e, err := DecodeEntity(c, rec)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", c, i, err)
			}
			if err := g.Append(e); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// DecodeEntity materializes one typed entity from its raw record.
func DecodeEntity(c domain.Collection, rec domain.Record) (domain.Entity, error) {
	switch c {
	case domain.CollectionNamespaces:
		return decodeNamespace(rec)
	case domain.CollectionSchemas:
		return decodeSchema(rec)
	case domain.CollectionSystems:
		return decodeSystem(rec)
	case domain.CollectionDataEntities:
		return decodeDataEntity(rec)
	case domain.CollectionPipelines:
		return decodePipeline(rec)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, c)
}

func decodeNamespace(rec domain.Record) (*domain.Namespace, error) {
	r := newRecordReader(rec)
	ns := &domain.Namespace{
		ID:          r.intField("id"),
		Name:        r.stringField("name"),
		Description: r.optionalString("description"),
		Created:     r.timeField("created"),
		Modified:    r.timeField("modified"),
	}
	return ns, r.err()
}

func decodeSchema(rec domain.Record) (*domain.Schema, error) {
	r := newRecordReader(rec)
	s := &domain.Schema{
		ID:          r.intField("id"),
		Namespace:   r.refField("namespace"),
		Name:        r.stringField("name"),
		Description: r.optionalString("description"),
		Type:        domain.SchemaType(r.stringField("type")),
		Version:     r.intField("version"),
		SchemaBody:  r.anyField("schema_body"),
		Created:     r.timeField("created"),
		Modified:    r.timeField("modified"),
	}
	return s, r.err()
}

func decodeSystem(rec domain.Record) (*domain.System, error) {
	r := newRecordReader(rec)
	s := &domain.System{
		ID:          r.intField("id"),
		Namespace:   r.refField("namespace"),
		Name:        r.stringField("name"),
		Description: r.optionalString("description"),
		Type:        domain.SystemType(r.stringField("type")),
		Config:      r.configField("config"),
		Created:     r.timeField("created"),
		Modified:    r.timeField("modified"),
	}
	return s, r.err()
}

func decodeDataEntity(rec domain.Record) (*domain.DataEntity, error) {
	r := newRecordReader(rec)
	e := &domain.DataEntity{
		ID:           r.intField("id"),
		Namespace:    r.refField("namespace"),
		System:       r.refField("system"),
		Name:         r.stringField("name"),
		Description:  r.optionalString("description"),
		Type:         domain.DataEntityType(r.stringField("type")),
		Interface:    domain.InterfaceType(r.stringField("interface")),
		EntitySchema: r.refField("entity_schema"),
		Checks:       r.listField("checks"),
		Config:       r.configField("config"),
		Created:      r.timeField("created"),
		Modified:     r.timeField("modified"),
	}
	return e, r.err()
}

func decodePipeline(rec domain.Record) (*domain.Pipeline, error) {
	r := newRecordReader(rec)
	p := &domain.Pipeline{
		ID:          r.intField("id"),
		Namespace:   r.refField("namespace"),
		Name:        r.stringField("name"),
		Description: r.optionalString("description"),
		Enabled:     r.boolField("enabled"),
		Version:     r.intField("version"),
		Scope:       domain.PipelineScope(r.stringField("scope")),
		Type:        domain.PipelineType(r.stringField("type")),
		Velocity:    domain.Velocity(r.stringField("velocity")),
		Instances:   r.instancesField("instances"),
		Config:      r.configField("config"),
		Created:     r.timeField("created"),
		Modified:    r.timeField("modified"),
	}
	if len(p.Instances) == 0 && !r.failed("instances") {
		r.problem("instances", "at least one instance is required")
	}
	for i, instance := range p.Instances {
		if instance.Input.Len() == 0 {
			r.problem(fmt.Sprintf("instances[%d].input", i), "required")
		}
		if instance.Output.Len() == 0 {
			r.problem(fmt.Sprintf("instances[%d].output", i), "required")
		}
	}
	return p, r.err()
}

// recordReader pulls typed fields out of a raw record, collecting every
// problem instead of stopping at the first, so a malformed record reports all
// its bad fields in one error.
type recordReader struct {
	rec      domain.Record
	problems []string
	fields   map[string]bool
}

func newRecordReader(rec domain.Record) *recordReader {
	return &recordReader{rec: rec, fields: make(map[string]bool)}
}

func (r *recordReader) problem(field, msg string) {
	r.fields[field] = true
	r.problems = append(r.problems, fmt.Sprintf("field %s: %s", field, msg))
}

func (r *recordReader) failed(field string) bool { return r.fields[field] }

func (r *recordReader) err() error {
	if len(r.problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrMalformedRecord, strings.Join(r.problems, "; "))
}

func (r *recordReader) intField(field string) int {
	v, ok := r.rec[field]
	if !ok || v == nil {
		r.problem(field, "required")
		return 0
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if math.Mod(val, 1) != 0 {
			r.problem(field, fmt.Sprintf("%v is not a whole number", val))
			return 0
		}
		return int(val)
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			r.problem(field, fmt.Sprintf("%v is not a whole number", val))
			return 0
		}
		return int(i)
	}
	r.problem(field, fmt.Sprintf("expected a number, got %T", v))
	return 0
}

func (r *recordReader) stringField(field string) string {
	v, ok := r.rec[field]
	if !ok || v == nil {
		r.problem(field, "required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.problem(field, fmt.Sprintf("expected a string, got %T", v))
		return ""
	}
	if s == "" {
		r.problem(field, "must not be empty")
	}
	return s
}

func (r *recordReader) optionalString(field string) string {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.problem(field, fmt.Sprintf("expected a string, got %T", v))
		return ""
	}
	return s
}

func (r *recordReader) boolField(field string) bool {
	v, ok := r.rec[field]
	if !ok || v == nil {
		r.problem(field, "required")
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.problem(field, fmt.Sprintf("expected a boolean, got %T", v))
		return false
	}
	return b
}

func (r *recordReader) timeField(field string) time.Time {
	raw := r.stringField(field)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	r.problem(field, fmt.Sprintf("unrecognized timestamp %q", raw))
	return time.Time{}
}

func (r *recordReader) refField(field string) domain.Ref {
	v, ok := r.rec[field]
	if !ok || v == nil {
		r.problem(field, "required")
		return domain.Ref{}
	}
	ref, err := domain.RefFromValue(v)
	if err != nil {
		r.problem(field, fmt.Sprintf("%v is not an id or compound key", v))
		return domain.Ref{}
	}
	return ref
}

func (r *recordReader) configField(field string) map[string]any {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.problem(field, fmt.Sprintf("expected a mapping, got %T", v))
		return nil
	}
	return domain.CopyMap(m)
}

func (r *recordReader) listField(field string) []any {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		r.problem(field, fmt.Sprintf("expected a list, got %T", v))
		return nil
	}
	return domain.CopyValue(l).([]any)
}

func (r *recordReader) anyField(field string) any {
	v, ok := r.rec[field]
	if !ok {
		return nil
	}
	return domain.CopyValue(v)
}

// instancesField accepts a single instance object or a list of them, in the
// authored shape.
func (r *recordReader) instancesField(field string) domain.InstanceList {
	v, ok := r.rec[field]
	if !ok || v == nil {
		r.problem(field, "required")
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		r.problem(field, err.Error())
		return nil
	}
	var list domain.InstanceList
	if err := json.Unmarshal(raw, &list); err != nil {
		r.problem(field, fmt.Sprintf("expected an instance or a list of instances: %v", err))
		return nil
	}
	return list
}

// EncodeCollection renders one collection as its persisted JSON document:
// records sorted as in the graph, compound keys cleared, references already
// in id form, 4-space indentation.
func EncodeCollection(g *domain.Graph, c domain.Collection) ([]byte, error) {
	switch c {
	case domain.CollectionNamespaces:
		out := make([]*domain.Namespace, len(g.Namespaces))
		for i, v := range g.Namespaces {
			clone := v.Clone()
			clone.CompoundKey = ""
			out[i] = clone
		}
		return marshalDoc(out)
	case domain.CollectionSchemas:
		out := make([]*domain.Schema, len(g.Schemas))
		for i, v := range g.Schemas {
			clone := v.Clone()
			clone.CompoundKey = ""
			out[i] = clone
		}
		return marshalDoc(out)
	case domain.CollectionSystems:
		out := make([]*domain.System, len(g.Systems))
		for i, v := range g.Systems {
			clone := v.Clone()
			clone.CompoundKey = ""
			out[i] = clone
		}
		return marshalDoc(out)
	case domain.CollectionDataEntities:
		out := make([]*domain.DataEntity, len(g.DataEntities))
		for i, v := range g.DataEntities {
			clone := v.Clone()
			clone.CompoundKey = ""
			out[i] = clone
		}
		return marshalDoc(out)
	case domain.CollectionPipelines:
		out := make([]*domain.Pipeline, len(g.Pipelines))
		for i, v := range g.Pipelines {
			clone := v.Clone()
			clone.CompoundKey = ""
			out[i] = clone
		}
		return marshalDoc(out)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, c)
}

// EncodeDAGConfig renders the flattened pipeline configuration document.
func EncodeDAGConfig(cfg DAGConfig) ([]byte, error) {
	if cfg == nil {
		cfg = DAGConfig{}
	}
	return json.MarshalIndent(cfg, "", "    ")
}

func marshalDoc(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return out, nil
}
