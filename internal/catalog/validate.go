package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/metacat/internal/domain"
)

// Validation is report-as-data: checks collect findings instead of returning
// on the first problem, so one pass names everything wrong with an entity and
// a graph-level report names everything wrong with the graph.

// Finding is one violated rule. Err carries the taxonomy sentinel so callers
// can branch with errors.Is; Field, Message, and Value are for people.
type Finding struct {
	Err     error  `json:"-"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Result is the validation outcome for one entity.
type Result struct {
	Collection domain.Collection `json:"collection"`
	EntityID   int               `json:"entity_id"`
	Valid      bool              `json:"valid"`
	Findings   []Finding         `json:"findings,omitempty"`
}

func (r *Result) add(err error, field string, value any, format string, args ...any) {
	r.Valid = false
	r.Findings = append(r.Findings, Finding{
		Err:     err,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	})
}

// HasFinding reports whether any finding wraps the given sentinel.
func (r Result) HasFinding(target error) bool {
	for _, f := range r.Findings {
		if f.Err == target {
			return true
		}
	}
	return false
}

// Report is the whole-graph validation outcome. Per collection it lists only
// the failing results; an empty list means every entity of that type passed.
// Namespaces carry no semantic rules and never appear.
type Report struct {
	Valid   bool                           `json:"valid"`
	Results map[domain.Collection][]Result `json:"results"`
}

func newReport() *Report {
	return &Report{
		Valid: true,
		Results: map[domain.Collection][]Result{
			domain.CollectionSchemas:      {},
			domain.CollectionSystems:      {},
			domain.CollectionDataEntities: {},
			domain.CollectionPipelines:    {},
		},
	}
}

func (r *Report) addFailure(res Result) {
	r.Valid = false
	r.Results[res.Collection] = append(r.Results[res.Collection], res)
}

// FindingCount totals the findings across all collections.
func (r *Report) FindingCount() int {
	n := 0
	for _, results := range r.Results {
		for _, res := range results {
			n += len(res.Findings)
		}
	}
	return n
}

// Validator checks entities against the indexes of the graph they are to
// live in.
type Validator struct {
	idx  *IDIndex
	kidx *KeyIndex
}

func NewValidator(idx *IDIndex, kidx *KeyIndex) *Validator {
	return &Validator{idx: idx, kidx: kidx}
}

// Graph runs the base checks over every schema, system, data entity, and
// pipeline. Namespaces have nothing to check: no references, no enums, no
// config.
func (v *Validator) Graph(g *domain.Graph) *Report {
	rep := newReport()
	for _, s := range g.Schemas {
		if res := v.Schema(s); !res.Valid {
			rep.addFailure(res)
		}
	}
	for _, s := range g.Systems {
		if res := v.System(s); !res.Valid {
			rep.addFailure(res)
		}
	}
	for _, e := range g.DataEntities {
		if res := v.DataEntity(e); !res.Valid {
			rep.addFailure(res)
		}
	}
	for _, p := range g.Pipelines {
		if res := v.Pipeline(p); !res.Valid {
			rep.addFailure(res)
		}
	}
	return rep
}

// Schema checks the namespace reference and the type vocabulary.
func (v *Validator) Schema(s *domain.Schema) Result {
	res := Result{Collection: domain.CollectionSchemas, EntityID: s.ID, Valid: true}
	v.checkRef(&res, "namespace", s.Namespace, domain.CollectionNamespaces)
	if !s.Type.Valid() {
		res.add(domain.ErrInvalidEnumValue, "type", string(s.Type),
			"%q is not one of %s", s.Type, joinValues(domain.SchemaTypes))
	}
	return res
}

// System checks the namespace reference, the type vocabulary, and the config
// keys.
func (v *Validator) System(s *domain.System) Result {
	res := Result{Collection: domain.CollectionSystems, EntityID: s.ID, Valid: true}
	v.checkRef(&res, "namespace", s.Namespace, domain.CollectionNamespaces)
	if !s.Type.Valid() {
		res.add(domain.ErrInvalidEnumValue, "type", string(s.Type),
			"%q is not one of %s", s.Type, joinValues(domain.SystemTypes))
	}
	checkConfigKeys(&res, s.Config)
	return res
}

// DataEntity checks the namespace, system, and schema references, the type
// and interface vocabularies, and the config keys.
func (v *Validator) DataEntity(e *domain.DataEntity) Result {
	res := Result{Collection: domain.CollectionDataEntities, EntityID: e.ID, Valid: true}
	v.checkRef(&res, "namespace", e.Namespace, domain.CollectionNamespaces)
	v.checkRef(&res, "system", e.System, domain.CollectionSystems)
	v.checkRef(&res, "entity_schema", e.EntitySchema, domain.CollectionSchemas)
	if !e.Type.Valid() {
		res.add(domain.ErrInvalidEnumValue, "type", string(e.Type),
			"%q is not one of %s", e.Type, joinValues(domain.DataEntityTypes))
	}
	if !e.Interface.Valid() {
		res.add(domain.ErrInvalidEnumValue, "interface", string(e.Interface),
			"%q is not one of %s", e.Interface, joinValues(domain.InterfaceTypes))
	}
	checkConfigKeys(&res, e.Config)
	return res
}

// Pipeline checks the namespace reference, every instance reference on both
// sides, the scope, type, and velocity vocabularies, and the config keys.
func (v *Validator) Pipeline(p *domain.Pipeline) Result {
	res := Result{Collection: domain.CollectionPipelines, EntityID: p.ID, Valid: true}
	v.checkRef(&res, "namespace", p.Namespace, domain.CollectionNamespaces)
	for i, instance := range p.Instances {
		v.checkSide(&res, fmt.Sprintf("instances[%d].input", i), instance.Input)
		v.checkSide(&res, fmt.Sprintf("instances[%d].output", i), instance.Output)
	}
	if !p.Scope.Valid() {
		res.add(domain.ErrInvalidEnumValue, "scope", string(p.Scope),
			"%q is not one of %s", p.Scope, joinValues(domain.PipelineScopes))
	}
	if !p.Type.Valid() {
		res.add(domain.ErrInvalidEnumValue, "type", string(p.Type),
			"%q is not one of %s", p.Type, joinValues(domain.PipelineTypes))
	}
	if !p.Velocity.Valid() {
		res.add(domain.ErrInvalidEnumValue, "velocity", string(p.Velocity),
			"%q is not one of %s", p.Velocity, joinValues(domain.Velocities))
	}
	checkConfigKeys(&res, p.Config)
	return res
}

// Entity dispatches the base checks. Namespaces come back valid by
// construction.
func (v *Validator) Entity(e domain.Entity) Result {
	switch val := e.(type) {
	case *domain.Namespace:
		return Result{Collection: domain.CollectionNamespaces, EntityID: val.ID, Valid: true}
	case *domain.Schema:
		return v.Schema(val)
	case *domain.System:
		return v.System(val)
	case *domain.DataEntity:
		return v.DataEntity(val)
	case *domain.Pipeline:
		return v.Pipeline(val)
	}
	res := Result{Valid: true}
	res.add(domain.ErrUnknownEntityType, "", e, "%T is not a catalog entity", e)
	return res
}

// NewEntity runs the base checks and, when they pass, the uniqueness checks
// for an entity about to be added: the id must be free and the compound key
// the entity would derive must not be taken. Derivation runs against a
// scratch index holding the candidate, so the live index never sees it.
func (v *Validator) NewEntity(e domain.Entity) Result {
	res := v.Entity(e)
	if !res.Valid {
		return res
	}
	c := e.Collection()
	if v.idx.Has(c, e.EntityID()) {
		res.add(domain.ErrDuplicateID, "id", e.EntityID(),
			"%s id %d is already taken", c, e.EntityID())
	}
	v.checkDerivedKey(&res, e)
	return res
}

// UpdatedEntity runs the base checks and, when they pass, the replacement
// checks: the id must exist and the key the updated entity derives must not
// belong to a different entity.
func (v *Validator) UpdatedEntity(e domain.Entity) Result {
	res := v.Entity(e)
	if !res.Valid {
		return res
	}
	c := e.Collection()
	if !v.idx.Has(c, e.EntityID()) {
		res.add(domain.ErrReferenceNotFound, "id", e.EntityID(),
			"no %s with id %d to update", c, e.EntityID())
		return res
	}
	v.checkDerivedKey(&res, e)
	return res
}

func (v *Validator) checkDerivedKey(res *Result, e domain.Entity) {
	candidate := domain.CloneEntity(e)
	if err := NormalizeRefs(candidate, v.kidx); err != nil {
		res.add(domain.ErrReferenceNotFound, "", nil, "%v", err)
		return
	}
	scratch := v.idx.WithEntity(candidate)
	key, err := DeriveKey(scratch, e.Collection(), e.EntityID())
	if err != nil {
		res.add(domain.ErrReferenceNotFound, "", nil, "cannot derive compound key: %v", err)
		return
	}
	if owner, taken := v.kidx.Lookup(e.Collection(), key); taken && owner.EntityID() != e.EntityID() {
		res.add(domain.ErrDuplicateKey, "compound_key", key,
			"compound key %q is already taken by %s id %d", key, e.Collection(), owner.EntityID())
	}
}

// checkSide requires at least one reference per side; the flattener cannot
// render an instance with nothing on one end.
func (v *Validator) checkSide(res *Result, field string, side domain.RefSet) {
	if side.Len() == 0 {
		res.add(domain.ErrMalformedRecord, field, nil, "instance side is empty")
		return
	}
	for i, r := range side.Refs() {
		v.checkRef(res, fmt.Sprintf("%s[%d]", field, i), r, domain.CollectionDataEntities)
	}
}

func (v *Validator) checkRef(res *Result, field string, ref domain.Ref, target domain.Collection) {
	switch ref.Kind() {
	case domain.RefID:
		id, _ := ref.ID()
		if !v.idx.Has(target, id) {
			res.add(domain.ErrReferenceNotFound, field, id, "no %s with id %d", target, id)
		}
	case domain.RefKey:
		key, _ := ref.Key()
		if _, ok := v.kidx.Lookup(target, key); !ok {
			res.add(domain.ErrReferenceNotFound, field, key, "no %s with compound key %q", target, key)
		}
	case domain.RefObject:
		res.add(domain.ErrReferenceNotFound, field, nil, "reference is embedded, not an id or compound key")
	default:
		res.add(domain.ErrReferenceNotFound, field, nil, "reference is empty")
	}
}

func checkConfigKeys(res *Result, config map[string]any) {
	keys := make([]string, 0, len(config))
	for key := range config {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if HasReservedPrefix(key) {
			res.add(domain.ErrReservedConfigKey, "config", key,
				"config key %q collides with a reserved prefix", key)
		}
	}
}

func joinValues[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}
