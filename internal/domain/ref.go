package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RefKind discriminates the three wire forms of a reference.
type RefKind int

const (
	RefNone RefKind = iota
	RefID
	RefKey
	RefObject
)

// Ref is a polymorphic reference to another catalog entity. On the wire it is
// a numeric id (the persisted form), a compound-key string (the authored
// form), or an embedded entity (the integrated form). The zero Ref is empty
// and marshals as null.
type Ref struct {
	kind RefKind
	id   int
	key  string
	obj  any
}

// IDRef references an entity by numeric id.
func IDRef(id int) Ref { return Ref{kind: RefID, id: id} }

// KeyRef references an entity by compound key.
func KeyRef(key string) Ref { return Ref{kind: RefKey, key: key} }

// ObjectRef embeds the referenced entity itself, as integration does.
func ObjectRef(obj any) Ref { return Ref{kind: RefObject, obj: obj} }

func (r Ref) Kind() RefKind { return r.kind }
func (r Ref) IsZero() bool  { return r.kind == RefNone }

// ID returns the numeric id and whether the ref is in id form.
func (r Ref) ID() (int, bool) { return r.id, r.kind == RefID }

// Key returns the compound key and whether the ref is in key form.
func (r Ref) Key() (string, bool) { return r.key, r.kind == RefKey }

// Object returns the embedded entity and whether the ref is in object form.
func (r Ref) Object() (any, bool) { return r.obj, r.kind == RefObject }

// Value returns the wire value of the ref: int, string, embedded entity, or
// nil for the zero ref.
func (r Ref) Value() any {
	switch r.kind {
	case RefID:
		return r.id
	case RefKey:
		return r.key
	case RefObject:
		return r.obj
	}
	return nil
}

func (r Ref) String() string {
	switch r.kind {
	case RefID:
		return strconv.Itoa(r.id)
	case RefKey:
		return r.key
	case RefObject:
		return "<embedded>"
	}
	return "<none>"
}

// RefFromValue builds a Ref from a decoded JSON value. Whole numbers become
// id refs, strings become key refs; anything else is malformed. Embedded
// objects are deliberately rejected here: they exist only in integrated
// copies, never in persisted or authored records.
func RefFromValue(v any) (Ref, error) {
	switch val := v.(type) {
	case int:
		return IDRef(val), nil
	case int64:
		return IDRef(int(val)), nil
	case float64:
		if math.Mod(val, 1) != 0 {
			return Ref{}, fmt.Errorf("%w: reference %v is not a whole number", ErrMalformedRecord, val)
		}
		return IDRef(int(val)), nil
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return Ref{}, fmt.Errorf("%w: reference %v is not a whole number", ErrMalformedRecord, val)
		}
		return IDRef(int(i)), nil
	case string:
		if val == "" {
			return Ref{}, fmt.Errorf("%w: empty reference", ErrMalformedRecord)
		}
		return KeyRef(val), nil
	}
	return Ref{}, fmt.Errorf("%w: reference must be an id or a compound key, got %T", ErrMalformedRecord, v)
}

func (r Ref) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case RefID:
		return json.Marshal(r.id)
	case RefKey:
		return json.Marshal(r.key)
	case RefObject:
		return json.Marshal(r.obj)
	}
	return []byte("null"), nil
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if trimmed[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		*r = ObjectRef(obj)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	ref, err := RefFromValue(v)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// RefSet is one side of a pipeline instance: a single reference or an ordered
// list. The authored shape survives the round trip, so a scalar side never
// silently becomes a one-element array.
type RefSet struct {
	list bool
	refs []Ref
}

// SingleRef wraps one reference as a scalar side.
func SingleRef(r Ref) RefSet { return RefSet{refs: []Ref{r}} }

// RefList wraps references as a list side, empty included.
func RefList(refs ...Ref) RefSet {
	return RefSet{list: true, refs: append([]Ref(nil), refs...)}
}

func (s RefSet) IsList() bool { return s.list }
func (s RefSet) Len() int     { return len(s.refs) }

// Refs returns the underlying references in order. The slice is shared;
// callers that mutate must clone first.
func (s RefSet) Refs() []Ref { return s.refs }

// WithRefs keeps the side's shape but swaps the references.
func (s RefSet) WithRefs(refs []Ref) RefSet {
	return RefSet{list: s.list, refs: refs}
}

func (s RefSet) MarshalJSON() ([]byte, error) {
	if !s.list {
		if len(s.refs) == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(s.refs[0])
	}
	return json.Marshal(s.refs)
}

func (s *RefSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = RefSet{}
		return nil
	}
	if trimmed[0] == '[' {
		var refs []Ref
		if err := json.Unmarshal(trimmed, &refs); err != nil {
			return err
		}
		*s = RefSet{list: true, refs: refs}
		return nil
	}
	var r Ref
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return err
	}
	*s = SingleRef(r)
	return nil
}

// Instance is one input/output pairing of a pipeline.
type Instance struct {
	Input  RefSet `json:"input"`
	Output RefSet `json:"output"`
}

// InstanceList accepts either a single JSON object or an array of objects on
// decode; it always writes an array.
type InstanceList []Instance

func (l *InstanceList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '{' {
		var one Instance
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*l = InstanceList{one}
		return nil
	}
	var many []Instance
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*l = InstanceList(many)
	return nil
}
