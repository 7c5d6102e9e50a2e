package domain

// Deep copies. Every build stage and every transaction staging area works on
// an isolated copy, so clones must sever all shared mutable state: maps,
// slices, and embedded entities. Scalars and time.Time copy by value.

// CopyValue deep-copies a JSON-shaped value (maps, slices, scalars).
func CopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CopyValue(item)
		}
		return out
	}
	return v
}

// CopyMap deep-copies a JSON-shaped map, preserving nil.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CopyValue(v)
	}
	return out
}

func copyAnySlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = CopyValue(v)
	}
	return out
}

// Clone deep-copies the reference, embedded entity included.
func (r Ref) Clone() Ref {
	if r.kind != RefObject {
		return r
	}
	return ObjectRef(cloneRefObject(r.obj))
}

func cloneRefObject(obj any) any {
	switch v := obj.(type) {
	case *Namespace:
		return v.Clone()
	case *Schema:
		return v.Clone()
	case *System:
		return v.Clone()
	case *DataEntity:
		return v.Clone()
	case *Pipeline:
		return v.Clone()
	}
	return CopyValue(obj)
}

// Clone deep-copies the set, preserving the scalar-vs-list shape.
func (s RefSet) Clone() RefSet {
	refs := make([]Ref, len(s.refs))
	for i, r := range s.refs {
		refs[i] = r.Clone()
	}
	return RefSet{list: s.list, refs: refs}
}

func (in Instance) Clone() Instance {
	return Instance{Input: in.Input.Clone(), Output: in.Output.Clone()}
}

func (l InstanceList) Clone() InstanceList {
	if l == nil {
		return nil
	}
	out := make(InstanceList, len(l))
	for i, in := range l {
		out[i] = in.Clone()
	}
	return out
}

func (n *Namespace) Clone() *Namespace {
	out := *n
	return &out
}

func (s *Schema) Clone() *Schema {
	out := *s
	out.Namespace = s.Namespace.Clone()
	out.SchemaBody = CopyValue(s.SchemaBody)
	return &out
}

func (s *System) Clone() *System {
	out := *s
	out.Namespace = s.Namespace.Clone()
	out.Config = CopyMap(s.Config)
	return &out
}

func (e *DataEntity) Clone() *DataEntity {
	out := *e
	out.Namespace = e.Namespace.Clone()
	out.System = e.System.Clone()
	out.EntitySchema = e.EntitySchema.Clone()
	out.Checks = copyAnySlice(e.Checks)
	out.Config = CopyMap(e.Config)
	return &out
}

func (p *Pipeline) Clone() *Pipeline {
	out := *p
	out.Namespace = p.Namespace.Clone()
	out.Instances = p.Instances.Clone()
	out.Config = CopyMap(p.Config)
	return &out
}

// CloneEntity deep-copies any of the five entity types.
func CloneEntity(e Entity) Entity {
	switch v := e.(type) {
	case *Namespace:
		return v.Clone()
	case *Schema:
		return v.Clone()
	case *System:
		return v.Clone()
	case *DataEntity:
		return v.Clone()
	case *Pipeline:
		return v.Clone()
	}
	return e
}

func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	out := &Graph{
		Namespaces:   make([]*Namespace, len(g.Namespaces)),
		Schemas:      make([]*Schema, len(g.Schemas)),
		Systems:      make([]*System, len(g.Systems)),
		DataEntities: make([]*DataEntity, len(g.DataEntities)),
		Pipelines:    make([]*Pipeline, len(g.Pipelines)),
	}
	for i, v := range g.Namespaces {
		out.Namespaces[i] = v.Clone()
	}
	for i, v := range g.Schemas {
		out.Schemas[i] = v.Clone()
	}
	for i, v := range g.Systems {
		out.Systems[i] = v.Clone()
	}
	for i, v := range g.DataEntities {
		out.DataEntities[i] = v.Clone()
	}
	for i, v := range g.Pipelines {
		out.Pipelines[i] = v.Clone()
	}
	return out
}
