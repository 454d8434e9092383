package types

// StructRegistry resolves struct type names to their field types, filled
// in by the checker as it walks struct definitions (spec §2.1 supplements
// the distilled spec with named struct types; grounded on
// original_source/matrix-lang/src/types/checker.rs's struct table).
type StructRegistry struct {
	fields map[string]map[string]Type
	order  map[string][]string
}

func NewStructRegistry() *StructRegistry {
	return &StructRegistry{
		fields: make(map[string]map[string]Type),
		order:  make(map[string][]string),
	}
}

func (r *StructRegistry) Define(name string, fieldOrder []string, fields map[string]Type) {
	r.fields[name] = fields
	r.order[name] = fieldOrder
}

func (r *StructRegistry) FieldType(structName, field string) (Type, bool) {
	fields, ok := r.fields[structName]
	if !ok {
		return nil, false
	}
	t, ok := fields[field]
	return t, ok
}

func (r *StructRegistry) Exists(name string) bool {
	_, ok := r.fields[name]
	return ok
}

func (r *StructRegistry) FieldOrder(name string) []string { return r.order[name] }

// TypeclassDef records a typeclass's method signatures (spec §2.1
// supplements the distilled spec's typeclass mentions with a real registry,
// grounded on original_source/src/typeclass.rs). `instance X for Type`
// blocks are not checked against it for completeness.
type TypeclassDef struct {
	Name    string
	Methods map[string]Function
}

type TypeclassRegistry struct {
	classes   map[string]*TypeclassDef
	instances map[string]map[string]bool // class name -> type name -> true
}

func NewTypeclassRegistry() *TypeclassRegistry {
	r := &TypeclassRegistry{
		classes:   make(map[string]*TypeclassDef),
		instances: make(map[string]map[string]bool),
	}
	// Built-in marker typeclasses from spec §3.2/§5. The checker consults
	// only Addable (for arithmetic operands); Send, Sync and GpuCompatible
	// are registered with their instances but never checked at spawn
	// boundaries or `gpu { }` bodies.
	for _, name := range []string{"Addable", "Send", "Sync", "GpuCompatible"} {
		r.classes[name] = &TypeclassDef{Name: name, Methods: map[string]Function{}}
		r.instances[name] = map[string]bool{}
	}
	for _, prim := range []string{"Int", "Float", "Vec3", "String"} {
		r.instances["Addable"][prim] = true
	}
	for _, prim := range []string{"Int", "Float", "Bool", "String", "Vec3", "Quaternion"} {
		r.instances["Send"][prim] = true
		r.instances["Sync"][prim] = true
	}
	for _, prim := range []string{"Int", "Float", "Vec3"} {
		r.instances["GpuCompatible"][prim] = true
	}
	return r
}

func (r *TypeclassRegistry) Define(def *TypeclassDef) {
	r.classes[def.Name] = def
	if r.instances[def.Name] == nil {
		r.instances[def.Name] = map[string]bool{}
	}
}

func (r *TypeclassRegistry) AddInstance(class, typeName string) {
	if r.instances[class] == nil {
		r.instances[class] = map[string]bool{}
	}
	r.instances[class][typeName] = true
}

func (r *TypeclassRegistry) Satisfies(class, typeName string) bool {
	return r.instances[class] != nil && r.instances[class][typeName]
}

func (r *TypeclassRegistry) Lookup(class string) (*TypeclassDef, bool) {
	d, ok := r.classes[class]
	return d, ok
}

// TypeName renders a concrete Type (no TypeVars) into the name used by the
// typeclass instance tables above.
func TypeName(t Type) string {
	switch v := t.(type) {
	case Struct:
		return v.Name
	default:
		return t.String()
	}
}
