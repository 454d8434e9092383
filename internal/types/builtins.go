package types

// registerBuiltins seeds a fresh TypeEnv with the signatures of every
// host function internal/interp.RegisterBuiltins installs at runtime, plus
// the immutable constants pi/e/tau (spec §9 "all other globals... are
// immutable after initialization"). Without this, any script calling a
// builtin would fail type-checking with "undefined variable" before ever
// reaching the interpreter, even though the interpreter itself resolves
// builtins by name through the same kind of environment lookup as any
// other identifier (spec §6 "Names resolve through the environment lookup
// like any other identifier").
func registerBuiltins(env *TypeEnv) {
	def := func(name string, sig Type) { env.Define(name, Scheme{Type: sig}) }
	// defPoly declares a scheme whose listed ids are instantiated fresh at
	// every call site (spec §4.3 "Function types are instantiated at each
	// call site"), used for print/len which accept any value type.
	defPoly := func(name string, vars []int, sig Type) { env.Define(name, Scheme{Vars: vars, Type: sig}) }
	unaryFloat := func(name string) { def(name, Function{Params: []Type{Float{}}, Return: Float{}}) }

	unaryFloat("sqrt")
	unaryFloat("abs")
	unaryFloat("sin")
	unaryFloat("cos")
	unaryFloat("tan")
	unaryFloat("floor")
	unaryFloat("ceil")
	def("pow", Function{Params: []Type{Float{}, Float{}}, Return: Float{}})

	defPoly("print", []int{-1}, Function{Params: []Type{TypeVar{ID: -1}}, Return: Unit{}})
	defPoly("len", []int{-2}, Function{Params: []Type{TypeVar{ID: -2}}, Return: Int{}})

	def("vec3", Function{Params: []Type{Float{}, Float{}, Float{}}, Return: Struct{Name: "Vec3"}})
	def("string_normalize", Function{Params: []Type{String{}}, Return: String{}})
	def("string_compare", Function{Params: []Type{String{}, String{}}, Return: Int{}})
	def("lower", Function{Params: []Type{String{}}, Return: String{}})
	def("upper", Function{Params: []Type{String{}}, Return: String{}})

	worldT := PhysicsWorldType{}
	def("create_physics_world", Function{Params: nil, Return: worldT})
	def("add_rigid_body", Function{
		Params: []Type{worldT, String{}, Float{}, Array{Elem: Float{}}},
		Return: Int{},
	})
	def("physics_step", Function{Params: []Type{worldT}, Return: Unit{}})
	def("get_object_position", Function{Params: []Type{worldT, Int{}}, Return: Array{Elem: Float{}}})
	def("get_object_velocity", Function{Params: []Type{worldT, Int{}}, Return: Array{Elem: Float{}}})
	def("is_body_sleeping", Function{Params: []Type{worldT, Int{}}, Return: Bool{}})
	def("set_gravity", Function{Params: []Type{worldT, Float{}, Float{}, Float{}}, Return: Unit{}})

	def("pi", Float{})
	def("e", Float{})
	def("tau", Float{})
}

// registerBuiltinStructs pre-populates the struct registry with the field
// shapes of the built-in composite values (spec §3.2's Vec3/Quaternion
// domain primitives, here modeled as ordinary named structs so FieldAccess
// on a vec3(...) result type-checks exactly like a user struct's fields).
func registerBuiltinStructs(r *StructRegistry) {
	r.Define("Vec3", []string{"x", "y", "z"}, map[string]Type{
		"x": Float{}, "y": Float{}, "z": Float{},
	})
	r.Define("Quaternion", []string{"x", "y", "z", "w"}, map[string]Type{
		"x": Float{}, "y": Float{}, "z": Float{}, "w": Float{},
	})
}
