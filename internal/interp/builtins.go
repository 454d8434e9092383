package interp

import (
	"fmt"
	"math"

	"github.com/dedzsinator/matrixlang/internal/physics"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// RegisterBuiltins installs the host function surface spec §6 calls for:
// math helpers, vector/matrix convenience constructors, basic I/O, and the
// physics bridge (create_physics_world/add_rigid_body/physics_step/
// get_object_position).
func RegisterBuiltins(env *Environment) {
	def := func(name string, fn func([]Value) (Value, error)) {
		env.Define(name, BuiltinFunction{Name: name, Fn: fn})
	}

	def("sqrt", unaryFloat(math.Sqrt))
	def("abs", unaryFloat(math.Abs))
	def("sin", unaryFloat(math.Sin))
	def("cos", unaryFloat(math.Cos))
	def("tan", unaryFloat(math.Tan))
	def("floor", unaryFloat(math.Floor))
	def("ceil", unaryFloat(math.Ceil))
	def("pow", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow expects 2 arguments, got %d", len(args))
		}
		base, ok1 := numeric(args[0])
		exp, ok2 := numeric(args[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("pow expects numeric arguments")
		}
		return FloatValue(math.Pow(base, exp)), nil
	})

	def("print", func(args []Value) (Value, error) {
		parts := make([]any, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Println(parts...)
		return UnitValue{}, nil
	})

	def("len", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("len expects 1 argument, got %d", len(args))
		}
		switch v := args[0].(type) {
		case ArrayValue:
			return IntValue(len(v.Elements)), nil
		case StringValue:
			return IntValue(len(v)), nil
		default:
			return nil, fmt.Errorf("len does not support %T", v)
		}
	})

	def("vec3", func(args []Value) (Value, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("vec3 expects 3 arguments, got %d", len(args))
		}
		return StructValue{TypeName: "Vec3", Fields: map[string]Value{
			"x": FloatValue(asFloat(args[0])),
			"y": FloatValue(asFloat(args[1])),
			"z": FloatValue(asFloat(args[2])),
		}}, nil
	})

	def("string_normalize", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("string_normalize expects 1 argument, got %d", len(args))
		}
		s, ok := args[0].(StringValue)
		if !ok {
			return nil, fmt.Errorf("string_normalize expects a String argument")
		}
		return StringValue(norm.NFC.String(string(s))), nil
	})

	collator := collate.New(language.Und)
	def("string_compare", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("string_compare expects 2 arguments, got %d", len(args))
		}
		a, ok1 := args[0].(StringValue)
		b, ok2 := args[1].(StringValue)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("string_compare expects two String arguments")
		}
		return IntValue(collator.CompareString(string(a), string(b))), nil
	})

	lowerCaser := cases.Lower(language.Und)
	def("lower", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("lower expects 1 argument, got %d", len(args))
		}
		s, ok := args[0].(StringValue)
		if !ok {
			return nil, fmt.Errorf("lower expects a String argument")
		}
		return StringValue(lowerCaser.String(string(s))), nil
	})

	upperCaser := cases.Upper(language.Und)
	def("upper", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("upper expects 1 argument, got %d", len(args))
		}
		s, ok := args[0].(StringValue)
		if !ok {
			return nil, fmt.Errorf("upper expects a String argument")
		}
		return StringValue(upperCaser.String(string(s))), nil
	})

	registerPhysicsBuiltins(def)
}

func unaryFloat(f func(float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		v, ok := numeric(args[0])
		if !ok {
			return nil, fmt.Errorf("expected a numeric argument")
		}
		return FloatValue(f(v)), nil
	}
}

// registerPhysicsBuiltins wires the script-visible physics bridge
// functions onto internal/physics's world registry and XPBD step loop,
// following spec §6's external-interfaces table literally: bodies are
// addressed by the dense Int index `add_rigid_body` returns, not an opaque
// struct handle.
func registerPhysicsBuiltins(def func(string, func([]Value) (Value, error))) {
	worldArg := func(args []Value, i int) (*physics.PhysicsWorld, error) {
		pw, ok := args[i].(PhysicsWorldValue)
		if !ok {
			return nil, fmt.Errorf("expected a PhysicsWorld argument, got %T", args[i])
		}
		return physics.Lookup(pw.Handle)
	}
	arrayToVec3 := func(v Value) (physics.Vec3, error) {
		arr, ok := v.(ArrayValue)
		if !ok || len(arr.Elements) != 3 {
			return physics.Vec3{}, fmt.Errorf("expected a 3-element [x, y, z] array")
		}
		return physics.Vec3{X: asFloat(arr.Elements[0]), Y: asFloat(arr.Elements[1]), Z: asFloat(arr.Elements[2])}, nil
	}
	vec3ToArray := func(v physics.Vec3) ArrayValue {
		return ArrayValue{Elements: []Value{FloatValue(v.X), FloatValue(v.Y), FloatValue(v.Z)}}
	}

	def("create_physics_world", func(args []Value) (Value, error) {
		return PhysicsWorldValue{Handle: physics.CreateWorld()}, nil
	})

	// add_rigid_body(world, shape_name, mass, [x, y, z]) -> Int
	def("add_rigid_body", func(args []Value) (Value, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("add_rigid_body expects 4 arguments (world, shape_name, mass, position), got %d", len(args))
		}
		w, err := worldArg(args, 0)
		if err != nil {
			return nil, err
		}
		shapeName, ok := args[1].(StringValue)
		if !ok {
			return nil, fmt.Errorf("add_rigid_body expects a shape name string as its second argument")
		}
		mass, ok := numeric(args[2])
		if !ok {
			return nil, fmt.Errorf("add_rigid_body expects a numeric mass as its third argument")
		}
		pos, err := arrayToVec3(args[3])
		if err != nil {
			return nil, err
		}
		body := physics.NewRigidBody(pos)
		body.Shape = physics.ShapeByName(string(shapeName))
		body.SetMass(mass)
		idx := w.AddBody(body)
		return IntValue(idx), nil
	})

	def("physics_step", func(args []Value) (Value, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("physics_step expects a PhysicsWorld argument")
		}
		w, err := worldArg(args, 0)
		if err != nil {
			return nil, err
		}
		dt := w.TimeStep
		if len(args) >= 2 {
			if v, ok := numeric(args[1]); ok {
				dt = v
			}
		}
		physics.Step(w, dt)
		return UnitValue{}, nil
	})

	bodyArg := func(args []Value, fn string) (*physics.RigidBody, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments (world, body index)", fn)
		}
		w, err := worldArg(args, 0)
		if err != nil {
			return nil, err
		}
		idx, ok := numeric(args[1])
		if !ok {
			return nil, fmt.Errorf("%s expects an Int body index as its second argument", fn)
		}
		body, ok := w.BodyAt(int(idx))
		if !ok {
			return nil, fmt.Errorf("%s: no rigid body with index %d in this world", fn, int(idx))
		}
		return body, nil
	}

	// get_object_position(world, obj) -> [Float, Float, Float]
	def("get_object_position", func(args []Value) (Value, error) {
		body, err := bodyArg(args, "get_object_position")
		if err != nil {
			return nil, err
		}
		return vec3ToArray(body.Position), nil
	})

	def("get_object_velocity", func(args []Value) (Value, error) {
		body, err := bodyArg(args, "get_object_velocity")
		if err != nil {
			return nil, err
		}
		return vec3ToArray(body.LinearVel), nil
	})

	def("is_body_sleeping", func(args []Value) (Value, error) {
		body, err := bodyArg(args, "is_body_sleeping")
		if err != nil {
			return nil, err
		}
		return BoolValue(body.IsSleeping), nil
	})

	def("set_gravity", func(args []Value) (Value, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("set_gravity expects 4 arguments (world, x, y, z)")
		}
		w, err := worldArg(args, 0)
		if err != nil {
			return nil, err
		}
		w.Gravity = physics.Vec3{X: asFloat(args[1]), Y: asFloat(args[2]), Z: asFloat(args[3])}
		return UnitValue{}, nil
	})
}
