package physics

// Shape is the narrow-phase collision shape attached to a RigidBody.
// Grounded on original_source/src/physics/rigid_body.rs's Shape enum.
type Shape interface {
	shapeNode()
	// Inertia returns the body-frame principal moments of inertia for a
	// shape of this size and the given mass (spec §3.6 "inertia tensor...
	// recomputed each step from orientation").
	Inertia(mass float64) Vec3
}

type SphereShape struct{ Radius float64 }

func (SphereShape) shapeNode() {}
func (s SphereShape) Inertia(mass float64) Vec3 {
	i := 0.4 * mass * s.Radius * s.Radius // solid sphere: (2/5) m r^2
	return Vec3{i, i, i}
}

type BoxShape struct{ HalfExtents Vec3 }

func (BoxShape) shapeNode() {}
func (b BoxShape) Inertia(mass float64) Vec3 {
	w, h, d := 2*b.HalfExtents.X, 2*b.HalfExtents.Y, 2*b.HalfExtents.Z
	k := mass / 12.0
	return Vec3{k * (h*h + d*d), k * (w*w + d*d), k * (w*w + h*h)}
}

// CapsuleShape and CylinderShape are accepted shape names (spec §3.6's
// shape tag list). The narrow phase has no test for them: NarrowPhase
// returns no contact for any pair involving one, and BoundsOf gives them
// a zero-size box at the body's position.
type CapsuleShape struct {
	Radius, HalfHeight float64
}

func (CapsuleShape) shapeNode() {}
func (c CapsuleShape) Inertia(mass float64) Vec3 {
	r, h := c.Radius, 2*c.HalfHeight
	radial := mass * (3*r*r + h*h) / 12.0
	axial := 0.5 * mass * r * r
	return Vec3{radial, axial, radial}
}

type CylinderShape struct {
	Radius, HalfHeight float64
}

func (CylinderShape) shapeNode() {}
func (c CylinderShape) Inertia(mass float64) Vec3 {
	r, h := c.Radius, 2*c.HalfHeight
	radial := mass * (3*r*r + h*h) / 12.0
	axial := 0.5 * mass * r * r
	return Vec3{radial, axial, radial}
}

// ShapeByName builds the Shape the `add_rigid_body(world, shape_name, mass,
// position)` builtin names (spec §6); an unrecognized name falls back to a
// unit sphere rather than erroring, since the shape tag is descriptive, not
// load-bearing for the handle contract.
func ShapeByName(name string) Shape {
	switch name {
	case "box":
		return BoxShape{HalfExtents: Vec3{0.5, 0.5, 0.5}}
	case "capsule":
		return CapsuleShape{Radius: 0.5, HalfHeight: 0.5}
	case "cylinder":
		return CylinderShape{Radius: 0.5, HalfHeight: 0.5}
	case "sphere", "convex_hull", "triangle_mesh":
		return SphereShape{Radius: 0.5}
	default:
		return SphereShape{Radius: 0.5}
	}
}

// RigidBody is a single rigid object tracked by a PhysicsWorld. Position
// and Orientation are the XPBD solver's primary state; PrevPosition is
// retained across a step to recover velocity after constraint projection
// (spec §4.4's "solve positions, derive velocities" structure).
type RigidBody struct {
	ID              int
	Position        Vec3
	PrevPosition    Vec3
	Orientation     Quaternion
	PrevOrientation Quaternion
	LinearVel       Vec3
	AngularVel      Vec3
	Mass            float64
	InvMass         float64
	InvInertiaBody  Vec3 // diagonal body-frame inverse inertia tensor
	WorldInvInertia Mat3 // cached, recomputed every integrate-forces pass
	Force           Vec3 // accumulated external force, cleared each step
	Torque          Vec3 // accumulated external torque, cleared each step
	Shape           Shape
	Restitution     float64
	Friction        float64
	LinearDamping   float64
	AngularDamping  float64
	GravityScale    float64
	IsStatic        bool
	IsKinematic     bool
	IsSleeping      bool
}

// NewRigidBody builds a body with the field defaults spec §9 and the
// original implementation's RigidBody::new carry: a unit mass sphere at
// rest, restitution 0.6, friction 0.7, and the small damping terms
// (0.01 linear / 0.05 angular) that keep long-running simulations from
// accumulating unbounded spin.
func NewRigidBody(position Vec3) *RigidBody {
	b := &RigidBody{
		Position:       position,
		Orientation:    IdentityQuat,
		Mass:           1.0,
		InvMass:        1.0,
		Shape:          SphereShape{Radius: 0.5},
		Restitution:    0.6,
		Friction:       0.7,
		LinearDamping:  0.01,
		AngularDamping: 0.05,
		GravityScale:   1.0,
	}
	b.RecomputeInertia()
	return b
}

// RecomputeInertia derives InvInertiaBody from the body's current Shape and
// Mass; static bodies get a zero tensor (spec §3.6 "For static bodies the
// world-frame inverse inertia tensor is the zero matrix").
func (b *RigidBody) RecomputeInertia() {
	if b.IsStatic || b.Mass <= 0 || b.Shape == nil {
		b.InvInertiaBody = Vec3{}
		return
	}
	i := b.Shape.Inertia(b.Mass)
	b.InvInertiaBody = Vec3{invOrZero(i.X), invOrZero(i.Y), invOrZero(i.Z)}
}

func invOrZero(v float64) float64 {
	if v <= 1e-12 {
		return 0
	}
	return 1 / v
}

// SetMass recomputes InvMass, treating Mass <= 0 as a static (infinite
// mass) body that never moves under constraint solving. Invariant (spec
// §3.6): inverse mass is 0 exactly when mass is 0 or IsStatic.
func (b *RigidBody) SetMass(mass float64) {
	b.Mass = mass
	if mass <= 0 {
		b.InvMass = 0
		b.IsStatic = true
	} else {
		b.InvMass = 1 / mass
		b.IsStatic = false
	}
	b.RecomputeInertia()
}

// SetStatic marks the body static, zeroing its inverse mass and inertia
// regardless of its nominal Mass.
func (b *RigidBody) SetStatic(static bool) {
	b.IsStatic = static
	if static {
		b.InvMass = 0
	} else if b.Mass > 0 {
		b.InvMass = 1 / b.Mass
	}
	b.RecomputeInertia()
}

// ApplyForce/ApplyTorque accumulate an external force/torque to be
// integrated on the next Step call and cleared afterward (spec §4.5 step 1
// "Clear accumulated force and torque").
func (b *RigidBody) ApplyForce(f Vec3)  { b.Force = b.Force.Add(f) }
func (b *RigidBody) ApplyTorque(t Vec3) { b.Torque = b.Torque.Add(t) }

// Particle is one point mass of a SoftBody, advanced by position-based
// dynamics the same way a RigidBody's center of mass is.
type Particle struct {
	Position     Vec3
	PrevPosition Vec3
	Velocity     Vec3
	InvMass      float64
	Pinned       bool
}

// SoftBody is a mass-spring-like structure whose internal constraints are
// solved by the same XPBD loop as rigid body contacts. Only distance
// constraints exist; there are no bending, area, or volume constraints.
type SoftBody struct {
	ID          int
	Particles   []*Particle
	Constraints []Constraint
}

func NewSoftBody() *SoftBody {
	return &SoftBody{}
}
