package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceConstraintConverges(t *testing.T) {
	a := &Particle{Position: Vec3{0, 0, 0}, InvMass: 1}
	b := &Particle{Position: Vec3{2, 0, 0}, InvMass: 1}
	c := NewDistanceConstraint(a, b, 1.0, 1.0)
	c.SetCompliance(0)

	solver := NewConstraintSolver()
	solver.Solve([]Constraint{c}, 1.0/60.0)

	dist := b.Position.Sub(a.Position).Length()
	assert.InDelta(t, 1.0, dist, 1e-3)
}

func TestSphereSphereOverlapProducesContact(t *testing.T) {
	world := &PhysicsWorld{Solver: NewConstraintSolver()}
	a := NewRigidBody(Vec3{0, 0, 0})
	b := NewRigidBody(Vec3{0.5, 0, 0})
	world.Bodies = []*RigidBody{a, b}

	contact, ok := NarrowPhase(0, 1, a, b)
	assert.True(t, ok)
	assert.Less(t, contact.Separation, 0.0)
}

func TestComplianceZeroStiffnessIsRigid(t *testing.T) {
	assert.Equal(t, 0.0, Compliance(0, 1.0/60.0))
	assert.Greater(t, Compliance(100, 1.0/60.0), 0.0)
}

func TestStepIntegratesGravity(t *testing.T) {
	w := newWorld(1)
	b := NewRigidBody(Vec3{0, 10, 0})
	w.AddBody(b)

	for i := 0; i < 10; i++ {
		Step(w, 1.0/60.0)
	}

	assert.Less(t, b.Position.Y, 10.0)
}

func TestQuaternionStaysNormalizedAcrossSteps(t *testing.T) {
	w := newWorld(2)
	b := NewRigidBody(Vec3{0, 10, 0})
	b.AngularVel = Vec3{1, 2, 3}
	w.AddBody(b)

	for i := 0; i < 120; i++ {
		Step(w, 1.0/60.0)
	}

	q := b.Orientation
	norm := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestContactNormalLambdaNeverNegative(t *testing.T) {
	a := &Particle{Position: Vec3{0, 0, 0}, PrevPosition: Vec3{0, 0, 0}, InvMass: 1}
	b := &Particle{Position: Vec3{0.9, 0, 0}, PrevPosition: Vec3{0.9, 0, 0}, InvMass: 1}
	cc := &ContactConstraint{A: a, B: b, Normal: Vec3{1, 0, 0}, Separation: 0.1, Friction: 0.5, Restitution: 0}
	cc.SetCompliance(0)

	solver := NewConstraintSolver()
	solver.Solve([]Constraint{cc}, 1.0/60.0)

	assert.GreaterOrEqual(t, cc.Lambda(), 0.0)
}
